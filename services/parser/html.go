package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLParser matches against the visible text of an HTML document.
type HTMLParser struct {
	caseInsensitive bool
}

func NewHTMLParser(caseInsensitive bool) *HTMLParser {
	return &HTMLParser{caseInsensitive: caseInsensitive}
}

func (p *HTMLParser) Name() string {
	return NameHTML
}

func (p *HTMLParser) PhraseExists(phrase, text string) bool {
	return containsPhrase(phrase, visibleText(text), p.caseInsensitive)
}

func visibleText(text string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return text
	}
	doc.Find("script, style, head").Remove()
	return doc.Text()
}
