package parser

import (
	"strings"

	"golang.org/x/text/cases"
)

type PlainTextParser struct {
	caseInsensitive bool
}

func NewPlainTextParser(caseInsensitive bool) *PlainTextParser {
	return &PlainTextParser{caseInsensitive: caseInsensitive}
}

func (p *PlainTextParser) Name() string {
	return NamePlainText
}

// PhraseExists reports substring containment.
func (p *PlainTextParser) PhraseExists(phrase, text string) bool {
	return containsPhrase(phrase, text, p.caseInsensitive)
}

func containsPhrase(phrase, text string, caseInsensitive bool) bool {
	if caseInsensitive {
		folder := cases.Fold()
		phrase = folder.String(phrase)
		text = folder.String(text)
	}
	return strings.Contains(text, phrase)
}
