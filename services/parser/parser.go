package parser

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/customeros/sleeper/config"
	"github.com/customeros/sleeper/interfaces"
	sleepererrors "github.com/customeros/sleeper/internal/errors"
)

const (
	NameNone      = "none"
	NamePlainText = "plaintext"
	NameHTML      = "html"
)

type Factory func(opts config.Options) interfaces.Parser

var registry = map[string]Factory{
	NameNone: func(config.Options) interfaces.Parser {
		return NoParser{}
	},
	NamePlainText: func(opts config.Options) interfaces.Parser {
		return NewPlainTextParser(opts.Bool(config.KeyPlainTextCaseInsensitive))
	},
	NameHTML: func(opts config.Options) interfaces.Parser {
		return NewHTMLParser(opts.Bool(config.KeyPlainTextCaseInsensitive))
	},
}

// aliases keep configurations written for the class-name based lookup working.
var aliases = map[string]string{
	"se.cqst.sleeper.parsers.plaintextparser": NamePlainText,
	"se.cqst.sleeper.parsers.noparser":        NameNone,
}

// Names returns the registered parser names.
func Names() []string {
	return []string{NameNone, NamePlainText, NameHTML}
}

// New resolves a parser by name. An empty name selects the parser that never matches.
func New(name string, opts config.Options) (interfaces.Parser, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return NoParser{}, nil
	}
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	factory, ok := registry[key]
	if !ok {
		return nil, sleepererrors.Configuration("parser", errors.Wrapf(sleepererrors.ErrUnknownParser, "%q", name))
	}
	return factory(opts), nil
}

// NoParser never matches.
type NoParser struct{}

func (NoParser) Name() string {
	return NameNone
}

func (NoParser) PhraseExists(string, string) bool {
	return false
}
