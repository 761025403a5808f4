package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/customeros/sleeper/config"
	sleepererrors "github.com/customeros/sleeper/internal/errors"
)

func TestPlainTextParser_CaseSensitiveByDefault(t *testing.T) {
	p := NewPlainTextParser(false)

	assert.True(t, p.PhraseExists("Test", "this is a Test message"))
	assert.False(t, p.PhraseExists("test", "this is a Test message"))
	assert.False(t, p.PhraseExists("Test", ""))
	assert.True(t, p.PhraseExists("message", "message"))
}

func TestPlainTextParser_CaseFold(t *testing.T) {
	p := NewPlainTextParser(true)

	assert.True(t, p.PhraseExists("test", "this is a TEST message"))
	assert.True(t, p.PhraseExists("ÄPFEL", "grüne äpfel"))
	assert.False(t, p.PhraseExists("nope", "this is a TEST message"))
}

func TestPlainTextParser_EmptyPhraseIsContained(t *testing.T) {
	assert.True(t, NewPlainTextParser(false).PhraseExists("", "anything"))
	assert.True(t, NewPlainTextParser(true).PhraseExists("", ""))
}

func TestHTMLParser_MatchesVisibleText(t *testing.T) {
	p := NewHTMLParser(false)
	doc := `<html><head><title>Open</title><style>.x{}</style></head><body><p>Say <b>Open</b> Sesame &amp; go</p><script>var Secret=1</script></body></html>`

	assert.True(t, p.PhraseExists("Open Sesame & go", doc))
	assert.False(t, p.PhraseExists("Secret", doc))
	assert.False(t, p.PhraseExists("<b>", doc))
}

func TestHTMLParser_CaseFold(t *testing.T) {
	p := NewHTMLParser(true)

	assert.True(t, p.PhraseExists("open sesame", "<p>OPEN <i>SESAME</i></p>"))
}

func TestNoParser_NeverMatches(t *testing.T) {
	assert.False(t, NoParser{}.PhraseExists("a", "a"))
}

func TestNew_Registry(t *testing.T) {
	opts := config.Defaults().Merge(map[string]string{config.KeyPlainTextCaseInsensitive: "true"})

	for name, expected := range map[string]string{
		"plaintext":                               NamePlainText,
		"PlainText":                               NamePlainText,
		"html":                                    NameHTML,
		"none":                                    NameNone,
		"":                                        NameNone,
		"se.cqst.sleeper.parsers.PlainTextParser": NamePlainText,
	} {
		p, err := New(name, opts)

		require.NoError(t, err, name)
		assert.Equal(t, expected, p.Name(), name)
	}

	p, err := New("plaintext", opts)
	require.NoError(t, err)
	assert.True(t, p.PhraseExists("abc", "xABCx"))
}

func TestNew_UnknownParser(t *testing.T) {
	// Act
	p, err := New("regex", config.Defaults())

	// Assert
	assert.Nil(t, p)
	require.Error(t, err)
	assert.True(t, sleepererrors.IsConfiguration(err))
	assert.ErrorIs(t, err, sleepererrors.ErrUnknownParser)
}
