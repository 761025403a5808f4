package interfaces

type Parser interface {
	Name() string
	PhraseExists(phrase, text string) bool
}
