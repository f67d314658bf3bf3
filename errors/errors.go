package errors

import "fmt"

var (
	ErrVocabularyEmpty      = fmt.Errorf("vocabulary artifact yielded no entries")
	ErrUnsupportedInputType = fmt.Errorf("model declares an unsupported input element type")
	ErrInferenceFailed      = fmt.Errorf("inference run failed")
	ErrModelUnavailable     = fmt.Errorf("model artifact could not be loaded")
	ErrEngineClosed         = fmt.Errorf("inference engine is closed")
	ErrClassifierClosed     = fmt.Errorf("classifier is closed")
	ErrEmptyPhrases         = fmt.Errorf("no scam phrases have been provided")
	ErrSearchDisabled       = fmt.Errorf("full-text search index is not configured")
)
