package normalizer

import (
	"errors"
	"fmt"

	"m3lsprep/internal/jsonvalue"
	"m3lsprep/internal/models"
)

// Validation errors. ErrNoKeywords and ErrNoParagraphs mark entries that are
// well formed but filtered out; the rest mark invalid entries.
var (
	ErrMalformedJSON   = errors.New("malformed JSON")
	ErrNotObject       = errors.New("article is not a JSON object")
	ErrInvalidKeywords = errors.New("keyword is not an array of strings")
	ErrNoKeywords      = errors.New("article has no keywords")
	ErrNoParagraphs    = errors.New("article has no paragraphs")
)

// Validator checks the shape of a decoded article.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// Keywords validates the article root and returns its keyword list.
// An absent keyword field is treated as an empty list.
func (v *Validator) Keywords(doc jsonvalue.Value) ([]string, error) {
	if doc.Kind() != jsonvalue.Object {
		return nil, fmt.Errorf("%w: got %s", ErrNotObject, doc.Kind())
	}

	field := doc.Get("keyword")
	if !field.Exists() {
		return nil, ErrNoKeywords
	}

	keywords, ok := field.Strings()
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidKeywords, field.Kind())
	}

	if len(keywords) == 0 {
		return nil, ErrNoKeywords
	}

	return keywords, nil
}

// Paragraphs checks that at least one paragraph was collected.
func (v *Validator) Paragraphs(paragraphs []string) error {
	if len(paragraphs) == 0 {
		return ErrNoParagraphs
	}

	return nil
}

// Record checks the invariant that emitted records carry content and keywords.
func (v *Validator) Record(rec models.Record) error {
	if len(rec.Keywords) == 0 {
		return ErrNoKeywords
	}

	if rec.Content == "" {
		return fmt.Errorf("%w: content is empty", ErrNoParagraphs)
	}

	return nil
}

// IsFiltered reports whether err describes a filtered entry rather than an invalid one.
func IsFiltered(err error) bool {
	return errors.Is(err, ErrNoKeywords) || errors.Is(err, ErrNoParagraphs)
}
