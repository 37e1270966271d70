// Package normalizer turns raw article JSON into keyword dataset records.
package normalizer

import (
	"bytes"
	"fmt"

	"m3lsprep/internal/jsonvalue"
	"m3lsprep/internal/models"
)

// Status classifies the outcome of processing one article.
type Status int

// Processing outcomes.
const (
	Accepted Status = iota
	Filtered
	Invalid
)

func (s Status) String() string {
	switch s {
	case Accepted:
		return "accepted"
	case Filtered:
		return "filtered"
	case Invalid:
		return "invalid"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is the outcome of Process. Record is set only when Status is Accepted;
// Reason is set otherwise.
type Result struct {
	Record models.Record
	Reason error
	Status Status
}

// Options tune the processor.
type Options struct {
	// CleanHTML strips markup from paragraphs before joining them.
	CleanHTML bool
}

// Processor parses, validates and transforms article payloads.
type Processor struct {
	validator   *Validator
	transformer *Transformer
}

// NewProcessor creates a new processor instance.
func NewProcessor(opts Options) *Processor {
	return &Processor{
		validator:   NewValidator(),
		transformer: NewTransformer(opts.CleanHTML),
	}
}

var utf8BOM = []byte("\xef\xbb\xbf")

// Process parses text as an article and decides whether it becomes a record.
// It never fails: problems are reported through the returned Result.
func (p *Processor) Process(text string) Result {
	data := bytes.TrimPrefix([]byte(text), utf8BOM)

	// 1. Parse the payload
	doc, err := jsonvalue.Parse(data)
	if err != nil {
		return Result{Status: Invalid, Reason: fmt.Errorf("%w: %w", ErrMalformedJSON, err)}
	}

	// 2. Keywords
	keywords, err := p.validator.Keywords(doc)
	if err != nil {
		return reject(err)
	}

	// 3. Paragraphs across numeric sections
	paragraphs := p.transformer.Paragraphs(doc)
	if err := p.validator.Paragraphs(paragraphs); err != nil {
		return reject(err)
	}

	// 4. Build the record
	rec := p.transformer.Transform(keywords, paragraphs)
	if err := p.validator.Record(rec); err != nil {
		return reject(err)
	}

	return Result{Status: Accepted, Record: rec}
}

func reject(err error) Result {
	if IsFiltered(err) {
		return Result{Status: Filtered, Reason: err}
	}

	return Result{Status: Invalid, Reason: err}
}
