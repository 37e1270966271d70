package normalizer

import (
	"sort"
	"strings"

	"m3lsprep/internal/jsonvalue"
	"m3lsprep/internal/models"
	"m3lsprep/pkg/utils"

	"github.com/PuerkitoBio/goquery"
)

// Transformer turns validated article fields into dataset records.
type Transformer struct {
	cleanHTML bool
}

// NewTransformer creates a new transformer instance.
func NewTransformer(cleanHTML bool) *Transformer {
	return &Transformer{cleanHTML: cleanHTML}
}

// Sections returns the numeric section keys of doc ordered by their integer value.
func (t *Transformer) Sections(doc jsonvalue.Value) []string {
	var keys []string

	for _, key := range doc.Keys() {
		if isSectionKey(key) {
			keys = append(keys, key)
		}
	}

	sort.SliceStable(keys, func(i, j int) bool {
		return lessNumeric(keys[i], keys[j])
	})

	return keys
}

// Paragraphs collects every "para" entry across the numeric sections of doc.
// Sections that are not objects or whose para is not a list of strings are skipped.
func (t *Transformer) Paragraphs(doc jsonvalue.Value) []string {
	var paragraphs []string

	for _, key := range t.Sections(doc) {
		para, ok := doc.Get(key).Get("para").Strings()
		if !ok {
			continue
		}

		for _, p := range para {
			if t.cleanHTML {
				p = cleanParagraph(p)
				if p == "" {
					continue
				}
			}

			paragraphs = append(paragraphs, p)
		}
	}

	return paragraphs
}

// Transform builds the output record.
func (t *Transformer) Transform(keywords, paragraphs []string) models.Record {
	return models.Record{
		Content:  strings.Join(paragraphs, "\n"),
		Keywords: keywords,
	}
}

// isSectionKey accepts non-empty ASCII digit strings.
func isSectionKey(key string) bool {
	if key == "" {
		return false
	}

	for i := 0; i < len(key); i++ {
		if key[i] < '0' || key[i] > '9' {
			return false
		}
	}

	return true
}

// lessNumeric compares two digit strings by value without parsing them, so
// arbitrarily long keys cannot overflow. Equal values fall back to the raw key.
func lessNumeric(a, b string) bool {
	ta := strings.TrimLeft(a, "0")
	tb := strings.TrimLeft(b, "0")

	if len(ta) != len(tb) {
		return len(ta) < len(tb)
	}

	if ta != tb {
		return ta < tb
	}

	return a < b
}

// cleanParagraph strips markup from paragraphs that look like HTML.
func cleanParagraph(p string) string {
	if !strings.ContainsAny(p, "<&") {
		return utils.NormalizeWhitespace(p)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(p))
	if err != nil {
		return utils.NormalizeWhitespace(p)
	}

	doc.Find("script, style, noscript").Remove()

	return utils.NormalizeWhitespace(doc.Text())
}
