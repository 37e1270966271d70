package integration

import (
	"testing"

	"m3lsprep/internal/normalizer"
)

// Article bodies shaped like the published corpus: metadata fields next to
// numbered sections, some of which carry paragraphs.
const corpusArticle = `{
  "title": "Budget 2020",
  "url": "https://example.com/budget",
  "keyword": ["budget", "finance", "tax"],
  "summary": ["short summary"],
  "0": {"heading": "Intro", "para": ["The budget was announced.", "Markets reacted."]},
  "1": {"heading": "Images", "img": ["a.jpg"]},
  "2": {"heading": "Detail", "para": ["Tax slabs changed."]},
  "11": {"heading": "Closing", "para": ["More to follow."]}
}`

func TestArticleShapes(t *testing.T) {
	p := normalizer.NewProcessor(normalizer.Options{})

	tests := []struct {
		name        string
		body        string
		wantStatus  normalizer.Status
		wantContent string
	}{
		{
			name:        "Corpus article",
			body:        corpusArticle,
			wantStatus:  normalizer.Accepted,
			wantContent: "The budget was announced.\nMarkets reacted.\nTax slabs changed.\nMore to follow.",
		},
		{
			name:       "Summary only",
			body:       `{"keyword": ["a"], "summary": ["not a section"]}`,
			wantStatus: normalizer.Filtered,
		},
		{
			name:       "Truncated download",
			body:       `{"keyword": ["a"], "0": {"para": ["cut`,
			wantStatus: normalizer.Invalid,
		},
		{
			name:       "Empty file",
			body:       ``,
			wantStatus: normalizer.Invalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := p.Process(tt.body)
			if res.Status != tt.wantStatus {
				t.Fatalf("Status = %s (%v), want %s", res.Status, res.Reason, tt.wantStatus)
			}

			if res.Record.Content != tt.wantContent {
				t.Errorf("Content = %q, want %q", res.Record.Content, tt.wantContent)
			}
		})
	}
}
