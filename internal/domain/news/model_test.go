package news

import "testing"

func TestArticleValidate(t *testing.T) {
	tests := []struct {
		name string
		a    Article
		want error
	}{
		{"valid", Article{Title: "AGM", Body: "Annual meeting on **Sunday**"}, nil},
		{"no title", Article{Body: "x"}, ErrEmptyTitle},
		{"no body", Article{Title: "x"}, ErrEmptyBody},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Validate(); got != tt.want {
				t.Errorf("Validate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestArticleSummary(t *testing.T) {
	a := Article{Body: "नमस्ते community"}
	if got := a.Summary(6); got != "नमस्ते…" {
		t.Errorf("Summary(6) = %q", got)
	}
	if got := a.Summary(100); got != a.Body {
		t.Errorf("Summary(100) = %q, want full body", got)
	}
}
