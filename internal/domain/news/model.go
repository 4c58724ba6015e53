package news

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrEmptyTitle = errors.New("article title cannot be empty")
	ErrEmptyBody  = errors.New("article body cannot be empty")
)

// Article is a published news item. Body is Markdown.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Author      string    `json:"author"`
	PublishedAt time.Time `json:"published_at"`
	Images      []string  `json:"images"`
}

// Validate checks if the Article has valid data.
// PRE: Article struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Article) Validate() error {
	if a.Title == "" {
		return ErrEmptyTitle
	}
	if a.Body == "" {
		return ErrEmptyBody
	}
	return nil
}

// Summary returns the first n runes of the body, with an ellipsis when truncated.
func (a *Article) Summary(n int) string {
	r := []rune(a.Body)
	if n <= 0 || len(r) <= n {
		return a.Body
	}
	return string(r[:n]) + "…"
}
