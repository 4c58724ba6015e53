package projections

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"directory/internal/application/listutil"
	domainNews "directory/internal/domain/news"
)

// SummaryLength is the rune budget of list-view article summaries.
const SummaryLength = 200

// markdown renders article bodies. WithUnsafe is not set, so raw HTML in the source is omitted.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
	goldmark.WithRendererOptions(goldmarkHTML.WithHardWraps()),
)

// RenderMarkdown converts src to sanitized HTML.
func RenderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// ArticleSummary is the list projection of an article.
type ArticleSummary struct {
	domainNews.Article
	Excerpt string `json:"summary"`
}

// ArticleView is an article with its body rendered.
type ArticleView struct {
	domainNews.Article
	BodyHTML template.HTML `json:"body_html"`
}

// GetNewsQuery carries query parameters.
type GetNewsQuery struct {
	Page listutil.PageParams
}

// GetNewsResult carries the query result.
type GetNewsResult struct {
	Articles []ArticleSummary  `json:"articles"`
	Info     listutil.PageInfo `json:"page_info"`
}

// GetNewsDeps holds dependencies for the news queries.
type GetNewsDeps struct {
	NewsStore NewsStore
	Resolver  URLResolver
}

// QueryNews lists articles newest first with plain-text summaries.
func QueryNews(ctx context.Context, query GetNewsQuery, deps GetNewsDeps) (GetNewsResult, error) {
	list, err := deps.NewsStore.List(ctx, query.Page.PageSize, query.Page.Offset())
	if err != nil {
		return GetNewsResult{}, fmt.Errorf("list news: %w", err)
	}
	total, err := deps.NewsStore.Count(ctx)
	if err != nil {
		return GetNewsResult{}, fmt.Errorf("count news: %w", err)
	}
	out := make([]ArticleSummary, 0, len(list))
	for _, a := range list {
		a.Images = publicURLs(deps.Resolver, a.Images)
		out = append(out, ArticleSummary{Article: a, Excerpt: a.Summary(SummaryLength)})
	}
	return GetNewsResult{
		Articles: out,
		Info:     listutil.NewPageInfo(query.Page, len(list), total),
	}, nil
}

// QueryArticle retrieves one article and renders its Markdown body.
// POST: Returns storage.ErrNotFound for an unknown id
// INVARIANT: BodyHTML never contains raw HTML from the source
func QueryArticle(ctx context.Context, id string, deps GetNewsDeps) (ArticleView, error) {
	a, err := deps.NewsStore.GetByID(ctx, id)
	if err != nil {
		return ArticleView{}, err
	}
	body, err := RenderMarkdown(a.Body)
	if err != nil {
		return ArticleView{}, err
	}
	a.Images = publicURLs(deps.Resolver, a.Images)
	return ArticleView{Article: a, BodyHTML: body}, nil
}
