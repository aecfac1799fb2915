// Package engine generates article content for keywords using an LLM
// provider and assembles the publishable artifacts around it.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/seopilot/seopilot/app/errs"
	"github.com/seopilot/seopilot/app/metrics"
)

// Provider abstracts a text completion backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, system, user string) (string, error)
}

// Article is the parsed result of one generation run.
type Article struct {
	Title           string `json:"title"`
	Slug            string `json:"slug"`
	MetaDescription string `json:"meta_description"`
	HTMLBody        string `json:"html_body"`
	SocialSnippet   string `json:"social_snippet"`
}

// Engine turns keywords into articles
type Engine struct {
	provider Provider
}

func NewEngine(provider Provider) *Engine {
	return &Engine{provider: provider}
}

func (e *Engine) ProviderName() string {
	return e.provider.Name()
}

const systemPrompt = `You are an experienced SEO content writer. You produce well-structured,
factually careful articles optimized for search without keyword stuffing.
Always respond with a single JSON object and nothing else.`

func buildUserPrompt(keyword, campaignName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write an SEO article targeting the keyword %q", keyword)
	if campaignName != "" {
		fmt.Fprintf(&b, " for the campaign %q", campaignName)
	}
	b.WriteString(".\n\n")
	b.WriteString(`Respond with a JSON object with exactly these fields:
- "title": the article title, under 70 characters, containing the keyword
- "meta_description": a meta description between 120 and 160 characters
- "html_body": the full article body as HTML, 800-1500 words, using h2/h3 headings and p tags
- "social_snippet": a short teaser for social media, under 280 characters`)
	return b.String()
}

// Generate produces an article for the keyword. Provider failures and
// unparseable responses are wrapped as external service errors so callers
// can retry on a later pass.
func (e *Engine) Generate(ctx context.Context, keyword, campaignName string) (*Article, error) {
	start := time.Now()

	raw, err := e.provider.Complete(ctx, systemPrompt, buildUserPrompt(keyword, campaignName))
	if err != nil {
		metrics.CountArticle(e.provider.Name(), "error")
		return nil, errs.NewExternalService(e.provider.Name(), "completion", err)
	}

	article, err := parseArticle(raw)
	if err != nil {
		metrics.CountArticle(e.provider.Name(), "error")
		return nil, errs.NewExternalService(e.provider.Name(), "parse", err)
	}

	article.Slug = Slugify(article.Title)

	metrics.ObserveGeneration(e.provider.Name(), time.Since(start))
	metrics.CountArticle(e.provider.Name(), "ok")

	return article, nil
}

// parseArticle decodes the model response, tolerating a markdown code fence
// around the JSON object.
func parseArticle(raw string) (*Article, error) {
	payload := stripCodeFence(raw)

	var article Article
	if err := json.Unmarshal([]byte(payload), &article); err != nil {
		return nil, fmt.Errorf("failed to parse article JSON: %w", err)
	}

	if article.Title == "" {
		return nil, fmt.Errorf("article is missing a title")
	}
	if article.HTMLBody == "" {
		return nil, fmt.Errorf("article is missing a body")
	}

	return &article, nil
}

func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
