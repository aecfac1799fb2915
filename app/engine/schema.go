package engine

import (
	"encoding/json"
	"time"
)

// SchemaMarkup renders a JSON-LD Article object for embedding on the
// published page.
func SchemaMarkup(article *Article, publishedAt time.Time, imageURLs []string) (string, error) {
	doc := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "Article",
		"headline":    article.Title,
		"description": article.MetaDescription,
	}
	if !publishedAt.IsZero() {
		doc["datePublished"] = publishedAt.UTC().Format(time.RFC3339)
	}
	if len(imageURLs) > 0 {
		doc["image"] = imageURLs
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
