package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/seopilot/seopilot/app/content"
	"github.com/seopilot/seopilot/app/errs"
)

// ImageSource fetches or generates one image for a query and returns its
// URL plus a short attribution string.
type ImageSource interface {
	Name() string
	Fetch(ctx context.Context, query string) (imageURL, attribution string, err error)
}

// ImageManager attaches images to freshly generated articles. With a nil
// source it degrades to producing no images.
type ImageManager struct {
	source ImageSource
}

func NewImageManager(source ImageSource) *ImageManager {
	return &ImageManager{source: source}
}

// Attach fetches a cover image and, when the record targets a social
// platform, a separate social image. Fetch failures degrade to fewer
// images rather than failing the record.
func (m *ImageManager) Attach(ctx context.Context, article *Article, keyword string, socialPlatforms []string) []content.ImageMeta {
	if m.source == nil {
		return nil
	}

	var images []content.ImageMeta

	coverURL, attribution, err := m.source.Fetch(ctx, keyword)
	if err == nil {
		images = append(images, content.ImageMeta{
			Filename: article.Slug + "-cover",
			URL:      coverURL,
			Purpose:  content.PurposeCover,
			AltText:  article.Title,
			Source:   attribution,
		})
	}

	if len(socialPlatforms) > 0 {
		socialURL, attribution, err := m.source.Fetch(ctx, keyword+" social")
		if err == nil {
			images = append(images, content.ImageMeta{
				Filename:  article.Slug + "-social",
				URL:       socialURL,
				Purpose:   content.PurposeSocial,
				Platforms: socialPlatforms,
				AltText:   article.SocialSnippet,
				Source:    attribution,
			})
		}
	}

	return images
}

type dalleSource struct {
	client openai.Client
}

// NewDALLESource generates images through the OpenAI image API.
func NewDALLESource(apiKey string) ImageSource {
	return &dalleSource{client: openai.NewClient(option.WithAPIKey(apiKey))}
}

func (s *dalleSource) Name() string {
	return "dalle"
}

func (s *dalleSource) Fetch(ctx context.Context, query string) (string, string, error) {
	resp, err := s.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt: fmt.Sprintf("A clean, professional illustration for an article about %s. No text.", query),
		Model:  openai.ImageModelDallE3,
		N:      openai.Int(1),
		Size:   openai.ImageGenerateParamsSize1024x1024,
	})
	if err != nil {
		return "", "", errs.NewExternalService("dalle", "generate", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", "", errs.NewExternalService("dalle", "generate", fmt.Errorf("no image in response"))
	}
	return resp.Data[0].URL, "DALL-E", nil
}

type unsplashSource struct {
	accessKey string
	client    *http.Client
	baseURL   string
}

// NewUnsplashSource searches Unsplash for stock photos.
func NewUnsplashSource(accessKey string) ImageSource {
	return &unsplashSource{
		accessKey: accessKey,
		client:    &http.Client{Timeout: 15 * time.Second},
		baseURL:   "https://api.unsplash.com",
	}
}

func (s *unsplashSource) Name() string {
	return "unsplash"
}

type unsplashSearchResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
		User struct {
			Name string `json:"name"`
		} `json:"user"`
	} `json:"results"`
}

func (s *unsplashSource) Fetch(ctx context.Context, query string) (string, string, error) {
	endpoint := fmt.Sprintf("%s/search/photos?query=%s&per_page=1&orientation=landscape",
		s.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", "", errs.NewExternalService("unsplash", "request", err)
	}
	req.Header.Set("Authorization", "Client-ID "+s.accessKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", "", errs.NewExternalService("unsplash", "search", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", "", errs.NewExternalService("unsplash", "search",
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body))
	}

	var parsed unsplashSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", "", errs.NewExternalService("unsplash", "parse", err)
	}
	if len(parsed.Results) == 0 {
		return "", "", errs.NewExternalService("unsplash", "search", fmt.Errorf("no results for %q", query))
	}

	first := parsed.Results[0]
	attribution := "Unsplash"
	if first.User.Name != "" {
		attribution = fmt.Sprintf("%s on Unsplash", first.User.Name)
	}
	return first.URLs.Regular, attribution, nil
}
