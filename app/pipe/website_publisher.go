package pipe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/seopilot/seopilot/app/content"
	"github.com/seopilot/seopilot/app/database"
	"github.com/seopilot/seopilot/app/errs"
)

// AuthStyle selects how the website API expects credentials.
type AuthStyle string

const (
	AuthBearer AuthStyle = "bearer"
	AuthHeader AuthStyle = "header"
)

// WebsitePublisher posts finished articles straight to a website API,
// bypassing the webhook pipe. Used when a campaign targets the website
// channel directly.
type WebsitePublisher struct {
	baseURL    string
	token      string
	authStyle  AuthStyle
	authHeader string
	httpClient *http.Client
	userAgent  string
}

func NewWebsitePublisher(baseURL, token string, authStyle AuthStyle, authHeader string, httpClient *http.Client, userAgent string) *WebsitePublisher {
	if authHeader == "" {
		authHeader = "X-Api-Key"
	}
	return &WebsitePublisher{
		baseURL:    baseURL,
		token:      token,
		authStyle:  authStyle,
		authHeader: authHeader,
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

func (p *WebsitePublisher) authorize(req *http.Request) {
	switch p.authStyle {
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+p.token)
	default:
		req.Header.Set(p.authHeader, p.token)
	}
}

type articlePayload struct {
	Title           string              `json:"title"`
	Slug            string              `json:"slug"`
	MetaDescription string              `json:"meta_description"`
	HTMLBody        string              `json:"html_body"`
	SchemaMarkup    string              `json:"schema_markup,omitempty"`
	Images          []content.ImageMeta `json:"images,omitempty"`
}

type articleResponse struct {
	URL string `json:"url"`
}

// Publish posts one record's article to the website and returns the live
// URL the website reports back.
func (p *WebsitePublisher) Publish(ctx context.Context, record *database.ContentRecord) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	images, err := content.DecodeImages(record.Images)
	if err != nil {
		return "", fmt.Errorf("failed to decode image metadata for record %s: %w", record.ID, err)
	}

	payload := articlePayload{
		Title:           record.Title,
		Slug:            record.Slug,
		MetaDescription: record.MetaDescription,
		HTMLBody:        record.Body,
		SchemaMarkup:    record.SchemaMarkup,
		Images:          images,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode article payload: %w", err)
	}

	req, err := http.NewRequestWithContext(timeoutCtx, "POST", p.baseURL+"/articles", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", p.userAgent)
	p.authorize(req)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", errs.NewExternalService("website", "publish", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", errs.NewExternalService("website", "publish",
			fmt.Errorf("HTTP error: %d %s: %s", resp.StatusCode, resp.Status, snippet))
	}

	var parsed articleResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", errs.NewExternalService("website", "publish", err)
	}
	if parsed.URL == "" {
		return "", errs.NewExternalService("website", "publish", fmt.Errorf("response is missing the live URL"))
	}

	return parsed.URL, nil
}

// DirectPublisher publishes records to whichever website URL their campaign
// carries, sharing one credential and HTTP client across campaigns.
type DirectPublisher struct {
	token      string
	authStyle  AuthStyle
	authHeader string
	httpClient *http.Client
	userAgent  string
}

func NewDirectPublisher(token string, authStyle AuthStyle, authHeader string, httpClient *http.Client, userAgent string) *DirectPublisher {
	return &DirectPublisher{
		token:      token,
		authStyle:  authStyle,
		authHeader: authHeader,
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

func (d *DirectPublisher) Publish(ctx context.Context, record *database.ContentRecord, websiteURL string) (string, error) {
	publisher := NewWebsitePublisher(websiteURL, d.token, d.authStyle, d.authHeader, d.httpClient, d.userAgent)
	return publisher.Publish(ctx, record)
}

// TestConnection verifies the credentials against the website's health
// endpoint.
func (p *WebsitePublisher) TestConnection(ctx context.Context) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", p.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	p.authorize(req)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return errs.NewExternalService("website", "connect", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return errs.NewPermissionError("website connection test",
			"check that the website API token is valid and has publish access", nil)
	}
	if resp.StatusCode != http.StatusOK {
		return errs.NewExternalService("website", "connect",
			fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status))
	}

	return nil
}
