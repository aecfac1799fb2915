package content

import (
	"encoding/json"
	"fmt"
	"time"
)

// ImagePurpose classifies what an image is for within its parent record.
type ImagePurpose string

const (
	PurposeCover     ImagePurpose = "cover"
	PurposeInline    ImagePurpose = "inline"
	PurposeSocial    ImagePurpose = "social"
	PurposeThumbnail ImagePurpose = "thumbnail"
)

// ImageMeta describes one image attached to a content record. It has no
// lifecycle of its own: it is stored and deleted with its parent.
type ImageMeta struct {
	Filename  string       `json:"filename"`
	URL       string       `json:"url,omitempty"`
	Purpose   ImagePurpose `json:"purpose"`
	Platforms []string     `json:"platforms,omitempty"`
	Position  string       `json:"position,omitempty"`
	AltText   string       `json:"alt_text,omitempty"`
	Source    string       `json:"source,omitempty"`
}

// EncodeImages serializes image metadata for the store's JSON column.
func EncodeImages(images []ImageMeta) (string, error) {
	if images == nil {
		images = []ImageMeta{}
	}
	data, err := json.Marshal(images)
	if err != nil {
		return "", fmt.Errorf("failed to encode image metadata: %w", err)
	}
	return string(data), nil
}

// DecodeImages parses the store's JSON column back into image metadata.
func DecodeImages(s string) ([]ImageMeta, error) {
	if s == "" || s == "[]" {
		return nil, nil
	}
	var images []ImageMeta
	if err := json.Unmarshal([]byte(s), &images); err != nil {
		return nil, fmt.Errorf("failed to decode image metadata: %w", err)
	}
	return images, nil
}

// Outcome is the terminal result reported back by the distribution pipe.
// Exactly one of the two constructors produces a valid value.
type Outcome struct {
	published   bool
	liveURL     string
	publishedAt time.Time
	errorDetail string
}

// PublishedOutcome reports successful delivery with the live URL and instant.
func PublishedOutcome(liveURL string, publishedAt time.Time) Outcome {
	return Outcome{published: true, liveURL: liveURL, publishedAt: publishedAt}
}

// FailedOutcome reports failed delivery with the underlying detail.
func FailedOutcome(detail string) Outcome {
	return Outcome{published: false, errorDetail: detail}
}

// Published reports whether the outcome is a successful delivery.
func (o Outcome) Published() bool { return o.published }
