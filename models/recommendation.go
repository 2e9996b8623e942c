// Package models defines data structures shared by the carousel packages.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ID is an opaque identifier. The server sends either JSON strings or
// numbers; both decode to the same textual form.
type ID string

// UnmarshalJSON accepts string and numeric identifiers.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Int64 returns the identifier as an integer when it is numeric.
func (id ID) Int64() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	return n, err == nil
}

// Item is one purchasable piece of an outfit.
type Item struct {
	ID       ID       `json:"id" yaml:"id"`
	ImageURL string   `json:"imageUrl,omitempty" yaml:"imageUrl"`
	Name     string   `json:"name,omitempty" yaml:"name"`
	Brand    string   `json:"brand,omitempty" yaml:"brand"`
	Price    *float64 `json:"price,omitempty" yaml:"price"`
}

// Recommendation is one recommended outfit. It is immutable once loaded;
// DescriptionText and DescriptionTags are derived from Description at load time.
type Recommendation struct {
	ID          ID     `json:"id" yaml:"id"`
	ImageURL    string `json:"imageUrl,omitempty" yaml:"imageUrl"`
	Items       []Item `json:"items" yaml:"items"`
	Description string `json:"description,omitempty" yaml:"description"`
	LLMMessage  string `json:"llmMessage,omitempty" yaml:"llmMessage"`

	DescriptionText string   `json:"descriptionText" yaml:"-"`
	DescriptionTags []string `json:"descriptionTags" yaml:"-"`
}

// ImageURLs lists the main image followed by item images in display order.
// Empty URLs are kept so callers can report them.
func (r Recommendation) ImageURLs() []string {
	urls := make([]string, 0, len(r.Items)+1)
	if r.ImageURL != "" {
		urls = append(urls, r.ImageURL)
	}
	for _, item := range r.Items {
		urls = append(urls, item.ImageURL)
	}
	return urls
}

// Pagination is passed through from the server untouched.
type Pagination struct {
	Page       int  `json:"page" yaml:"page"`
	Limit      int  `json:"limit" yaml:"limit"`
	Total      int  `json:"total" yaml:"total"`
	TotalPages int  `json:"totalPages" yaml:"totalPages"`
	HasNext    bool `json:"hasNext" yaml:"hasNext"`
}

// RecommendationPage is the decoded payload of one list load.
type RecommendationPage struct {
	Outfits    []Recommendation `json:"outfits"`
	Pagination Pagination       `json:"pagination"`
}

// Image is the handle returned by a successful image preload.
type Image struct {
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	Size        int       `json:"size"`
	LoadedAt    time.Time `json:"loaded_at"`
}
