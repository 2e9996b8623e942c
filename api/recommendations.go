package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/aluiziolira/swell-carousel/models"
	"github.com/aluiziolira/swell-carousel/parser"
)

// GetRecommendations loads one page of recommendations and derives the
// display text and tags of every description.
func (c *Client) GetRecommendations(ctx context.Context, p Params) (models.RecommendationPage, error) {
	var resp envelope[models.RecommendationPage]
	if err := c.do(ctx, http.MethodGet, "/recommendations?"+p.query().Encode(), nil, &resp); err != nil {
		return models.RecommendationPage{}, err
	}

	page := resp.Data
	if page.Outfits == nil {
		page.Outfits = []models.Recommendation{}
	}
	for i := range page.Outfits {
		desc := parser.ParseDescription(page.Outfits[i].Description)
		page.Outfits[i].DescriptionText = desc.Text
		page.Outfits[i].DescriptionTags = desc.Tags
	}
	return page, nil
}

// GetPreferenceOptions lists the hashtags and sample outfits for gender.
func (c *Client) GetPreferenceOptions(ctx context.Context, gender string) (models.PreferenceOptions, error) {
	endpoint := "/users/preferences/options"
	if g := parser.NormalizeGender(gender); g != "" {
		endpoint += "?" + url.Values{"gender": {g}}.Encode()
	}

	var resp envelope[models.PreferenceOptions]
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return models.PreferenceOptions{}, err
	}
	return resp.Data, nil
}

// PreferencesRequest is the onboarding submission body.
type PreferencesRequest struct {
	HashtagIDs      []string `json:"hashtagIds"`
	SampleOutfitIDs []string `json:"sampleOutfitIds"`
}

// PreferencesResult is the server acknowledgement of a submission.
type PreferencesResult struct {
	Message string `json:"message"`
}

// SubmitPreferences posts the onboarding selection.
func (c *Client) SubmitPreferences(ctx context.Context, req PreferencesRequest) (PreferencesResult, error) {
	if req.HashtagIDs == nil {
		req.HashtagIDs = []string{}
	}
	if req.SampleOutfitIDs == nil {
		req.SampleOutfitIDs = []string{}
	}

	var resp envelope[PreferencesResult]
	if err := c.do(ctx, http.MethodPost, "/users/preferences", req, &resp); err != nil {
		return PreferencesResult{}, err
	}
	return resp.Data, nil
}

// Like marks a recommendation as a favorite.
func (c *Client) Like(ctx context.Context, id models.ID) error {
	if id == "" {
		return fmt.Errorf("like: empty outfit id")
	}
	return c.do(ctx, http.MethodPost, "/outfits/"+url.PathEscape(string(id))+"/favorite", nil, nil)
}

type viewLogRequest struct {
	DurationSeconds int `json:"durationSeconds"`
}

// RecordView logs how long a recommendation was on screen.
func (c *Client) RecordView(ctx context.Context, id models.ID, seconds int) error {
	if id == "" {
		return fmt.Errorf("record view: empty outfit id")
	}
	if seconds < 0 {
		seconds = 0
	}
	return c.do(ctx, http.MethodPost, "/outfits/"+url.PathEscape(string(id))+"/view", viewLogRequest{DurationSeconds: seconds}, nil)
}
