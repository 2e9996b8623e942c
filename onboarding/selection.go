// Package onboarding holds the user's gender, style tag and sample outfit
// choices and the rules that gate submitting them.
package onboarding

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/aluiziolira/swell-carousel/api"
	"github.com/aluiziolira/swell-carousel/parser"
	"github.com/aluiziolira/swell-carousel/store"
)

const (
	MinTags         = 3
	MaxTags         = 10
	RequiredOutfits = 5
)

var (
	ErrTooManyTags    = fmt.Errorf("onboarding: at most %d tags can be selected", MaxTags)
	ErrTooManyOutfits = fmt.Errorf("onboarding: exactly %d outfits must be selected", RequiredOutfits)
	ErrUnknownGender  = errors.New("onboarding: unknown gender")
	ErrIncomplete     = errors.New("onboarding: selection incomplete")
)

// Validation is the result of checking one step.
type Validation struct {
	Valid   bool
	Message string
}

// Submitter sends a finished selection to the server.
type Submitter interface {
	SubmitPreferences(ctx context.Context, req api.PreferencesRequest) (api.PreferencesResult, error)
}

// Selection accumulates onboarding choices. It is not safe for concurrent use.
type Selection struct {
	prefs   *store.Preferences
	gender  string
	tags    []string
	outfits []string
}

// NewSelection starts an empty selection. prefs may be nil.
func NewSelection(prefs *store.Preferences) *Selection {
	return &Selection{prefs: prefs}
}

// SelectGender normalizes gender and persists it when a store is attached.
func (s *Selection) SelectGender(ctx context.Context, gender string) error {
	normalized := parser.NormalizeGender(gender)
	if normalized == "" {
		return fmt.Errorf("%w: %q", ErrUnknownGender, gender)
	}
	s.gender = normalized
	if s.prefs != nil {
		if err := s.prefs.SaveGender(ctx, normalized); err != nil {
			return fmt.Errorf("save gender: %w", err)
		}
	}
	return nil
}

// Gender returns the normalized gender, or "" before one is chosen.
func (s *Selection) Gender() string {
	return s.gender
}

// ToggleTag adds or removes a tag id. Adding past MaxTags is refused.
func (s *Selection) ToggleTag(id string) error {
	next, err := toggle(s.tags, id, MaxTags, ErrTooManyTags)
	if err != nil {
		return err
	}
	s.tags = next
	return nil
}

// ToggleOutfit adds or removes a sample outfit id. Adding past
// RequiredOutfits is refused.
func (s *Selection) ToggleOutfit(id string) error {
	next, err := toggle(s.outfits, id, RequiredOutfits, ErrTooManyOutfits)
	if err != nil {
		return err
	}
	s.outfits = next
	return nil
}

func toggle(selected []string, id string, limit int, errFull error) ([]string, error) {
	if i := slices.Index(selected, id); i >= 0 {
		return slices.Delete(slices.Clone(selected), i, i+1), nil
	}
	if len(selected) >= limit {
		return selected, errFull
	}
	return append(slices.Clone(selected), id), nil
}

// Tags returns the selected tag ids in selection order.
func (s *Selection) Tags() []string {
	return slices.Clone(s.tags)
}

// Outfits returns the selected outfit ids in selection order.
func (s *Selection) Outfits() []string {
	return slices.Clone(s.outfits)
}

// ValidateTags checks the tag count against MinTags and MaxTags.
func (s *Selection) ValidateTags() Validation {
	return ValidateTags(len(s.tags), MinTags, MaxTags)
}

// ValidateOutfits checks that exactly RequiredOutfits are chosen.
func (s *Selection) ValidateOutfits() Validation {
	return ValidateOutfits(len(s.outfits), RequiredOutfits)
}

// ValidateTags checks a tag count against [min, max].
func ValidateTags(count, minTags, maxTags int) Validation {
	switch {
	case count < minTags:
		return Validation{Message: fmt.Sprintf("%d개 더 선택해주세요 (현재 %d개)", minTags-count, count)}
	case count > maxTags:
		return Validation{Message: fmt.Sprintf("최대 %d개까지만 선택할 수 있습니다.", maxTags)}
	default:
		return Validation{Valid: true, Message: fmt.Sprintf("좋아요! (현재 %d개 선택됨)", count)}
	}
}

// ValidateOutfits checks an outfit count against the required number.
func ValidateOutfits(count, required int) Validation {
	if count != required {
		return Validation{Message: fmt.Sprintf("정확히 %d개의 코디를 선택해주세요. (현재 %d/%d)", required, count, required)}
	}
	return Validation{Valid: true, Message: fmt.Sprintf("%d개 선택 완료", required)}
}

// Complete reports whether every step is valid.
func (s *Selection) Complete() bool {
	return s.gender != "" && s.ValidateTags().Valid && s.ValidateOutfits().Valid
}

// Data returns the submission body for the current selection.
func (s *Selection) Data() api.PreferencesRequest {
	return api.PreferencesRequest{
		HashtagIDs:      s.Tags(),
		SampleOutfitIDs: s.Outfits(),
	}
}

// Params returns recommendation query parameters seeded from the selection.
func (s *Selection) Params(page, limit int) api.Params {
	return api.Params{
		Page:            page,
		Limit:           limit,
		Gender:          s.gender,
		HashtagIDs:      s.Tags(),
		SampleOutfitIDs: s.Outfits(),
	}
}

// Submit sends a complete selection.
func (s *Selection) Submit(ctx context.Context, sub Submitter) (api.PreferencesResult, error) {
	if !s.Complete() {
		return api.PreferencesResult{}, ErrIncomplete
	}
	res, err := sub.SubmitPreferences(ctx, s.Data())
	if err != nil {
		return api.PreferencesResult{}, fmt.Errorf("submit preferences: %w", err)
	}
	return res, nil
}

// Reset clears every choice. The persisted gender is left alone.
func (s *Selection) Reset() {
	s.gender = ""
	s.tags = nil
	s.outfits = nil
}
