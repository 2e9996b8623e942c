package store

import (
	"context"
)

// Keys the preferences are stored under.
const (
	KeyGender      = "swell_gender"
	KeyAccessToken = "swell_access_token"
)

// Preferences reads and writes the onboarding values a client remembers.
type Preferences struct {
	store Store
}

// NewPreferences wraps s.
func NewPreferences(s Store) *Preferences {
	return &Preferences{store: s}
}

// SaveGender stores the normalized gender.
func (p *Preferences) SaveGender(ctx context.Context, gender string) error {
	return p.store.Set(ctx, KeyGender, gender)
}

// LoadGender returns the saved gender, if any.
func (p *Preferences) LoadGender(ctx context.Context) (string, bool, error) {
	return p.store.Get(ctx, KeyGender)
}

// ClearGender forgets the saved gender.
func (p *Preferences) ClearGender(ctx context.Context) error {
	return p.store.Clear(ctx, KeyGender)
}

// SaveAccessToken stores the bearer token sent with api requests.
func (p *Preferences) SaveAccessToken(ctx context.Context, token string) error {
	return p.store.Set(ctx, KeyAccessToken, token)
}

// LoadAccessToken returns the saved token, if any.
func (p *Preferences) LoadAccessToken(ctx context.Context) (string, bool, error) {
	return p.store.Get(ctx, KeyAccessToken)
}

// ClearAccessToken forgets the saved token.
func (p *Preferences) ClearAccessToken(ctx context.Context) error {
	return p.store.Clear(ctx, KeyAccessToken)
}

// AccessToken satisfies the api client's token source; a missing token is
// not an error.
func (p *Preferences) AccessToken(ctx context.Context) (string, error) {
	token, _, err := p.LoadAccessToken(ctx)
	return token, err
}
