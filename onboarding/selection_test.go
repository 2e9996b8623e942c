package onboarding

import (
	"context"
	"fmt"
	"testing"

	"github.com/aluiziolira/swell-carousel/api"
	"github.com/aluiziolira/swell-carousel/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubmitter struct {
	got   *api.PreferencesRequest
	calls int
}

func (f *fakeSubmitter) SubmitPreferences(_ context.Context, req api.PreferencesRequest) (api.PreferencesResult, error) {
	f.calls++
	f.got = &req
	return api.PreferencesResult{Message: "ok"}, nil
}

func TestSelectGenderPersists(t *testing.T) {
	ctx := context.Background()
	prefs := store.NewPreferences(store.NewMemoryStore())
	s := NewSelection(prefs)

	require.NoError(t, s.SelectGender(ctx, "여성"))
	assert.Equal(t, "female", s.Gender())

	stored, ok, err := prefs.LoadGender(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "female", stored)

	assert.ErrorIs(t, s.SelectGender(ctx, "robot"), ErrUnknownGender)
	assert.Equal(t, "female", s.Gender())
}

func TestToggleTagLimits(t *testing.T) {
	s := NewSelection(nil)
	for i := 0; i < MaxTags; i++ {
		require.NoError(t, s.ToggleTag(fmt.Sprint(i)))
	}
	assert.ErrorIs(t, s.ToggleTag("overflow"), ErrTooManyTags)
	assert.Len(t, s.Tags(), MaxTags)

	require.NoError(t, s.ToggleTag("3"))
	assert.NotContains(t, s.Tags(), "3")
	require.NoError(t, s.ToggleTag("overflow"))
	assert.Equal(t, "overflow", s.Tags()[MaxTags-1])
}

func TestToggleOutfitLimits(t *testing.T) {
	s := NewSelection(nil)
	for i := 0; i < RequiredOutfits; i++ {
		require.NoError(t, s.ToggleOutfit(fmt.Sprint(i)))
	}
	assert.ErrorIs(t, s.ToggleOutfit("extra"), ErrTooManyOutfits)
	assert.True(t, s.ValidateOutfits().Valid)

	require.NoError(t, s.ToggleOutfit("0"))
	v := s.ValidateOutfits()
	assert.False(t, v.Valid)
	assert.Equal(t, "정확히 5개의 코디를 선택해주세요. (현재 4/5)", v.Message)
}

func TestValidateTags(t *testing.T) {
	tests := []struct {
		count int
		valid bool
		msg   string
	}{
		{count: 0, valid: false, msg: "3개 더 선택해주세요 (현재 0개)"},
		{count: 2, valid: false, msg: "1개 더 선택해주세요 (현재 2개)"},
		{count: 3, valid: true, msg: "좋아요! (현재 3개 선택됨)"},
		{count: 10, valid: true, msg: "좋아요! (현재 10개 선택됨)"},
		{count: 11, valid: false, msg: "최대 10개까지만 선택할 수 있습니다."},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.count), func(t *testing.T) {
			got := ValidateTags(tt.count, MinTags, MaxTags)
			assert.Equal(t, Validation{Valid: tt.valid, Message: tt.msg}, got)
		})
	}
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()
	s := NewSelection(nil)
	sub := &fakeSubmitter{}

	_, err := s.Submit(ctx, sub)
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.Zero(t, sub.calls)

	require.NoError(t, s.SelectGender(ctx, "m"))
	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, s.ToggleTag(id))
	}
	for _, id := range []string{"10", "11", "12", "13", "14"} {
		require.NoError(t, s.ToggleOutfit(id))
	}
	require.True(t, s.Complete())

	res, err := s.Submit(ctx, sub)
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Message)
	require.NotNil(t, sub.got)
	assert.Equal(t, []string{"1", "2", "3"}, sub.got.HashtagIDs)
	assert.Equal(t, []string{"10", "11", "12", "13", "14"}, sub.got.SampleOutfitIDs)

	params := s.Params(1, 20)
	assert.Equal(t, "male", params.Gender)
	assert.Len(t, params.SampleOutfitIDs, 5)

	s.Reset()
	assert.False(t, s.Complete())
	assert.Empty(t, s.Tags())
}
