package models

// Hashtag is a selectable style keyword offered during onboarding.
type Hashtag struct {
	ID   ID     `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// SampleOutfit is a selectable outfit offered during onboarding.
type SampleOutfit struct {
	ID       ID     `json:"id" yaml:"id"`
	ImageURL string `json:"imageUrl" yaml:"imageUrl"`
	Style    string `json:"style,omitempty" yaml:"style"`
}

// PreferenceOptions lists what a user can choose from.
type PreferenceOptions struct {
	Hashtags      []Hashtag      `json:"hashtags" yaml:"hashtags"`
	SampleOutfits []SampleOutfit `json:"sampleOutfits" yaml:"sampleOutfits"`
}
