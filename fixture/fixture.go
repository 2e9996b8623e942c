// Package fixture serves the recommendation API from a YAML file for local
// development and end-to-end tests.
package fixture

import (
	"fmt"
	"os"

	"github.com/aluiziolira/swell-carousel/models"
	"gopkg.in/yaml.v3"
)

// Outfit is a fixture recommendation with the gender it is shown to.
// An empty Gender matches every request.
type Outfit struct {
	models.Recommendation `yaml:",inline"`
	Gender                string `yaml:"gender"`
}

// Data is the decoded fixture file.
type Data struct {
	Outfits []Outfit                 `yaml:"outfits"`
	Options models.PreferenceOptions `yaml:"options"`
}

// Parse decodes fixture YAML.
func Parse(raw []byte) (*Data, error) {
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	for i, o := range data.Outfits {
		if o.ID == "" {
			return nil, fmt.Errorf("outfit %d: missing id", i)
		}
	}
	return &data, nil
}

// Load reads and decodes a fixture file.
func Load(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Parse(raw)
}

func (d *Data) find(id models.ID) (Outfit, bool) {
	for _, o := range d.Outfits {
		if o.ID == id {
			return o, true
		}
	}
	return Outfit{}, false
}

func (d *Data) filter(gender string) []models.Recommendation {
	out := make([]models.Recommendation, 0, len(d.Outfits))
	for _, o := range d.Outfits {
		if gender != "" && o.Gender != "" && o.Gender != gender {
			continue
		}
		out = append(out, o.Recommendation)
	}
	return out
}
