package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed raids.yaml
var defaultRaids []byte

// Tier is one difficulty of a weekly reward. Tiers with the same Group are
// mutually exclusive for a character.
type Tier struct {
	Name        string  `yaml:"name" json:"name"`
	Label       string  `yaml:"label" json:"label"`
	MinProgress float64 `yaml:"min_item_level" json:"min_item_level"`
	MinPower    float64 `yaml:"min_combat_power" json:"min_combat_power"`
	Reward      int     `yaml:"gold" json:"gold"`
	Group       string  `yaml:"group" json:"group"`
	Solo        bool    `yaml:"solo" json:"solo"`
}

// TaskName is the todo name a recommended tier is tracked under.
func (t Tier) TaskName() string {
	return fmt.Sprintf("%s (%s)", t.Name, t.Label)
}

// Qualifies reports whether both thresholds are met.
func (t Tier) Qualifies(progress, power float64) bool {
	return progress >= t.MinProgress && power >= t.MinPower
}

// Catalog is an ordered list of tiers. Order matters for tie-breaks.
type Catalog struct {
	Tiers []Tier `yaml:"tiers"`
}

func (c Catalog) Len() int { return len(c.Tiers) }

// Validate checks the catalog and fills empty groups with the tier name.
func (c *Catalog) Validate() error {
	if len(c.Tiers) == 0 {
		return errors.New("catalog: no tiers")
	}
	seen := make(map[string]struct{}, len(c.Tiers))
	for i := range c.Tiers {
		t := &c.Tiers[i]
		t.Name = strings.TrimSpace(t.Name)
		t.Label = strings.TrimSpace(t.Label)
		if t.Name == "" {
			return fmt.Errorf("catalog: tier %d: name is required", i)
		}
		if t.Label == "" {
			return fmt.Errorf("catalog: tier %q: label is required", t.Name)
		}
		if t.MinProgress < 0 || t.MinPower < 0 {
			return fmt.Errorf("catalog: tier %q: negative threshold", t.TaskName())
		}
		if t.Reward < 0 {
			return fmt.Errorf("catalog: tier %q: negative gold", t.TaskName())
		}
		if strings.TrimSpace(t.Group) == "" {
			t.Group = t.Name
		}
		key := t.TaskName()
		if _, dup := seen[key]; dup {
			return fmt.Errorf("catalog: duplicate tier %q", key)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// Default returns a fresh copy of the built-in raid catalog.
func Default() Catalog {
	c, err := Parse(defaultRaids)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("catalog: decode: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// Load reads a catalog file. An empty path yields the built-in catalog.
func Load(path string) (Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(data)
}
