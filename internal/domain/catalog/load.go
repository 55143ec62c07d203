package catalog

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML override file on top of Default. Each top-level list
// present in the file replaces the built-in list of the same name.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse applies YAML overrides to Default and validates the result.
func Parse(data []byte) (*Catalog, error) {
	var overlay Catalog
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := Default()
	if overlay.Assets != nil {
		c.Assets = overlay.Assets
	}
	if overlay.LifeEvents != nil {
		c.LifeEvents = overlay.LifeEvents
	}
	if overlay.Hustles != nil {
		c.Hustles = overlay.Hustles
	}
	if overlay.Temptations != nil {
		c.Temptations = overlay.Temptations
	}
	if overlay.Challenges != nil {
		c.Challenges = overlay.Challenges
	}
	if overlay.Bots != nil {
		c.Bots = overlay.Bots
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks ids and value ranges across all tables.
func (c *Catalog) Validate() error {
	var errs []error
	check := func(table, id string, seen map[string]struct{}) {
		if id == "" {
			errs = append(errs, fmt.Errorf("%s: empty id", table))
			return
		}
		if _, dup := seen[id]; dup {
			errs = append(errs, fmt.Errorf("%s: duplicate id %q", table, id))
		}
		seen[id] = struct{}{}
	}

	if len(c.Assets) == 0 || len(c.LifeEvents) == 0 || len(c.Hustles) == 0 ||
		len(c.Temptations) == 0 || len(c.Challenges) == 0 {
		errs = append(errs, errors.New("catalog: every table needs at least one entry"))
	}

	seen := map[string]struct{}{}
	for _, a := range c.Assets {
		check("assets", a.ID, seen)
		if a.Cost <= 0 {
			errs = append(errs, fmt.Errorf("assets: %q cost must be positive", a.ID))
		}
		if a.Tier < TierStarter || a.Tier > TierPremium {
			errs = append(errs, fmt.Errorf("assets: %q tier %d out of range", a.ID, a.Tier))
		}
	}
	seen = map[string]struct{}{}
	for _, e := range c.LifeEvents {
		check("life_events", e.ID, seen)
	}
	seen = map[string]struct{}{}
	for _, h := range c.Hustles {
		check("hustles", h.ID, seen)
		if h.Amount <= 0 {
			errs = append(errs, fmt.Errorf("hustles: %q amount must be positive", h.ID))
		}
	}
	seen = map[string]struct{}{}
	for _, t := range c.Temptations {
		check("temptations", t.ID, seen)
		if t.Cost <= 0 {
			errs = append(errs, fmt.Errorf("temptations: %q cost must be positive", t.ID))
		}
	}
	seen = map[string]struct{}{}
	for _, ch := range c.Challenges {
		check("challenges", ch.ID, seen)
		if ch.CorrectIndex < 0 || ch.CorrectIndex >= len(ch.Options) {
			errs = append(errs, fmt.Errorf("challenges: %q correct_index outside options", ch.ID))
		}
		switch ch.Difficulty {
		case DifficultyKids, DifficultyTweens, DifficultyTeens, DifficultyAllAges:
		default:
			errs = append(errs, fmt.Errorf("challenges: %q unknown difficulty %q", ch.ID, ch.Difficulty))
		}
	}
	seen = map[string]struct{}{}
	for _, b := range c.Bots {
		check("bots", b.ID, seen)
		if !b.Personality.Valid() {
			errs = append(errs, fmt.Errorf("bots: %q unknown personality %q", b.ID, b.Personality))
		}
	}

	return errors.Join(errs...)
}
