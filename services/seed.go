package services

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"kitchen-menu/models"

	"gopkg.in/yaml.v3"
)

//go:embed seed/menu.yaml
var defaultMenuYAML []byte

type seedItem struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Price       int64  `yaml:"price"`
	Vegetarian  bool   `yaml:"vegetarian"`
	Vegan       bool   `yaml:"vegan"`
	Course      string `yaml:"course"`
	Picture     string `yaml:"picture"`
}

// DefaultMenu returns the bundled starter menu.
func DefaultMenu() ([]models.MenuItem, error) {
	return ParseMenu(bytes.NewReader(defaultMenuYAML))
}

// LoadMenu reads a seed menu from path, or the bundled one when path is empty.
func LoadMenu(path string) ([]models.MenuItem, error) {
	if path == "" {
		return DefaultMenu()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open menu seed: %w", err)
	}
	defer f.Close()
	return ParseMenu(f)
}

// ParseMenu decodes a YAML list of dishes. Every dish must pass ValidateDraft and
// carry a unique id.
func ParseMenu(r io.Reader) ([]models.MenuItem, error) {
	var raw []seedItem
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode menu seed: %w", err)
	}
	seen := make(map[string]bool, len(raw))
	items := make([]models.MenuItem, 0, len(raw))
	for i, s := range raw {
		course, ok := models.ParseCourse(s.Course)
		if !ok {
			return nil, fmt.Errorf("menu seed item %d (%s): unknown course %q", i, s.Name, s.Course)
		}
		d := models.ItemDraft{
			Name:        s.Name,
			Description: s.Description,
			Price:       s.Price,
			Vegetarian:  s.Vegetarian,
			Vegan:       s.Vegan,
			Course:      course,
		}
		if err := ValidateDraft(&d); err != nil {
			return nil, fmt.Errorf("menu seed item %d (%s): %w", i, s.Name, err)
		}
		if s.ID == "" || seen[s.ID] {
			return nil, fmt.Errorf("menu seed item %d (%s): missing or duplicate id %q", i, s.Name, s.ID)
		}
		seen[s.ID] = true

		pic := models.BundledPicture(models.PlaceholderAsset)
		if s.Picture != "" {
			pic = models.BundledPicture(s.Picture)
		}
		items = append(items, itemFromDraft(s.ID, d, pic))
	}
	return items, nil
}
