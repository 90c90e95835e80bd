// Package categories provides the default and custom defect category definitions.
package categories

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Default instance range for multi-instance categories.
const (
	DefaultMinInstances = 3
	DefaultMaxInstances = 8
)

// Category describes one kind of defect and where its patches live.
type Category struct {
	// Name tags the patches in logs and reports.
	Name string `yaml:"name"`
	// Dir holds the patch files. Relative paths resolve against the data directory.
	Dir string `yaml:"dir"`
	// ClassID is written as the first field of each label line.
	ClassID int `yaml:"class_id"`
	// Multi categories paste a random number of instances per scene;
	// the others paste exactly one.
	Multi        bool `yaml:"multi"`
	MinInstances int  `yaml:"min_instances,omitempty"`
	MaxInstances int  `yaml:"max_instances,omitempty"`
}

// InstanceRange returns the inclusive bounds on instances attempted per scene.
func (c Category) InstanceRange() (int, int) {
	if !c.Multi {
		return 1, 1
	}
	return c.MinInstances, c.MaxInstances
}

// DefaultCategories reproduces the bamboo defect set: many small insect holes
// or a single large missing-wall region.
var DefaultCategories = []Category{
	{
		Name:         "hole",
		Dir:          filepath.Join("patches", "holes"),
		ClassID:      2,
		Multi:        true,
		MinInstances: DefaultMinInstances,
		MaxInstances: DefaultMaxInstances,
	},
	{
		Name:    "missing",
		Dir:     filepath.Join("patches", "missing"),
		ClassID: 3,
	},
}

type file struct {
	Categories []Category `yaml:"categories"`
}

// configPath returns the path to the user's custom categories file.
func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".defectgen", "categories.yaml"), nil
}

// LoadFile reads and validates a YAML categories file.
func LoadFile(path string) ([]Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open categories file")
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrapf(err, "cannot parse categories file %s", path)
	}
	for i := range f.Categories {
		c := &f.Categories[i]
		if c.Multi && c.MinInstances == 0 && c.MaxInstances == 0 {
			c.MinInstances, c.MaxInstances = DefaultMinInstances, DefaultMaxInstances
		}
	}
	if err := Validate(f.Categories); err != nil {
		return nil, errors.Wrapf(err, "invalid categories file %s", path)
	}
	return f.Categories, nil
}

// LoadCustomCategories reads ~/.defectgen/categories.yaml.
// Returns nil if the file does not exist.
func LoadCustomCategories() ([]Category, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return LoadFile(path)
}

// Resolve returns the categories to generate.
// Priority: explicit file > custom file > defaults.
func Resolve(path string) ([]Category, error) {
	if path != "" {
		return LoadFile(path)
	}

	custom, err := LoadCustomCategories()
	if err != nil {
		return nil, err
	}
	if len(custom) > 0 {
		return custom, nil
	}

	return append([]Category(nil), DefaultCategories...), nil
}

// WithInstanceRange returns a copy of cats with every multi-instance category
// using [lo, hi].
func WithInstanceRange(cats []Category, lo, hi int) ([]Category, error) {
	out := append([]Category(nil), cats...)
	for i := range out {
		if out[i].Multi {
			out[i].MinInstances, out[i].MaxInstances = lo, hi
		}
	}
	if err := Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Validate checks names, directories, class ids and instance ranges.
func Validate(cats []Category) error {
	if len(cats) == 0 {
		return errors.New("no categories defined")
	}
	seen := make(map[string]bool, len(cats))
	for _, c := range cats {
		if c.Name == "" {
			return errors.New("category with empty name")
		}
		if seen[c.Name] {
			return errors.Errorf("duplicate category %q", c.Name)
		}
		seen[c.Name] = true
		if c.Dir == "" {
			return errors.Errorf("category %q has no patch directory", c.Name)
		}
		if c.ClassID < 0 {
			return errors.Errorf("category %q has negative class id %d", c.Name, c.ClassID)
		}
		if lo, hi := c.InstanceRange(); lo < 1 || hi < lo {
			return errors.Errorf("category %q has invalid instance range [%d, %d]", c.Name, lo, hi)
		}
	}
	return nil
}
