package ingestion

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// CategoryRule maps keyword hits in a chunk to one content category.
type CategoryRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// CategoryConfig is the top-level category rule file. Rules are evaluated
// in file order, first match wins.
type CategoryConfig struct {
	Default string         `yaml:"default"`
	Rules   []CategoryRule `yaml:"rules"`
}

// Validate checks the loaded rule file.
func (c *CategoryConfig) Validate() error {
	if c.Default == "" {
		return fmt.Errorf("config validation failed: default category is required")
	}
	for i, rule := range c.Rules {
		if rule.Name == "" {
			return fmt.Errorf("config validation failed: rule %d has no name", i)
		}
		if len(rule.Keywords) == 0 {
			return fmt.Errorf("config validation failed: rule %q has no keywords", rule.Name)
		}
	}
	return nil
}

// LoadCategoryConfig reads and validates a category rule file.
func LoadCategoryConfig(path string) (*CategoryConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read category config %s: %w", path, err)
	}

	var config CategoryConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML for %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed for %s: %w", path, err)
	}
	return &config, nil
}

// Categorize tags a chunk with the first rule whose keyword appears in it,
// falling back to the default category.
func (c *CategoryConfig) Categorize(chunk string) string {
	lower := strings.ToLower(chunk)
	for _, rule := range c.Rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lower, strings.ToLower(keyword)) {
				return rule.Name
			}
		}
	}
	return c.Default
}
