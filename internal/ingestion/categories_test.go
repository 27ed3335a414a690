package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *CategoryConfig {
	return &CategoryConfig{
		Default: "general",
		Rules: []CategoryRule{
			{Name: "claims", Keywords: []string{"claim process", "claim settlement", "cashless"}},
			{Name: "health", Keywords: []string{"hospitalization", "mediclaim", "health insurance"}},
			{Name: "term_life", Keywords: []string{"death benefit", "term insurance", "sum assured"}},
		},
	}
}

func TestCategorizeFirstMatchWins(t *testing.T) {
	cfg := testConfig()

	// Mentions both claims and health vocabulary; claims is listed first.
	got := cfg.Categorize("The claim process for hospitalization expenses is cashless.")
	assert.Equal(t, "claims", got)
}

func TestCategorizeCaseInsensitive(t *testing.T) {
	cfg := testConfig()
	assert.Equal(t, "term_life", cfg.Categorize("The DEATH BENEFIT is paid to the nominee."))
}

func TestCategorizeFallsBackToDefault(t *testing.T) {
	cfg := testConfig()
	assert.Equal(t, "general", cfg.Categorize("Insurance is a contract between two parties."))
}

func TestLoadCategoryConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "categories.yaml")
	content := `default: general
rules:
  - name: claims
    keywords: ["claim process", "cashless"]
  - name: health
    keywords: ["hospitalization"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadCategoryConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "general", cfg.Default)
	require.Len(t, cfg.Rules, 2)
	assert.Equal(t, "claims", cfg.Rules[0].Name)
}

func TestLoadCategoryConfigRejectsMissingDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules: []"), 0o644))

	_, err := LoadCategoryConfig(path)
	assert.Error(t, err)
}

func TestIsTextDocument(t *testing.T) {
	assert.True(t, isTextDocument("library/claims.txt"))
	assert.True(t, isTextDocument("library/guide.MD"))
	assert.False(t, isTextDocument("library/logo.png"))
	assert.False(t, isTextDocument("library/data.csv"))
}
