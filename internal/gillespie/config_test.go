package gillespie

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadModelConfig_JSON(t *testing.T) {
	cfg, err := LoadModelConfig(filepath.Join("..", "..", "examples", "models", "decay.json"))
	require.NoError(t, err)

	assert.Equal(t, "irreversible-decay", cfg.Name)
	assert.Equal(t, []string{"A", "B"}, cfg.SpeciesNames())
	require.Len(t, cfg.Reactions, 1)
	assert.Equal(t, "decay", cfg.Reactions[0].ID)
	assert.Equal(t, 1.0, cfg.Reactions[0].Rate)
}

func TestLoadModelConfig_YAML(t *testing.T) {
	cfg, err := LoadModelConfig(filepath.Join("..", "..", "examples", "models", "dimerization.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "dimerization", cfg.Name)
	assert.Equal(t, 2.0, cfg.Volume)
	require.Len(t, cfg.Reactions, 2)
	assert.Equal(t, 2, cfg.Reactions[0].Reactants["M"])
}

func TestLoadModelConfig_Missing(t *testing.T) {
	_, err := LoadModelConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadModelConfig_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := LoadModelConfig(path)
	assert.Error(t, err)
}

func validConfig() ModelConfig {
	return ModelConfig{
		Name: "decay",
		Species: []SpeciesConfig{
			{Name: "A", InitialCount: 100},
			{Name: "B", InitialCount: 0},
		},
		Reactions: []ReactionConfig{
			{ID: "decay", Reactants: map[string]int{"A": 1}, Products: map[string]int{"B": 1}, Rate: 1.0},
		},
	}
}

func TestValidateModelConfig_Valid(t *testing.T) {
	assert.NoError(t, ValidateModelConfig(validConfig()))
}

func TestValidateModelConfig_CollectsAllIssues(t *testing.T) {
	cfg := validConfig()
	cfg.Name = ""
	cfg.Species = append(cfg.Species, SpeciesConfig{Name: "A", InitialCount: -1})
	cfg.Reactions[0].Rate = -2.0

	err := ValidateModelConfig(cfg)
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Issues, "model name is required")
	assert.Contains(t, verr.Issues, "duplicate species name: A")
	assert.Contains(t, verr.Issues, "species 'A': initial count cannot be negative")
	assert.Contains(t, verr.Issues, "reaction 'decay': rate constant cannot be negative")
}

func TestValidateModelConfig_UnknownSpecies(t *testing.T) {
	cfg := validConfig()
	cfg.Reactions[0].Products = map[string]int{"Z": 1}

	err := ValidateModelConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "product species 'Z' does not exist")
}

func TestValidateModelConfig_OrderLimit(t *testing.T) {
	cfg := validConfig()
	cfg.Reactions[0].Reactants = map[string]int{"A": 4}

	err := ValidateModelConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order 4 exceeds the supported maximum of 3")
}

func TestBuildSystemFromConfig(t *testing.T) {
	cfg := validConfig()
	sys, err := BuildSystemFromConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, 1, sys.NumReactions())
	assert.Equal(t, 2, sys.NumSpecies())
	assert.Equal(t, []int{100, 0}, sys.InitialState())
	// columns follow species declaration order
	assert.Equal(t, []int{-1, 1}, sys.net[0])
}

func TestBuildSystemFromConfig_DefaultVolume(t *testing.T) {
	cfg := validConfig()
	cfg.Volume = 0
	sys, err := BuildSystemFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, 1.0, sys.volume)
}

func TestBuildSystemFromConfig_RejectsInvalid(t *testing.T) {
	cfg := validConfig()
	cfg.Species = nil
	_, err := BuildSystemFromConfig(cfg)
	assert.Error(t, err)
}
