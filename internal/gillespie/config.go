package gillespie

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SpeciesConfig declares one species and its starting population.
type SpeciesConfig struct {
	Name         string `json:"name" yaml:"name"`
	InitialCount int    `json:"initial_count" yaml:"initial_count"`
}

// ReactionConfig declares one reaction by name: reactant and product
// coefficients keyed by species name, plus the deterministic rate
// constant.
type ReactionConfig struct {
	ID        string         `json:"id" yaml:"id"`
	Reactants map[string]int `json:"reactants" yaml:"reactants"`
	Products  map[string]int `json:"products" yaml:"products"`
	Rate      float64        `json:"rate" yaml:"rate"`
}

// ModelConfig is the declarative form of a reaction network, loadable
// from JSON or YAML.
type ModelConfig struct {
	Name      string           `json:"name" yaml:"name"`
	Species   []SpeciesConfig  `json:"species" yaml:"species"`
	Reactions []ReactionConfig `json:"reactions" yaml:"reactions"`
	Volume    float64          `json:"volume,omitempty" yaml:"volume,omitempty"`
	ChemFlag  bool             `json:"chem_flag,omitempty" yaml:"chem_flag,omitempty"`
}

// LoadModelConfig reads a model file, picking the decoder from the file
// extension (.json, .yaml or .yml).
func LoadModelConfig(path string) (ModelConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ModelConfig{}, fmt.Errorf("reading model file: %w", err)
	}

	var cfg ModelConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return ModelConfig{}, fmt.Errorf("parsing model YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return ModelConfig{}, fmt.Errorf("parsing model JSON: %w", err)
		}
	}
	return cfg, nil
}

// ValidateModelConfig performs comprehensive validation of a ModelConfig,
// collecting every issue rather than stopping at the first.
func ValidateModelConfig(cfg ModelConfig) error {
	err := &ValidationError{}

	if cfg.Name == "" {
		err.Add("model name is required")
	}
	if len(cfg.Species) == 0 {
		err.Add("at least one species is required")
	}
	if len(cfg.Reactions) == 0 {
		err.Add("at least one reaction is required")
	}
	if cfg.Volume < 0 {
		err.Add("volume cannot be negative")
	}

	speciesSet := make(map[string]bool)
	for _, sp := range cfg.Species {
		if sp.Name == "" {
			err.Add("species name is required")
			continue
		}
		if speciesSet[sp.Name] {
			err.Add("duplicate species name: " + sp.Name)
		} else {
			speciesSet[sp.Name] = true
		}
		if sp.InitialCount < 0 {
			err.Add("species '" + sp.Name + "': initial count cannot be negative")
		}
	}

	reactionIDs := make(map[string]bool)
	for i, rc := range cfg.Reactions {
		prefix := "reaction '" + rc.ID + "'"
		if rc.ID == "" {
			prefix = fmt.Sprintf("reaction at index %d", i)
			err.Add(prefix + ": reaction ID is required")
		} else if reactionIDs[rc.ID] {
			err.Add("duplicate reaction ID: " + rc.ID)
		} else {
			reactionIDs[rc.ID] = true
		}

		order := 0
		for name, coef := range rc.Reactants {
			if !speciesSet[name] {
				err.Add(prefix + ": reactant species '" + name + "' does not exist")
			}
			if coef < 0 {
				err.Add(prefix + ": reactant coefficient for '" + name + "' cannot be negative")
			}
			order += coef
		}
		if order > 3 {
			err.Add(fmt.Sprintf("%s: order %d exceeds the supported maximum of 3", prefix, order))
		}
		for name, coef := range rc.Products {
			if !speciesSet[name] {
				err.Add(prefix + ": product species '" + name + "' does not exist")
			}
			if coef < 0 {
				err.Add(prefix + ": product coefficient for '" + name + "' cannot be negative")
			}
		}
		if rc.Rate < 0 {
			err.Add(prefix + ": rate constant cannot be negative")
		}
	}

	if err.HasIssues() {
		return err
	}
	return nil
}

// BuildSystemFromConfig converts a validated config into a ReactionSystem.
// Species columns follow the declaration order of cfg.Species.
func BuildSystemFromConfig(cfg ModelConfig) (*ReactionSystem, error) {
	if err := ValidateModelConfig(cfg); err != nil {
		return nil, err
	}

	index := make(map[string]int, len(cfg.Species))
	initial := make([]int, len(cfg.Species))
	for j, sp := range cfg.Species {
		index[sp.Name] = j
		initial[j] = sp.InitialCount
	}

	nr := len(cfg.Reactions)
	reactants := make([][]int, nr)
	products := make([][]int, nr)
	kDet := make([]float64, nr)
	for i, rc := range cfg.Reactions {
		reactants[i] = make([]int, len(cfg.Species))
		products[i] = make([]int, len(cfg.Species))
		for name, coef := range rc.Reactants {
			reactants[i][index[name]] = coef
		}
		for name, coef := range rc.Products {
			products[i][index[name]] = coef
		}
		kDet[i] = rc.Rate
	}

	volume := cfg.Volume
	if volume == 0 {
		volume = 1.0
	}
	return NewReactionSystem(reactants, products, initial, kDet, volume, cfg.ChemFlag)
}

// SpeciesNames returns the declared species names in column order.
func (cfg ModelConfig) SpeciesNames() []string {
	names := make([]string, len(cfg.Species))
	for i, sp := range cfg.Species {
		names[i] = sp.Name
	}
	return names
}
