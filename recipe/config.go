package recipe

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/recipes/dataset"
	"github.com/YuminosukeSato/recipes/pkg/errors"
)

// Config is a declarative recipe description loadable from YAML:
//
//	recipe:
//	  outcome: permeability
//	  roles:
//	    mol_weight: auxiliary
//	  steps:
//	    - type: nzv
//	      select: { role: predictor }
//	    - type: pca
//	      select: { prefix: surf_area_ }
//	      params: { components: 2, prefix: surf_area_ }
type Config struct {
	Recipe RecipeConfig `yaml:"recipe"`
}

// RecipeConfig declares the outcome, role overrides, and step list.
type RecipeConfig struct {
	Outcome string            `yaml:"outcome"`
	Roles   map[string]string `yaml:"roles"`
	Steps   []StepConfig      `yaml:"steps"`
}

// StepConfig declares one step: its type, column selection, and parameters.
type StepConfig struct {
	Type   string                 `yaml:"type"`
	Select SelectorConfig         `yaml:"select"`
	Params map[string]interface{} `yaml:"params"`
}

// SelectorConfig declares a column selection. The fields set are combined by
// intersection; Except subtracts a nested selection. An empty config selects
// all predictors.
type SelectorConfig struct {
	Names  []string        `yaml:"names"`
	Prefix string          `yaml:"prefix"`
	Role   string          `yaml:"role"`
	Type   string          `yaml:"type"`
	Except *SelectorConfig `yaml:"except"`
}

// LoadConfig reads and parses a YAML recipe declaration.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "recipe.LoadConfig: read file")
	}
	return ParseConfig(data)
}

// ParseConfig parses a YAML recipe declaration.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "recipe.ParseConfig: parse yaml")
	}
	if cfg.Recipe.Outcome == "" {
		return nil, errors.NewValidationError("recipe.outcome", "outcome column is required", cfg.Recipe.Outcome)
	}
	return &cfg, nil
}

// Build constructs a recipe from the configuration against the reference
// dataset, using the step builder registry.
func (c *Config) Build(ds *dataset.Dataset) (*Recipe, error) {
	r, err := New(ds, c.Recipe.Outcome)
	if err != nil {
		return nil, err
	}
	for column, role := range c.Recipe.Roles {
		if err := r.SetRole(column, Role(role)); err != nil {
			return nil, err
		}
	}
	for i, sc := range c.Recipe.Steps {
		builder, ok := stepBuilders[sc.Type]
		if !ok {
			return nil, errors.NewValidationError("step.type", "no builder registered", sc.Type)
		}
		sel, err := sc.Select.selector()
		if err != nil {
			return nil, errors.Wrapf(err, "step %d (%s)", i, sc.Type)
		}
		step, err := builder(sel, sc.Params)
		if err != nil {
			return nil, errors.Wrapf(err, "step %d (%s)", i, sc.Type)
		}
		if err := r.Add(step); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// selector converts the declaration into a Selector value.
func (sc SelectorConfig) selector() (Selector, error) {
	var parts []Selector
	if len(sc.Names) > 0 {
		parts = append(parts, ByName(sc.Names...))
	}
	if sc.Prefix != "" {
		parts = append(parts, ByPrefix(sc.Prefix))
	}
	if sc.Role != "" {
		parts = append(parts, ByRole(Role(sc.Role)))
	}
	if sc.Type != "" {
		switch sc.Type {
		case "numeric":
			parts = append(parts, ByType(dataset.Numeric))
		case "categorical":
			parts = append(parts, ByType(dataset.Categorical))
		default:
			return Selector{}, errors.NewValidationError("select.type", "unknown column type", sc.Type)
		}
	}

	var sel Selector
	if len(parts) == 0 {
		sel = AllPredictors()
	} else {
		sel = parts[0]
		for _, p := range parts[1:] {
			sel = Intersection(sel, p)
		}
	}

	if sc.Except != nil {
		except, err := sc.Except.selector()
		if err != nil {
			return Selector{}, err
		}
		sel = Difference(sel, except)
	}
	return sel, nil
}

// StepBuilder constructs a step from a selector and raw parameters.
type StepBuilder func(sel Selector, params map[string]interface{}) (Step, error)

var stepBuilders = map[string]StepBuilder{
	"center": func(sel Selector, _ map[string]interface{}) (Step, error) {
		return Center(sel), nil
	},
	"scale": func(sel Selector, _ map[string]interface{}) (Step, error) {
		return Scale(sel), nil
	},
	"range": func(sel Selector, params map[string]interface{}) (Step, error) {
		min := floatParam(params, "min", 0.0)
		max := floatParam(params, "max", 1.0)
		return RangeScale(sel, min, max), nil
	},
	"nzv": func(sel Selector, params map[string]interface{}) (Step, error) {
		freqCut := floatParam(params, "freq_cut", DefaultFreqCut)
		uniqueCut := floatParam(params, "unique_cut", DefaultUniqueCut)
		return NearZeroVar(sel, freqCut, uniqueCut), nil
	},
	"corr": func(sel Selector, params map[string]interface{}) (Step, error) {
		return CorrFilter(sel, floatParam(params, "threshold", 0.9)), nil
	},
	"pca": func(sel Selector, params map[string]interface{}) (Step, error) {
		step := PCA(sel, intParam(params, "components", 0))
		if prefix := stringParam(params, "prefix", ""); prefix != "" {
			step = step.WithPrefix(prefix)
		}
		if t := floatParam(params, "variance_threshold", 0); t > 0 {
			step = step.WithVarianceThreshold(t)
		}
		return step, nil
	},
}

// RegisterStep adds a step builder to the registry, making the type available
// to Config.Build. Registering an existing type replaces the builder.
func RegisterStep(name string, builder StepBuilder) {
	stepBuilders[name] = builder
}

func floatParam(params map[string]interface{}, key string, def float64) float64 {
	v, ok := params[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return def
	}
}

func intParam(params map[string]interface{}, key string, def int) int {
	v, ok := params[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return def
	}
}

func stringParam(params map[string]interface{}, key string, def string) string {
	if v, ok := params[key]; ok {
		return fmt.Sprintf("%v", v)
	}
	return def
}
