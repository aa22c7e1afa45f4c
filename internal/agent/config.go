package agent

import (
	"fmt"
	"reflect"
	"strings"
)

// Config describes which reasoning strategy, model, and parameters an
// evaluation uses. It is treated as immutable once constructed; all
// validation happens through Validate, not the constructor, so a bad
// configuration can be surfaced before any network call.
type Config struct {
	AgentType       string         `json:"agent_type"`
	ModelProvider   string         `json:"model_provider"`
	ModelName       string         `json:"model_name"`
	ModelParameters map[string]any `json:"model_parameters,omitempty"`
	AgentParameters map[string]any `json:"agent_parameters,omitempty"`
}

// ValidationResult reports the outcome of config validation.
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// Temperature bounds accepted by Validate.
const (
	minTemperature = 0.0
	maxTemperature = 2.0
)

// Validate checks the config against the given set of supported agent types
// and the numeric parameter ranges. It reports problems rather than failing,
// so callers can present all misconfigurations at once.
func (c Config) Validate(supportedTypes []string) ValidationResult {
	var result ValidationResult

	if !contains(supportedTypes, c.AgentType) {
		result.Errors = append(result.Errors, fmt.Sprintf(
			"unknown agent type %q (supported: %s)",
			c.AgentType, strings.Join(supportedTypes, ", "),
		))
	}

	if raw, ok := c.ModelParameters["temperature"]; ok {
		temp, ok := asFloat(raw)
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf(
				"temperature must be numeric, got %T", raw,
			))
		} else if temp < minTemperature || temp > maxTemperature {
			result.Errors = append(result.Errors, fmt.Sprintf(
				"temperature %v out of range [%v, %v]", temp, minTemperature, maxTemperature,
			))
		}
	}

	if strings.TrimSpace(c.ModelName) == "" {
		result.Warnings = append(result.Warnings, "model name is empty; the gateway default will be used")
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// Temperature returns the configured sampling temperature, if set and numeric.
func (c Config) Temperature() (float64, bool) {
	raw, ok := c.ModelParameters["temperature"]
	if !ok {
		return 0, false
	}
	return asFloat(raw)
}

// MaxTokens returns the configured completion token limit, if set and numeric.
func (c Config) MaxTokens() (int, bool) {
	raw, ok := c.ModelParameters["max_tokens"]
	if !ok {
		return 0, false
	}
	f, ok := asFloat(raw)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// ToMap returns a structural representation of the config.
func (c Config) ToMap() map[string]any {
	return map[string]any{
		"agent_type":       c.AgentType,
		"model_provider":   c.ModelProvider,
		"model_name":       c.ModelName,
		"model_parameters": c.ModelParameters,
		"agent_parameters": c.AgentParameters,
	}
}

// Equal reports structural equality with another config.
func (c Config) Equal(other Config) bool {
	return reflect.DeepEqual(c, other)
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// asFloat converts the numeric types seen in decoded JSON/YAML parameters.
func asFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
