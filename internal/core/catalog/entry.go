package catalog

import (
	"regexp"
	"strings"

	"github.com/penwyp/go-dose-monitor/internal/core/model"
)

// Extractor pulls a structured dose out of one mention.
// It reports false when the mention carries no usable dose.
type Extractor interface {
	Extract(text string) (model.DoseAmount, bool)
}

// ExtractorFunc adapts a plain function to Extractor
type ExtractorFunc func(text string) (model.DoseAmount, bool)

// Extract calls f(text)
func (f ExtractorFunc) Extract(text string) (model.DoseAmount, bool) {
	return f(text)
}

// ActiveDuration describes how long a dose stays active, in hours
type ActiveDuration struct {
	Typical  float64  `json:"typical" yaml:"typical"`
	Min      *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max      *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	HalfLife *float64 `json:"halfLife,omitempty" yaml:"halfLife,omitempty"`
}

// Ingredient is a tracked constituent carried by one standard unit of a medication
type Ingredient struct {
	Name          string  `json:"name" yaml:"name"`
	AmountPerUnit float64 `json:"amountPerUnit" yaml:"amountPerUnit"`
	Unit          string  `json:"unit" yaml:"unit"`
}

// StandardDose is a commonly taken amount, the first one is the aggregation baseline
type StandardDose struct {
	Amount float64 `json:"amount" yaml:"amount"`
	Unit   string  `json:"unit" yaml:"unit"`
	Label  string  `json:"label" yaml:"label"`
}

// Entry is one medication definition. Entries are shared by pointer and must not be mutated.
type Entry struct {
	ID             string
	DisplayName    string
	Patterns       []*regexp.Regexp
	Extractor      Extractor
	ActiveDuration *ActiveDuration
	Ingredients    []Ingredient
	StandardDoses  []StandardDose
	Theme          string
}

// Matches reports whether any pattern matches the mention, testing them in order
func (e *Entry) Matches(text string) bool {
	for _, p := range e.Patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// TypicalDurationHours returns the typical active duration, or nil when none is configured
func (e *Entry) TypicalDurationHours() *float64 {
	if e.ActiveDuration == nil {
		return nil
	}
	typical := e.ActiveDuration.Typical
	return &typical
}

// Ingredient looks up an ingredient by case-insensitive name
func (e *Entry) Ingredient(name string) (Ingredient, bool) {
	for _, ing := range e.Ingredients {
		if strings.EqualFold(ing.Name, name) {
			return ing, true
		}
	}
	return Ingredient{}, false
}

// BaselineDose returns the first standard dose
func (e *Entry) BaselineDose() (StandardDose, bool) {
	if len(e.StandardDoses) == 0 {
		return StandardDose{}, false
	}
	return e.StandardDoses[0], true
}
