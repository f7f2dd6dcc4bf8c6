package types

import "fmt"

// Answers carries the five questionnaire fields. All fields are required
// and must be one of the enumerated values below.
type Answers struct {
	Mood      string `json:"mood"`
	Purpose   string `json:"purpose"`
	Budget    string `json:"budget"`
	Duration  string `json:"duration"`
	Companion string `json:"companion"`
}

var (
	validMoods      = map[string]bool{"excited": true, "relaxed": true, "adventurous": true, "chilled": true}
	validPurposes   = map[string]bool{"sightseeing": true, "gourmet": true, "relax": true, "activity": true}
	validBudgets    = map[string]bool{"low": true, "medium": true, "high": true}
	validDurations  = map[string]bool{"short": true, "medium": true, "long": true}
	validCompanions = map[string]bool{"solo": true, "couple": true, "family": true, "friends": true}
)

// ValidationError marks a malformed questionnaire. It is the only
// caller-visible failure the planner raises before doing any work.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid answers: field %q %s", e.Field, e.Message)
}

// Validate checks every answer field against its enumeration.
func (a Answers) Validate() error {
	checks := []struct {
		field string
		value string
		valid map[string]bool
	}{
		{"mood", a.Mood, validMoods},
		{"purpose", a.Purpose, validPurposes},
		{"budget", a.Budget, validBudgets},
		{"duration", a.Duration, validDurations},
		{"companion", a.Companion, validCompanions},
	}
	for _, c := range checks {
		if c.value == "" {
			return &ValidationError{Field: c.field, Message: "is required"}
		}
		if !c.valid[c.value] {
			return &ValidationError{Field: c.field, Message: fmt.Sprintf("has unknown value %q", c.value)}
		}
	}
	return nil
}

// PreferenceFilters echoes answer fields through to downstream stages.
// Only Duration influences the plan shape (day count); the rest are
// informational.
type PreferenceFilters struct {
	Budget    string `json:"budget"`
	Duration  string `json:"duration"`
	Companion string `json:"companion"`
}

// PreferenceSet is the analyzer output: three pairwise-disjoint tiers of
// category keys in descending weight, plus echoed filters. All tiers may
// be empty, which the selector treats as "no preference".
type PreferenceSet struct {
	Primary   []string          `json:"primary"`
	Secondary []string          `json:"secondary"`
	Tertiary  []string          `json:"tertiary"`
	Filters   PreferenceFilters `json:"filters"`
}

// AllCategories returns the union of the three tiers, higher tiers first.
func (p PreferenceSet) AllCategories() []string {
	out := make([]string, 0, len(p.Primary)+len(p.Secondary)+len(p.Tertiary))
	out = append(out, p.Primary...)
	out = append(out, p.Secondary...)
	out = append(out, p.Tertiary...)
	return out
}

// HasPreference reports whether any tier is non-empty.
func (p PreferenceSet) HasPreference() bool {
	return len(p.Primary)+len(p.Secondary)+len(p.Tertiary) > 0
}
