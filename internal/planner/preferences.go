package planner

import (
	"log/slog"

	"github.com/yuneten/tabiplan/internal/types"
)

// purposeRule seeds the primary and secondary tiers.
type purposeRule struct {
	primary   []string
	secondary []string
}

// moodRule adjusts tiers: boost promotes a category into primary (moving it
// out of secondary if present there), add appends to secondary.
type moodRule struct {
	boost string
	add   string
}

// companionRule removes categories outright or appends to the lower tiers.
type companionRule struct {
	remove       []string
	addSecondary []string
	addTertiary  []string
}

var defaultPurposeRules = map[string]purposeRule{
	"sightseeing": {primary: []string{CategoryCulture, CategoryNature}, secondary: []string{CategoryActivity}},
	"gourmet":     {primary: []string{CategoryGourmet}, secondary: []string{CategoryShopping, CategoryCulture}},
	"relax":       {primary: []string{CategoryRelax, CategoryNature}, secondary: []string{CategoryGourmet}},
	"activity":    {primary: []string{CategoryActivity}, secondary: []string{CategoryNature, CategoryGourmet}},
}

var defaultMoodRules = map[string]moodRule{
	"excited":     {boost: CategoryActivity, add: CategoryShopping},
	"relaxed":     {boost: CategoryRelax, add: CategoryNature},
	"adventurous": {boost: CategoryNature, add: CategoryActivity},
	"chilled":     {boost: CategoryRelax, add: CategoryGourmet},
}

var defaultCompanionRules = map[string]companionRule{
	"solo":    {remove: []string{CategoryShopping}, addTertiary: []string{CategoryCulture}},
	"couple":  {addSecondary: []string{CategoryGourmet}, addTertiary: []string{CategoryRelax}},
	"family":  {addSecondary: []string{CategoryActivity}, addTertiary: []string{CategoryNature}},
	"friends": {addSecondary: []string{CategoryShopping}, addTertiary: []string{CategoryActivity}},
}

// PreferenceAnalyzer turns questionnaire answers into a tiered category
// preference set by applying the purpose, mood, companion and budget rule
// tables in sequence. The tables are immutable after construction.
type PreferenceAnalyzer struct {
	purposeRules   map[string]purposeRule
	moodRules      map[string]moodRule
	companionRules map[string]companionRule
	logger         *slog.Logger
}

func NewPreferenceAnalyzer(logger *slog.Logger) *PreferenceAnalyzer {
	return &PreferenceAnalyzer{
		purposeRules:   defaultPurposeRules,
		moodRules:      defaultMoodRules,
		companionRules: defaultCompanionRules,
		logger:         logger,
	}
}

// Analyze maps answers to a PreferenceSet. The resulting tiers are pairwise
// disjoint; a category is kept in the highest tier that claims it.
func (a *PreferenceAnalyzer) Analyze(answers types.Answers) types.PreferenceSet {
	var primary, secondary, tertiary []string

	// 1. Purpose seeds the tiers.
	if rule, ok := a.purposeRules[answers.Purpose]; ok {
		primary = append(primary, rule.primary...)
		secondary = append(secondary, rule.secondary...)
	}

	// 2. Mood promotes or appends, never removes.
	if rule, ok := a.moodRules[answers.Mood]; ok {
		if rule.boost != "" {
			secondary = removeCategory(secondary, rule.boost)
			primary = append(primary, rule.boost)
		}
		if rule.add != "" {
			secondary = append(secondary, rule.add)
		}
	}

	// 3. Companion may strip categories or extend the lower tiers.
	if rule, ok := a.companionRules[answers.Companion]; ok {
		for _, category := range rule.remove {
			primary = removeCategory(primary, category)
			secondary = removeCategory(secondary, category)
			tertiary = removeCategory(tertiary, category)
		}
		secondary = append(secondary, rule.addSecondary...)
		tertiary = append(tertiary, rule.addTertiary...)
	}

	// 4. Budget nudges.
	switch answers.Budget {
	case "low":
		secondary = append([]string{CategoryNature}, secondary...)
		primary = removeCategory(primary, CategoryShopping)
	case "high":
		if !contains(primary, CategoryGourmet) && !contains(secondary, CategoryGourmet) {
			secondary = append(secondary, CategoryGourmet)
		}
	}

	primary = dedupe(primary)
	secondary = pruneAgainst(dedupe(secondary), primary)
	tertiary = pruneAgainst(pruneAgainst(dedupe(tertiary), primary), secondary)

	prefs := types.PreferenceSet{
		Primary:   primary,
		Secondary: secondary,
		Tertiary:  tertiary,
		Filters: types.PreferenceFilters{
			Budget:    answers.Budget,
			Duration:  answers.Duration,
			Companion: answers.Companion,
		},
	}
	a.logger.Debug("analyzed preferences",
		slog.Any("primary", prefs.Primary),
		slog.Any("secondary", prefs.Secondary),
		slog.Any("tertiary", prefs.Tertiary))
	return prefs
}

func removeCategory(categories []string, category string) []string {
	out := categories[:0]
	for _, c := range categories {
		if c != category {
			out = append(out, c)
		}
	}
	return out
}

func contains(categories []string, category string) bool {
	for _, c := range categories {
		if c == category {
			return true
		}
	}
	return false
}

// dedupe keeps the first occurrence of each category, preserving order.
func dedupe(categories []string) []string {
	seen := make(map[string]bool, len(categories))
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// pruneAgainst drops categories already claimed by a higher tier.
func pruneAgainst(categories, higher []string) []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		if !contains(higher, c) {
			out = append(out, c)
		}
	}
	return out
}
