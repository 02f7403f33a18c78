package menu

import (
	"github.com/m2-berezin/safedine-app/domain"
)

// animalAllergens are the allergen codes that disqualify an item for vegans
// regardless of its dietary tags. Fixed by policy with the menu data source.
var animalAllergens = map[string]bool{
	"D": true, // dairy
	"E": true, // egg
	"M": true, // molluscs
}

// FilterPolicy controls how items with no dietary tags are treated for
// vegetarian/vegan diners. The permissive default matches the menu data
// source: absence of information is not a violation. This is a product
// decision, so it is configurable rather than hard-coded.
type FilterPolicy struct {
	TreatUntaggedAsSafe bool
}

func DefaultFilterPolicy() FilterPolicy {
	return FilterPolicy{TreatUntaggedAsSafe: true}
}

// IsSafe decides whether a menu item may be shown to a diner with the given
// preferences. Pure and total: unknown codes never match, malformed input
// never panics.
func IsSafe(allergens, dietaryInfo []string, prefs domain.Preferences, policy FilterPolicy) bool {
	for _, code := range allergens {
		if prefs.HasAllergen(code) {
			return false
		}
	}
	return dietQualifies(allergens, dietaryInfo, prefs, policy)
}

func dietQualifies(allergens, dietaryInfo []string, prefs domain.Preferences, policy FilterPolicy) bool {
	if len(prefs.Diets) == 0 {
		return true
	}

	taggedVegetarian := contains(dietaryInfo, domain.DietVegetarian)
	taggedVegan := contains(dietaryInfo, domain.DietVegan)
	untagged := !taggedVegetarian && !taggedVegan

	if prefs.HasDiet(domain.DietVegan) {
		if !taggedVegan && !(untagged && policy.TreatUntaggedAsSafe) {
			return false
		}
		// The allergen tags dominate the dietary tag: a "vegan" item
		// carrying dairy, egg or mollusc codes is rejected.
		for _, code := range allergens {
			if animalAllergens[code] {
				return false
			}
		}
		return true
	}

	if prefs.HasDiet(domain.DietVegetarian) {
		return taggedVegetarian || taggedVegan || (untagged && policy.TreatUntaggedAsSafe)
	}

	return true
}

func contains(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
