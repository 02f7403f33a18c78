package domain

var (
	MessageSuccessGetPreferences   = "preferences retrieved successfully"
	MessageSuccessSavePreferences  = "preferences saved successfully"
	MessageSuccessResetPreferences = "preferences reset successfully"

	MessageFailedGetPreferences  = "failed to retrieve preferences"
	MessageFailedSavePreferences = "failed to save preferences"
)

// AllergenCodes is the closed vocabulary shared with the menu data source.
// Codes outside it are ignored by matching, never an error.
var AllergenCodes = map[string]string{
	"D":  "Dairy",
	"MU": "Mustard",
	"N":  "Nuts",
	"L":  "Lupin",
	"S":  "Sesame",
	"G":  "Gluten",
	"E":  "Egg",
	"C":  "Celery",
	"CR": "Crustaceans",
	"F":  "Fish",
	"M":  "Molluscs",
	"SO": "Soya",
	"SD": "Sulphur Dioxide",
	"P":  "Peanuts",
}

const (
	DietVegetarian = "V"
	DietVegan      = "VG"
)

var DietCodes = map[string]string{
	DietVegetarian: "Vegetarian",
	DietVegan:      "Vegan",
}

type (
	Preferences struct {
		Allergens []string `json:"allergens"`
		Diets     []string `json:"diets"`
	}

	SavePreferencesRequest struct {
		Allergens []string `json:"allergens" validate:"omitempty,dive,required"`
		Diets     []string `json:"diets" validate:"omitempty,dive,oneof=V VG"`
	}
)

// HasAllergen reports whether the diner excluded the given allergen code.
func (p Preferences) HasAllergen(code string) bool {
	for _, a := range p.Allergens {
		if a == code {
			return true
		}
	}
	return false
}

// HasDiet reports whether the diner selected the given diet code.
func (p Preferences) HasDiet(code string) bool {
	for _, d := range p.Diets {
		if d == code {
			return true
		}
	}
	return false
}
