package analyzer

import "github.com/rg0now/rfm-segments/pkg/models"

// Categorize assigns a category from the three metric ranks.
// Rules are evaluated in order and the first match wins.
func Categorize(r, f, m models.Rank) (models.Category, string) {
	var category models.Category
	switch {
	case r == 4 && f == 4 && m == 4:
		category = models.CategoryHighValue
	case r >= 3 && f >= 3:
		category = models.CategoryActive
	case r <= 2 && (f >= 3 || m >= 3):
		category = models.CategoryAtRisk
	default:
		category = models.CategoryInactive
	}

	return category, category.Description()
}
