package catalog

import "github.com/animedom/animedom/internal/models"

// AllCategories is the category selection that disables filtering.
const AllCategories = "all"

// FilterByCategory keeps the entries linked to the selected category.
// Entries carry category names, so the selected ID is first resolved to a
// name; an ID that matches no category selects nothing.
func FilterByCategory(entries []*models.CatalogEntry, categories []*models.Category, selected string) []*models.CatalogEntry {
	if selected == "" || selected == AllCategories {
		return entries
	}

	name := ""
	for _, c := range categories {
		if c.ID == selected {
			name = c.Name
			break
		}
	}
	if name == "" {
		return []*models.CatalogEntry{}
	}

	filtered := make([]*models.CatalogEntry, 0, len(entries))
	for _, e := range entries {
		if e.HasCategory(name) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
