package curation

// DistinctCategories returns the non-empty category labels in the order they
// first appear.
func DistinctCategories(articles []Article) []string {
	seen := make(map[string]struct{})
	categories := make([]string, 0)

	for _, article := range articles {
		if article.Category == "" {
			continue
		}
		if _, ok := seen[article.Category]; ok {
			continue
		}
		seen[article.Category] = struct{}{}
		categories = append(categories, article.Category)
	}

	return categories
}

// NormalizeCategories copies the records with display-ready names.
func NormalizeCategories(records []Category) []Category {
	normalized := make([]Category, len(records))
	for i, record := range records {
		normalized[i] = Category{
			ID:   record.ID,
			Name: CleanCategory(record.Name),
		}
	}
	return normalized
}
