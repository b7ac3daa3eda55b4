package forecast

// Category is the revenue forecasting bucket an opportunity rolls up into.
type Category string

const (
	CategoryPipeline Category = "pipeline"
	CategoryBestCase Category = "best_case"
	CategoryCommit   Category = "commit"
	CategoryClosed   Category = "closed"
	CategoryOmitted  Category = "omitted"
)

// Categorize maps a win probability to its forecast bucket.
// Closed-lost deals are never categorized here; they are forced to CategoryOmitted.
func Categorize(probability int) Category {
	switch {
	case probability >= 100:
		return CategoryClosed
	case probability >= 75:
		return CategoryCommit
	case probability >= 50:
		return CategoryBestCase
	default:
		return CategoryPipeline
	}
}

// Valid reports whether c is one of the known buckets.
func (c Category) Valid() bool {
	switch c {
	case CategoryPipeline, CategoryBestCase, CategoryCommit, CategoryClosed, CategoryOmitted:
		return true
	}

	return false
}

// All returns the buckets in rollup order.
func All() []Category {
	return []Category{CategoryPipeline, CategoryBestCase, CategoryCommit, CategoryClosed, CategoryOmitted}
}
