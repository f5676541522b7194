package listing

import (
	"github.com/kailas-cloud/bizdex/internal/db"
	"github.com/kailas-cloud/bizdex/internal/domain/search/plan"
)

// Index schema aliases beyond the plan fields.
const (
	fieldHasLocation = "has_location"
	fieldRating      = "rating"
)

// buildIndex describes the FT index over listing JSON documents.
func buildIndex(name, prefix string) (*db.IndexDefinition, error) {
	return db.NewIndex(name).
		Prefix(prefix).
		SortableTag("$.id", plan.FieldID).
		Text("$.name", plan.FieldName).
		Text("$.description", plan.FieldDescription).
		// categories behave as keywords: exact and case-sensitive
		TagWithOpts("$.categories[*]", plan.FieldCategories, "", true).
		Geo("$.location", plan.FieldLocation).
		Tag("$.has_location", fieldHasLocation).
		Numeric("$.rating", fieldRating).
		Build()
}
