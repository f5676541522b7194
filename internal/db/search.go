package db

// SearchQuery is the input for FT.SEARCH.
type SearchQuery struct {
	IndexName    string
	Query        string
	Offset       int
	Limit        int
	WithScores   bool
	SortBy       string // empty keeps engine order (score for text queries)
	SortDesc     bool
	ReturnFields []string
	NoContent    bool
}

// AggregateQuery is the input for FT.AGGREGATE with a geo distance projection.
type AggregateQuery struct {
	IndexName string
	Query     string
	Load      []string
	// Apply expressions are evaluated in order; each result is stored under its alias.
	Apply  []Projection
	SortBy []SortKey
	Offset int
	Limit  int
}

// Projection is one APPLY expression AS alias.
type Projection struct {
	Expr  string
	Alias string
}

// SortKey is one SORTBY property.
type SortKey struct {
	Field string
	Desc  bool
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
