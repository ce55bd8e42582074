package core

// Category pairs a registry key with its display name.
type Category struct {
	Key  string
	Name string
}

// CategorySummary aggregates the records of one category.
type CategorySummary struct {
	Name  string
	Total float64
	Count int
}

// MonthlySummary is the rollup for a specific year+month.
type MonthlySummary struct {
	Month       string // YYYY-MM
	TotalAmount float64
	Count       int
	ByCategory  map[string]float64 // keyed by category key, only months' categories present
	Records     []Record
}

// MonthTotal is one point of the spend-over-time trend.
type MonthTotal struct {
	Month string // YYYY-MM
	Total float64
}
