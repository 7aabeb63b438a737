package model

// SortMode selects the ordering applied by entry queries.
type SortMode string

const (
	SortCustom           SortMode = "custom"            // ascending order_rank
	SortAlphabeticalAsc  SortMode = "alphabetical_asc"  // case-insensitive name, A→Z
	SortAlphabeticalDesc SortMode = "alphabetical_desc" // case-insensitive name, Z→A
	SortFrequentlyUsed   SortMode = "frequently_used"   // usage counter, most used first
)
