// Package constants provides named constants used throughout textsim.
package constants

// Search defaults
const (
	// DefaultThreshold is the default minimum score for search results.
	// Zero means no filtering.
	DefaultThreshold = 0.0

	// DefaultMatchCount is the default number of search results.
	DefaultMatchCount = 1

	// DefaultParallelMin is the candidate count from which a Searcher
	// scores candidates on its worker pool.
	DefaultParallelMin = 256
)

// Candidate source defaults
const (
	// DefaultCandidateColumn is the column read from SQLite tables and Arrow
	// files when none is given.
	DefaultCandidateColumn = "text"

	// DefaultCandidateTable is the SQLite table read when none is given.
	DefaultCandidateTable = "candidates"

	// MaxLineBytes bounds a single candidate line read from text input.
	MaxLineBytes = 1024 * 1024
)

// Tool names exposed by the MCP server.
const (
	ToolCosine = "textsim_cosine"
	ToolRatio  = "textsim_ratio"
	ToolSearch = "textsim_search"
	ToolVector = "textsim_vector_cosine"
)
