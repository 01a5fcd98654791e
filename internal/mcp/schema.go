package mcp

// ScoreInput defines the input for the textsim_cosine and textsim_ratio tools.
type ScoreInput struct {
	Base      string   `json:"base" jsonschema:"Base text"`
	Query     string   `json:"query" jsonschema:"Text compared against the base"`
	Threshold *float64 `json:"threshold,omitempty" jsonschema:"Inclusive minimum score; when set the output reports whether it is reached"`
}

// ScoreOutput defines the output for the scoring tools.
type ScoreOutput struct {
	Score     float64  `json:"score" jsonschema:"Similarity score between 0 and 1"`
	Threshold *float64 `json:"threshold,omitempty" jsonschema:"Threshold the score was compared with"`
	Match     *bool    `json:"match,omitempty" jsonschema:"Whether the score reached the threshold"`
}

// SearchInput defines the input for the textsim_search tool.
type SearchInput struct {
	Query      string   `json:"query" jsonschema:"Text to search for"`
	Candidates []string `json:"candidates,omitempty" jsonschema:"Candidate strings, searched in order"`
	File       string   `json:"file,omitempty" jsonschema:"Candidate file (text, YAML, SQLite or Arrow); appended after candidates"`
	Threshold  *float64 `json:"threshold,omitempty" jsonschema:"Inclusive minimum score; omit to use the configured default, 0 disables filtering"`
	MatchCount *int     `json:"match_count,omitempty" jsonschema:"Maximum number of results, at least 1"`
}

// SearchMatch is a single ranked result.
type SearchMatch struct {
	Candidate string  `json:"candidate"`
	Score     float64 `json:"score"`
	Index     int     `json:"index"`
}

// SearchOutput defines the output for the textsim_search tool.
type SearchOutput struct {
	Matches    []SearchMatch `json:"matches" jsonschema:"Ranked matches, best first"`
	Count      int           `json:"count" jsonschema:"Number of matches returned"`
	Candidates int           `json:"candidates" jsonschema:"Number of candidates scored"`
}

// VectorInput defines the input for the textsim_vector_cosine tool.
type VectorInput struct {
	Base        string   `json:"base" jsonschema:"Base text"`
	Query       string   `json:"query" jsonschema:"Text compared against the base"`
	Method      string   `json:"method,omitempty" jsonschema:"Vectorization: count, tfidf (default), glove or model; glove and model use the configured embeddings"`
	NGramMin    int      `json:"ngram_min,omitempty" jsonschema:"Smallest n-gram size for count and tfidf, default 1"`
	NGramMax    int      `json:"ngram_max,omitempty" jsonschema:"Largest n-gram size for count and tfidf, default ngram_min"`
	MaxFeatures int      `json:"max_features,omitempty" jsonschema:"Keep only the most frequent terms; 0 keeps all"`
	Threshold   *float64 `json:"threshold,omitempty" jsonschema:"Inclusive minimum score; when set the output reports whether it is reached"`
}

// VectorOutput defines the output for the textsim_vector_cosine tool.
type VectorOutput struct {
	Method    string   `json:"method" jsonschema:"Vectorization used"`
	Score     float64  `json:"score" jsonschema:"Cosine similarity of the two vectors"`
	Threshold *float64 `json:"threshold,omitempty" jsonschema:"Threshold the score was compared with"`
	Match     *bool    `json:"match,omitempty" jsonschema:"Whether the score reached the threshold"`
}
