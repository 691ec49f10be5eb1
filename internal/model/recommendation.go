package model

// Recommendation is one proposed cleaning action, as produced by a
// recommendation generator and presented to the user for an accept/skip
// decision. AffectedChunks is advisory: when empty, the chunk manager routes
// over every chunk of the transformation's sheet.
type Recommendation struct {
	ID                   string         `json:"id"`
	Title                string         `json:"title"`
	Rationale            string         `json:"rationale,omitempty"`
	Transformation       Transformation `json:"-"`
	AffectedChunks       []string       `json:"affected_chunks,omitempty"`
	CanProcessInParallel bool           `json:"can_process_in_parallel"`
}

// Decision records the user's choice on one recommendation.
type Decision struct {
	RecommendationID string
	Accepted         bool
}
