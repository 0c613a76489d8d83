package evaluations

import "errors"

var (
	ErrNotFound     = errors.New("evaluation not found")
	ErrFormNotFound = errors.New("evaluation form not found or inactive")
	ErrNoScores     = errors.New("at least one score is required")
)
