package main

import "errors"

// Pipeline error kinds. Every one of these aborts the current run; none are
// retried. Wrap with fmt.Errorf("...: %w", err) to add detail.
var (
	// ErrInputFormat means the uploaded file could not be read or parsed.
	ErrInputFormat = errors.New("input file unreadable or unparsable")

	// ErrSchema means the first data row lacks a story or sub-story column
	// after header normalization.
	ErrSchema = errors.New("missing required column")

	// ErrNoData means the file parsed cleanly but contained no data rows.
	ErrNoData = errors.New("no rows to process")

	// ErrRemoteEmptyResponse means the model returned no content for a chunk.
	ErrRemoteEmptyResponse = errors.New("model returned no content")

	// ErrRemoteFormat means the model payload was not a decodable JSON array.
	ErrRemoteFormat = errors.New("model payload is not a decodable array")

	// ErrRunActive means a pipeline run is already in progress for this
	// session. Only one run may be active at a time.
	ErrRunActive = errors.New("a review run is already in progress")
)
