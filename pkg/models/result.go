package models

import "time"

// RunResult is the outcome of executing one workflow once.
type RunResult struct {
	RunID            string `json:"run_id"`
	WorkflowID       string `json:"workflow_id"`
	Success          bool   `json:"success"`
	Error            string `json:"error,omitempty"`
	EventsProcessed  int    `json:"events_processed"`
	ArtifactsCreated int    `json:"artifacts_created"`
	ActionFailures   int    `json:"action_failures,omitempty"`
	ElapsedMS        int64  `json:"elapsed_ms"`
}

// RunStats is the slice of a RunResult persisted back onto the workflow
// row after a run.
type RunStats struct {
	Success          bool
	EventsProcessed  int
	ArtifactsCreated int
	Error            string
	RanAt            time.Time
}

// BatchSummary counts outcomes across one batch of workflow runs.
type BatchSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// BatchResult aggregates every RunResult of a batch together with its
// summary counts. A single workflow's failure never removes its entry.
type BatchResult struct {
	Summary BatchSummary `json:"summary"`
	Results []*RunResult `json:"results"`
}

func NewBatchResult(results []*RunResult) *BatchResult {
	batch := &BatchResult{Results: results}

	for _, result := range results {
		batch.Summary.Total++

		if result.Success {
			batch.Summary.Successful++
		} else {
			batch.Summary.Failed++
		}
	}

	return batch
}
