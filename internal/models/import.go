package models

import "time"

// ImportSummary reports the outcome of one xlsx question import. Row-level
// problems are collected, never fatal: a bad row is skipped and recorded.
type ImportSummary struct {
	TotalRows        int           `json:"total_rows"`
	SuccessCount     int           `json:"success_count"`
	ErrorCount       int           `json:"error_count"`
	CreatedQuestions []uint        `json:"created_questions"`
	Errors           []ImportError `json:"errors"`
	ProcessingTime   time.Duration `json:"processing_time"`
}

// ImportError pinpoints a rejected spreadsheet row.
type ImportError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
}
