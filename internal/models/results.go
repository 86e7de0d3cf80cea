package models

import (
	"fmt"

	"kakeibo/internal/logging"
)

// UploadResult tallies the outcome of persisting a parsed statement.
type UploadResult struct {
	Vendor    Vendor   `json:"vendor"`
	Encoding  string   `json:"encoding"`
	Success   int      `json:"success"`
	Duplicate int      `json:"duplicate"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors"`
}

// RowOutcome is the result of inserting a single candidate.
type RowOutcome int

const (
	RowInserted RowOutcome = iota
	RowDuplicate
	RowFailed
)

// Record folds one row's outcome into the tally and returns the new tally.
// For RowFailed, detail is appended to Errors as "<description>: <detail>".
func (r UploadResult) Record(outcome RowOutcome, description string, detail error) UploadResult {
	switch outcome {
	case RowInserted:
		r.Success++
	case RowDuplicate:
		r.Duplicate++
	case RowFailed:
		r.Failed++
		errs := make([]string, len(r.Errors), len(r.Errors)+1)
		copy(errs, r.Errors)
		r.Errors = append(errs, fmt.Sprintf("%s: %v", description, detail))
	}
	return r
}

// Total is the number of rows the tally has seen.
func (r UploadResult) Total() int {
	return r.Success + r.Duplicate + r.Failed
}

// LogSummary writes the tally at info level.
func (r UploadResult) LogSummary(logger logging.Logger) {
	if logger == nil {
		return
	}
	logger.Info("Upload summary",
		logging.F(logging.FieldVendor, r.Vendor),
		logging.F(logging.FieldEncoding, r.Encoding),
		logging.F("success", r.Success),
		logging.F("duplicate", r.Duplicate),
		logging.F("failed", r.Failed))
}

// AssignResult reports a bulk classification pass.
type AssignResult struct {
	Assigned int    `json:"assigned"`
	Total    int    `json:"total"`
	Message  string `json:"message"`
}

// LogSummary writes the result at info level.
func (r AssignResult) LogSummary(logger logging.Logger) {
	if logger == nil {
		return
	}
	logger.Info("Auto-assign summary",
		logging.F("assigned", r.Assigned),
		logging.F("total", r.Total),
		logging.F(logging.FieldStatus, r.Message))
}
