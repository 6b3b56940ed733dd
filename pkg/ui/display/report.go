// Package display holds the renderer-neutral view of an execution outcome
package display

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/arthur-debert/settle/pkg/errors"
	"github.com/arthur-debert/settle/pkg/result"
)

// Report describes how an execution settled
type Report struct {
	Command  string        `json:"command,omitempty"`
	RunID    string        `json:"run_id,omitempty"`
	Attempts int           `json:"attempts,omitempty"`
	Elapsed  time.Duration `json:"elapsed_ns,omitempty"`
	Success  bool          `json:"success"`
	Data     interface{}   `json:"data"`
	Error    string        `json:"error,omitempty"`
	Code     string        `json:"code,omitempty"`
}

// Field is one labelled line of a report
type Field struct {
	Label string
	Value string
}

// FromResult builds the report of a settled result
func FromResult[T any](r result.Result[T]) Report {
	if r.IsSuccess() {
		return Report{Success: true, Data: r.Data()}
	}

	err := r.Err()
	report := Report{Error: err.Error()}
	var settleErr *errors.SettleError
	if stderrors.As(err, &settleErr) {
		report.Code = string(settleErr.Code)
	}
	return report
}

// Status is the one word summary of the report
func (r *Report) Status() string {
	if r.Success {
		return "succeeded"
	}
	return "failed"
}

// Fields returns the populated report lines in display order
func (r *Report) Fields() []Field {
	var fields []Field
	if r.RunID != "" {
		fields = append(fields, Field{Label: "run", Value: r.RunID})
	}
	if r.Attempts > 0 {
		fields = append(fields, Field{Label: "attempts", Value: fmt.Sprintf("%d", r.Attempts)})
	}
	if r.Elapsed > 0 {
		fields = append(fields, Field{Label: "elapsed", Value: r.Elapsed.Round(time.Millisecond).String()})
	}
	if r.Success && r.Data != nil {
		fields = append(fields, Field{Label: "data", Value: fmt.Sprintf("%v", r.Data)})
	}
	if r.Code != "" {
		fields = append(fields, Field{Label: "code", Value: r.Code})
	}
	if r.Error != "" {
		fields = append(fields, Field{Label: "error", Value: r.Error})
	}
	return fields
}
