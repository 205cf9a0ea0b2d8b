package models

import (
	"fmt"
	"strings"
	"time"
)

// Outcome records the result of a single batch operation.
//
// Operations are independent and non-transactional: a failed operation is
// recorded and the batch continues, so a run's report is the full list of
// outcomes in declaration order. Successful outcomes carry the produced
// output path(s); failed outcomes carry the error.
//
// Use NewOutcomeSuccess or NewOutcomeFailure to build consistent instances.
type Outcome struct {
	ID        string        `json:"id"`
	Operation string        `json:"operation"`
	Index     int           `json:"index"`
	Outputs   []string      `json:"outputs,omitempty"`
	Elapsed   time.Duration `json:"elapsed"`
	Err       error         `json:"-"`
}

// NewOutcomeSuccess builds a successful outcome for the operation at the
// given declaration index.
func NewOutcomeSuccess(id, operation string, index int, outputs []string, elapsed time.Duration) (*Outcome, error) {
	oc := &Outcome{
		ID:        id,
		Operation: operation,
		Index:     index,
		Outputs:   outputs,
		Elapsed:   elapsed,
	}
	if err := oc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid outcome: %w", err)
	}
	return oc, nil
}

// NewOutcomeFailure builds a failed outcome. opErr must not be nil.
func NewOutcomeFailure(id, operation string, index int, opErr error, elapsed time.Duration) (*Outcome, error) {
	if opErr == nil {
		return nil, fmt.Errorf("invalid outcome: error cannot be nil for a failure")
	}
	return &Outcome{
		ID:        id,
		Operation: operation,
		Index:     index,
		Elapsed:   elapsed,
		Err:       opErr,
	}, nil
}

// Success reports whether the operation completed.
func (oc *Outcome) Success() bool {
	return oc.Err == nil
}

// Validate checks the outcome for consistent state: successes must name at
// least one output, failures must carry an error and no outputs.
func (oc *Outcome) Validate() error {
	if strings.TrimSpace(oc.Operation) == "" {
		return fmt.Errorf("operation name cannot be empty")
	}
	if oc.Err == nil && len(oc.Outputs) == 0 {
		return fmt.Errorf("successful outcome must record at least one output")
	}
	if oc.Err != nil && len(oc.Outputs) > 0 {
		return fmt.Errorf("failed outcome should not record outputs")
	}
	return nil
}
