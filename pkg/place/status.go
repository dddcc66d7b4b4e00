package place

import (
	"encoding/json"
	"fmt"
)

// State is the lifecycle state of a placement run.
type State string

const (
	StateInitialized State = "initialized"
	StateRunning     State = "running"
	StateSuccess     State = "success"
	StateFailed      State = "failed"
)

// IssueKind classifies a placement issue.
type IssueKind string

const (
	IssueWarning IssueKind = "warning"
	IssueError   IssueKind = "error"
)

// Issue is one problem encountered during a run. Issues are data, not
// control flow: the engine keeps going after warnings and finishes the
// current commit after errors.
type Issue struct {
	Kind    IssueKind `json:"kind"`
	Message string    `json:"message"`
}

// Status tracks the run state and the issues logged so far.
type Status struct {
	State  State   `json:"status"`
	Issues []Issue `json:"issues"`
}

// NewStatus returns a status in the initialized state.
func NewStatus() *Status {
	return &Status{State: StateInitialized, Issues: []Issue{}}
}

// LogIssue records an issue. Identical (kind, message) pairs are kept
// once no matter how often they are logged. An error-kind issue also
// moves the run to the failed state, which is terminal.
func (s *Status) LogIssue(kind IssueKind, message string) {
	for _, issue := range s.Issues {
		if issue.Kind == kind && issue.Message == message {
			return
		}
	}
	s.Issues = append(s.Issues, Issue{Kind: kind, Message: message})
	if kind == IssueError {
		s.State = StateFailed
	}
}

// markRunning moves initialized to running. Later states are kept.
func (s *Status) markRunning() {
	if s.State == StateInitialized {
		s.State = StateRunning
	}
}

// markSuccess moves the run to success unless it already failed.
func (s *Status) markSuccess() {
	if s.State != StateFailed {
		s.State = StateSuccess
	}
}

// Failed reports whether the run has hit an error.
func (s *Status) Failed() bool {
	return s.State == StateFailed
}

// DumpJSON serializes the status for CLI and service callers.
func (s *Status) DumpJSON() (string, error) {
	out, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("place: failed to serialize status: %w", err)
	}
	return string(out), nil
}
