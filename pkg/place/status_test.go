package place

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusLifecycle(t *testing.T) {
	s := NewStatus()
	assert.Equal(t, StateInitialized, s.State)

	s.markRunning()
	assert.Equal(t, StateRunning, s.State)

	s.markSuccess()
	assert.Equal(t, StateSuccess, s.State)
}

func TestStatusFailedIsSticky(t *testing.T) {
	s := NewStatus()
	s.markRunning()
	s.LogIssue(IssueError, "boom")
	assert.Equal(t, StateFailed, s.State)
	assert.True(t, s.Failed())

	s.markSuccess()
	assert.Equal(t, StateFailed, s.State, "failed must not be overwritten")
}

func TestStatusWarningsDoNotFail(t *testing.T) {
	s := NewStatus()
	s.markRunning()
	s.LogIssue(IssueWarning, "suspicious")
	assert.Equal(t, StateRunning, s.State)
}

func TestStatusDeduplicatesIssues(t *testing.T) {
	s := NewStatus()
	s.LogIssue(IssueWarning, "same thing")
	s.LogIssue(IssueWarning, "same thing")
	s.LogIssue(IssueError, "same thing") // different kind, kept
	s.LogIssue(IssueWarning, "other thing")

	assert.Len(t, s.Issues, 3)
}

func TestStatusDumpJSON(t *testing.T) {
	s := NewStatus()
	s.markRunning()
	s.LogIssue(IssueWarning, "heads up")

	out, err := s.DumpJSON()
	require.NoError(t, err)

	var decoded struct {
		Status string `json:"status"`
		Issues []struct {
			Kind    string `json:"kind"`
			Message string `json:"message"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "running", decoded.Status)
	require.Len(t, decoded.Issues, 1)
	assert.Equal(t, "warning", decoded.Issues[0].Kind)
	assert.Equal(t, "heads up", decoded.Issues[0].Message)
}

func TestStatusEmptyIssuesSerializeAsArray(t *testing.T) {
	out, err := NewStatus().DumpJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"initialized","issues":[]}`, out)
}
