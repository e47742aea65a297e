// Package historyx records the outcome of each action execution for a
// watch's run history.
package historyx

import (
	"context"
	"time"

	"github.com/dmichel1/vigil/pkg/actionx"
	"github.com/dmichel1/vigil/pkg/watchx"
)

// Record is one execution outcome. Created once per execution, immutable.
type Record struct {
	ID          string    `json:"id"`
	WatchID     string    `json:"watch_id"`
	ActionID    string    `json:"action_id"`
	ExecutionID string    `json:"execution_id"`
	ExecutedAt  time.Time `json:"executed_at"`
	Success     bool      `json:"success"`
	Account     string    `json:"account,omitempty"`
	EmailID     string    `json:"email_id,omitempty"`
	Subject     string    `json:"subject,omitempty"`
	Reason      string    `json:"reason,omitempty"`
}

// NewRecord builds a record from one execution result.
func NewRecord(actionID string, ectx *watchx.ExecutionContext, result actionx.Result) Record {
	record := Record{
		WatchID:     ectx.WatchID,
		ActionID:    actionID,
		ExecutionID: ectx.Wid.Value(),
		ExecutedAt:  ectx.ExecutionTime,
		Success:     result.OK(),
	}
	switch r := result.(type) {
	case actionx.Success:
		record.Account = r.Account
		record.EmailID = r.Email.ID
		if r.Email.Subject != nil {
			record.Subject = *r.Email.Subject
		}
	case actionx.Failure:
		record.Reason = r.Reason
	}
	return record
}

// Store persists execution records.
type Store interface {
	Record(ctx context.Context, record Record) (string, error)
	List(ctx context.Context, watchID string, limit int) ([]Record, error)
}
