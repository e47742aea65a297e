package watchx

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Wid is the unique id of one watch execution. Its value embeds the watch
// id, a random component, and the execution timestamp, so concurrent
// executions of the same watch stay distinguishable.
type Wid struct {
	watchID string
	value   string
}

// NewWid creates an execution id for the given watch at the given time.
func NewWid(watchID string, at time.Time) Wid {
	return Wid{
		watchID: watchID,
		value:   fmt.Sprintf("%s_%s-%d", watchID, uuid.NewString(), at.UTC().UnixMilli()),
	}
}

// WatchID returns the owning watch id.
func (w Wid) WatchID() string {
	return w.watchID
}

// Value returns the full execution id string.
func (w Wid) Value() string {
	return w.value
}

// String implements fmt.Stringer.
func (w Wid) String() string {
	return w.value
}
