package watchx

import "time"

// Payload is the data produced by the watch input/trigger for one execution.
type Payload map[string]interface{}

// ExecutionContext carries everything a single watch execution exposes to
// its actions. It is read-only once built.
type ExecutionContext struct {
	WatchID       string
	Wid           Wid
	Payload       Payload
	Metadata      map[string]interface{}
	ExecutionTime time.Time
	TriggeredTime time.Time
	ScheduledTime time.Time
}

// NewExecutionContext builds a context for a watch whose execution,
// triggered, and scheduled times coincide. Schedulers that fire late can
// set the times individually on the returned value.
func NewExecutionContext(watchID string, at time.Time, payload Payload, metadata map[string]interface{}) *ExecutionContext {
	return &ExecutionContext{
		WatchID:       watchID,
		Wid:           NewWid(watchID, at),
		Payload:       payload,
		Metadata:      metadata,
		ExecutionTime: at,
		TriggeredTime: at,
		ScheduledTime: at,
	}
}
