package watchx

import "github.com/dmichel1/vigil/pkg/templatex"

// Model builds the rendering model for one execution. The shape is fixed:
//
//	{"ctx": {"watch_id", "payload", "metadata", "execution_time",
//	         "trigger": {"triggered_time", "scheduled_time"}}}
//
// Every templated field of an action renders against the identical model
// snapshot. The payload argument takes precedence over the context's own
// payload so callers can transform it between trigger and action.
func Model(ctx *ExecutionContext, payload Payload) templatex.Model {
	if payload == nil {
		payload = ctx.Payload
	}
	return templatex.Model{
		"ctx": map[string]interface{}{
			"watch_id":       ctx.WatchID,
			"payload":        map[string]interface{}(payload),
			"metadata":       ctx.Metadata,
			"execution_time": ctx.ExecutionTime,
			"trigger": map[string]interface{}{
				"triggered_time": ctx.TriggeredTime,
				"scheduled_time": ctx.ScheduledTime,
			},
		},
	}
}
