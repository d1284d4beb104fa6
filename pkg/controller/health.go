package controller

import (
	"net/http"
	"time"

	"github.com/go-faster/jx"
)

// HealthStatus describes the most recent invocation.
type HealthStatus struct {
	// Healthy is false when the last invocation failed.
	Healthy bool
	// InvocationID identifies the last invocation. Empty before the first one
	// finishes.
	InvocationID string
	// FinishedAt is when the last invocation finished.
	FinishedAt time.Time
	// Error is the failure of the last invocation, if any.
	Error string
}

// Health returns a handler reporting probe's status as JSON. It answers 503
// when the status is unhealthy.
func Health(probe func() HealthStatus) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		st := probe()

		var e jx.Encoder
		e.ObjStart()
		e.FieldStart("healthy")
		e.Bool(st.Healthy)
		if st.InvocationID != "" {
			e.FieldStart("invocationId")
			e.Str(st.InvocationID)
			e.FieldStart("finishedAt")
			e.Str(st.FinishedAt.UTC().Format(time.RFC3339))
		}
		if st.Error != "" {
			e.FieldStart("error")
			e.Str(st.Error)
		}
		e.ObjEnd()

		w.Header().Set("Content-Type", "application/json")
		if !st.Healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_, _ = w.Write(e.Bytes())
	})
}
