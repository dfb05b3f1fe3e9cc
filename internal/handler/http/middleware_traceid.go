package http

import (
	"net/http"

	"github.com/google/uuid"
)

const traceIDHeader = "X-Trace-ID"

// withTraceID stamps every request with a trace identifier: the caller's
// X-Trace-ID value when supplied, a fresh UUID otherwise. The identifier is
// echoed in the response header and attached to the request-scoped logger,
// so every log line of one admin call can be correlated — including the
// session manager's own lines when a handler triggers a connect.
func (h *Handler) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		l := h.logger.With().Str("trace_id", traceID).Logger()
		w.Header().Set(traceIDHeader, traceID)

		next.ServeHTTP(w, r.WithContext(l.WithContext(r.Context())))
	})
}
