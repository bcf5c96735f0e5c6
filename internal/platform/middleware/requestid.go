package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"campusconnect/pkg/requestcontext"
)

// RequestID assigns each request a UUID (honoring an inbound X-Request-ID),
// pins the request time, and echoes the ID on the response so clients can
// correlate logs.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		ctx := requestcontext.WithRequestID(r.Context(), reqID)
		ctx = requestcontext.WithTime(ctx, time.Now())
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
