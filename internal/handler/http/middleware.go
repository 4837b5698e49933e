package http

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/logger"
)

// SessionIDHeader carries the opaque client session id in both directions.
const SessionIDHeader = "X-Session-ID"

const maxSessionIDLen = 128

// Session reads the X-Session-ID header, issuing a fresh id when it is absent
// or unusable. The id is echoed in the response and stored in the request
// context for handlers and the request logger.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := strings.TrimSpace(r.Header.Get(SessionIDHeader))
		if sid == "" || len(sid) > maxSessionIDLen {
			sid = uuid.New().String()
		}
		w.Header().Set(SessionIDHeader, sid)
		next.ServeHTTP(w, r.WithContext(logger.WithSessionID(r.Context(), sid)))
	})
}

func sessionID(r *http.Request) string {
	return logger.SessionIDFromContext(r.Context())
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
					Error: &httputil.ErrorResponse{
						Code:    "UNSUPPORTED_MEDIA_TYPE",
						Message: "Content-Type must be application/json",
					},
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
