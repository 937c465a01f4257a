package myhttp

import (
	"net/http"
	"time"

	"github.com/floresvictoria/shopbackend/lib/mycontext"
	"github.com/floresvictoria/shopbackend/lib/mylog"
	"github.com/floresvictoria/shopbackend/lib/myuuid"
)

type responseRecorder struct {
	b      int
	status int
	w      http.ResponseWriter
}

func (r *responseRecorder) Header() http.Header { return r.w.Header() }

func (r *responseRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.w.Write(p)
	r.b += n
	return n, err
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.status = statusCode
	r.w.WriteHeader(statusCode)
}

// RequestLogger tags every request with a request id and logs its outcome.
func RequestLogger(logger mylog.Logger, uuider myuuid.UUIDer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-Id")
			if requestID == "" {
				requestID = uuider.Create()
			}
			w.Header().Set("X-Request-Id", requestID)

			r = r.WithContext(mycontext.WithRequestID(r.Context(), requestID))
			c := mycontext.ContextFromHTTPRequest(r)

			start := time.Now()
			rr := &responseRecorder{w: w}
			defer func() {
				logger.Log(c, "", mylog.SeverityInfo, "%s %s -> status:%d bytes:%d took:%dms",
					r.Method, r.URL.Path, rr.status, rr.b, time.Since(start).Milliseconds())
			}()

			next.ServeHTTP(rr, r)
		})
	}
}
