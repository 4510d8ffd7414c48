package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// startedWriter tracks whether the wrapped handler already sent any bytes, so
// the recovery path knows whether a 500 response can still be written.
type startedWriter struct {
	http.ResponseWriter
	started bool
}

func (w *startedWriter) WriteHeader(code int) {
	w.started = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *startedWriter) Write(b []byte) (int, error) {
	w.started = true
	return w.ResponseWriter.Write(b)
}

func (w *startedWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Recovery converts handler panics into 500 responses. If the handler had
// already started writing, only the panic is logged; the partial response is
// left alone.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &startedWriter{ResponseWriter: w}

			defer func() {
				v := recover()
				if v == nil {
					return
				}
				logger.Error("panic recovered",
					"error", v,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				if !sw.started {
					writeAuthError(sw, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
				}
			}()

			next.ServeHTTP(sw, r)
		})
	}
}
