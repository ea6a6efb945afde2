package middleware

import (
	"encoding/json"
	"mime"
	"net/http"
	"runtime/debug"
	"time"

	"go.uber.org/zap"
)

type Middleware func(http.Handler) http.Handler

// Chain applies mws so that the first one is the outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func ReqLogger(log *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			log.Info("HTTP запрос обработан",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("elapsed", time.Since(start)),
			)
		})
	}
}

// JSONValidator rejects POST bodies to JSON endpoints sent with another media type.
// An empty body is allowed: POST /scan without options uses the server config.
func JSONValidator() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost && jsonEndpoints[r.URL.Path] && r.ContentLength != 0 {
				mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
				if err != nil || mediaType != "application/json" {
					writeError(w, http.StatusUnsupportedMediaType, "Неверный Content-Type, ожидается application/json")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

var jsonEndpoints = map[string]bool{
	"/scan": true,
}

func Recovery(log *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("Паника в обработчике запроса",
						zap.Any("panic", rec),
						zap.ByteString("stack", debug.Stack()),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
					)
					writeError(w, http.StatusInternalServerError, "Внутренняя ошибка сервера")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
