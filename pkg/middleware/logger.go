package middleware

import (
	"context"
	"net/http"
	"time"

	"movie-review/internal/authz"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Logger writes one access log line per request. The principal, when one
// was resolved, is included for auditing.
func Logger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			var principal string
			next.ServeHTTP(ww, r.WithContext(withPrincipalSink(r.Context(), &principal)))

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
			}
			if reqID := middleware.GetReqID(r.Context()); reqID != "" {
				fields = append(fields, zap.String("request_id", reqID))
			}
			if principal != "" {
				fields = append(fields, zap.String("principal", principal))
			}

			switch status := ww.Status(); {
			case status >= http.StatusInternalServerError:
				logger.Error("HTTP request", fields...)
			case status >= http.StatusBadRequest:
				logger.Warn("HTTP request", fields...)
			default:
				logger.Info("HTTP request", fields...)
			}
		})
	}
}

// principalSink lets Authenticate, which runs deeper in the chain, report
// the resolved principal back to the access log.
type principalSinkKey struct{}

func withPrincipalSink(ctx context.Context, dst *string) context.Context {
	return context.WithValue(ctx, principalSinkKey{}, dst)
}

func reportPrincipal(ctx context.Context, p authz.Principal) {
	if dst, ok := ctx.Value(principalSinkKey{}).(*string); ok {
		*dst = p.String()
	}
}
