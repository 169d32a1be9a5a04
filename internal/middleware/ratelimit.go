package middleware

import (
	"context"
	"net/http"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/pkg/httpcontext"
)

// Limiter decides whether another attempt is allowed for key within scope.
type Limiter interface {
	Allow(ctx context.Context, scope, key string) error
}

// RateLimit throttles a route per client IP.
func RateLimit(limiter Limiter, scope string, adapter *httpcontext.Adapter) Middleware {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		if limiter == nil {
			return next
		}
		return func(ctx *fasthttp.RequestCtx) {
			stdCtx, cancel := attach(ctx, adapter)
			err := limiter.Allow(stdCtx, scope, httpcontext.ClientIP(ctx))
			cancel()
			if err != nil {
				if domain.IsDomainError(err, domain.ErrCodeTooManyRequests) {
					writeError(ctx, http.StatusTooManyRequests, err)
					return
				}
				writeError(ctx, http.StatusInternalServerError, err)
				return
			}
			next(ctx)
		}
	}
}
