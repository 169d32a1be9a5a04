package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskflow/api/transport"
	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/pkg/httpcontext"
)

// Middleware wraps a fasthttp handler.
type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

// Authenticator resolves a bearer token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// JWTAuth rejects requests without a valid bearer token and records the
// authenticated user id on the request.
func JWTAuth(auth Authenticator, adapter *httpcontext.Adapter, logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString := extractToken(ctx)
			if tokenString == "" {
				writeError(ctx, http.StatusUnauthorized, domain.ErrUnauthorized)
				return
			}

			stdCtx, cancel := attach(ctx, adapter)
			user, err := auth.Authenticate(stdCtx, tokenString)
			cancel()
			if err != nil {
				if domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
					logger.Debug("rejected bearer token",
						zap.String("request_id", httpcontext.RequestID(ctx)),
						zap.Error(err),
					)
					writeError(ctx, http.StatusUnauthorized, domain.ErrInvalidToken)
					return
				}
				logger.Error("authentication failed",
					zap.String("request_id", httpcontext.RequestID(ctx)),
					zap.Error(err),
				)
				writeError(ctx, http.StatusInternalServerError, domain.NewError(domain.ErrCodeInternal, "internal server error"))
				return
			}

			httpcontext.SetUserID(ctx, user.ID)
			next(ctx)
		}
	}
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := strings.TrimSpace(string(ctx.Request.Header.Peek("Authorization")))
	if header == "" {
		return ""
	}
	scheme, value, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(value)
}

func attach(ctx *fasthttp.RequestCtx, adapter *httpcontext.Adapter) (context.Context, context.CancelFunc) {
	if adapter != nil {
		return adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func writeError(ctx *fasthttp.RequestCtx, status int, err error) {
	code, message := string(domain.ErrCodeInternal), "internal server error"
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		code, message = string(dErr.Code), dErr.Message
	}
	body, _ := json.Marshal(transport.NewError(code, message, nil))
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}
