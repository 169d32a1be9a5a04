package handler

import (
	"bytes"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskflow/api/transport"
	"github.com/fastygo/taskflow/pkg/httpcontext"
	authUC "github.com/fastygo/taskflow/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc *authUC.UseCase
}

func NewAuthHandler(uc *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Register a new account
// @Tags auth
// @Router /api/register [post]
func (h *AuthHandler) Register(ctx *fasthttp.RequestCtx) {
	var req transport.RegisterRequest
	if err := transport.Decode(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.Register(stdCtx, authUC.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, user)
}

// @Summary Exchange credentials for a bearer token
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Success 200 {object} authUC.LoginResult
// @Router /api/login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	req, err := h.loginRequest(ctx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.Login(stdCtx, req.Identifier(), req.Password)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	// OAuth2 token responses carry access_token at the top level.
	h.respondRaw(ctx, http.StatusOK, result)
}

// loginRequest reads a JSON body or an OAuth2-style form.
func (h *AuthHandler) loginRequest(ctx *fasthttp.RequestCtx) (*transport.LoginRequest, error) {
	var req transport.LoginRequest
	if bytes.HasPrefix(ctx.Request.Header.ContentType(), []byte("application/x-www-form-urlencoded")) {
		args := ctx.PostArgs()
		req.Username = string(args.Peek("username"))
		req.Email = string(args.Peek("email"))
		req.Password = string(args.Peek("password"))
		return &req, req.Validate()
	}
	if err := transport.Decode(ctx.PostBody(), &req); err != nil {
		return nil, err
	}
	return &req, nil
}
