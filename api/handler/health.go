package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskflow/internal/infrastructure/monitor"
	"github.com/fastygo/taskflow/pkg/httpcontext"
)

type HealthHandler struct {
	baseHandler
	monitor *monitor.Monitor
	name    string
	version string
}

func NewHealthHandler(mon *monitor.Monitor, name, version string, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
		name:        name,
		version:     version,
	}
}

type healthResponse struct {
	Status   string          `json:"status"`
	Services *monitor.Status `json:"services,omitempty"`
}

// @Summary API banner
// @Tags health
// @Router / [get]
func (h *HealthHandler) Root(ctx *fasthttp.RequestCtx) {
	h.respondRaw(ctx, http.StatusOK, map[string]string{
		"message": h.name,
		"version": h.version,
	})
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	if h.monitor == nil {
		h.respondRaw(ctx, http.StatusOK, healthResponse{Status: "healthy"})
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	status := h.monitor.Check(stdCtx)
	if status.Healthy() {
		h.respondRaw(ctx, http.StatusOK, healthResponse{Status: "healthy", Services: &status})
		return
	}
	h.respondRaw(ctx, http.StatusServiceUnavailable, healthResponse{Status: "unhealthy", Services: &status})
}
