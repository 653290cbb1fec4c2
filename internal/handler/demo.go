package handler

import (
	"log/slog"
	"net/http"

	"github.com/boardmate/boardmate/internal/service"
)

// DemoHandler serves the factory-reset endpoint.
type DemoHandler struct {
	demo   *service.DemoService
	logger *slog.Logger
}

func NewDemoHandler(demo *service.DemoService, logger *slog.Logger) *DemoHandler {
	return &DemoHandler{demo: demo, logger: logger}
}

// HandleReset wipes all stores and the session slot.
//
// POST /api/demo/reset
func (h *DemoHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	if err := h.demo.Reset(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
