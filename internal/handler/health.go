package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/lib/logger/sl"
)

// PingFunc 检查一个外部依赖是否可用
type PingFunc func(ctx context.Context) error

const healthCheckTimeout = 2 * time.Second

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (h *Handler) AddHealthCheck(name string, check PingFunc) {
	h.healthChecks[name] = check
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status: "ok",
		Checks: make(map[string]string, len(h.healthChecks)),
	}
	status := http.StatusOK

	for name, check := range h.healthChecks {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		err := check(ctx)
		cancel()

		if err != nil {
			slog.Warn("健康检查失败", "check", name, sl.Err(err))
			resp.Checks[name] = "unavailable"
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logInternalServerError(r, err)
	}
}
