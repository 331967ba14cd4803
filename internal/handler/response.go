package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/lib/logger/sl"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/view"
)

func (h *Handler) logInternalServerError(r *http.Request, err error) {
	slog.Error("服务器内部错误", "method", r.Method, "path", r.URL.Path, sl.Err(err))
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, page view.Page) {
	if err := h.renderer.Render(w, status, name, page); err != nil {
		h.logInternalServerError(r, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logInternalServerError(r, err)
	h.render(w, r, http.StatusInternalServerError, view.Error, view.Page{
		Title:        "Error",
		ErrorMessage: "Internal server error, please try again later.",
	})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	h.render(w, r, http.StatusBadRequest, view.Error, view.Page{
		Title:        "Bad Request",
		ErrorMessage: err.Error(),
	})
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, view.NotFound, view.Page{
		Title:        "Not Found",
		ErrorMessage: "Page not found.",
	})
}

func (h *Handler) employeeNotFound(w http.ResponseWriter, r *http.Request, id int64) {
	h.render(w, r, http.StatusNotFound, view.NotFound, view.Page{
		Title:        "Not Found",
		ErrorMessage: fmt.Sprintf("Employee not found with id: %d", id),
	})
}

// redirectWithFlash 保存一次性提示信息后重定向，提示信息保存失败不影响重定向
func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, url string, message string) {
	if err := h.flash.Put(r.Context(), w, message); err != nil {
		slog.Warn("无法保存提示信息", "path", r.URL.Path, sl.Err(err))
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// takeFlash 必须在写出响应头之前调用
func (h *Handler) takeFlash(w http.ResponseWriter, r *http.Request) string {
	message, err := h.flash.Take(r.Context(), w, r)
	if err != nil {
		slog.Warn("无法读取提示信息", "path", r.URL.Path, sl.Err(err))
		return ""
	}
	return message
}
