package handler

import (
	"net/http"

	"clinic/internal/blogs/service"
	"clinic/pkg/auth"
	httputil "clinic/pkg/http"
	"clinic/pkg/logger"
	"clinic/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BlogHandler struct {
	service service.BlogService
	guard   *auth.Guard
	log     *logger.Logger
}

func NewBlogHandler(service service.BlogService, guard *auth.Guard, log *logger.Logger) *BlogHandler {
	return &BlogHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var blog model.Blog
	if err := httputil.DecodeJSON(r, &blog); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := h.service.Create(r.Context(), &blog); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, blog); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BlogHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	blog, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, blog); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BlogHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	blogs, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, blogs, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.BlogUpdate
	if err := httputil.DecodeJSON(r, &updates); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	blog, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, blog); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BlogHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BlogHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/blogs", h.GetAll)
	router.POST("/api/v1/blogs", h.guard.RequireAdmin(h.Create))
	router.GET("/api/v1/blogs/id/:id", h.GetByID)
	router.PATCH("/api/v1/blogs/id/:id", h.guard.RequireAdmin(h.Update))
	router.DELETE("/api/v1/blogs/id/:id", h.guard.RequireAdmin(h.Delete))
}
