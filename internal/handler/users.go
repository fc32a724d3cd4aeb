package handler

import (
	"log/slog"
	"net/http"

	"github.com/formdrop/formdrop/internal/handler/dto"
	"github.com/formdrop/formdrop/internal/middleware"
	"github.com/formdrop/formdrop/internal/service"
)

// UserHandler serves the unauthenticated debug listing.
type UserHandler struct {
	svc    *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("list_users_failed",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to fetch users"})
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserResponses(users))
}
