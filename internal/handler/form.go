package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/formdrop/formdrop/internal/handler/dto"
	"github.com/formdrop/formdrop/internal/middleware"
	"github.com/formdrop/formdrop/internal/service"
	"github.com/formdrop/formdrop/internal/validation"
	"github.com/formdrop/formdrop/internal/view"
)

// User-facing messages rendered into the form.
const (
	MsgSuccess         = "Thank you! Your submission has been received."
	MsgEmailRegistered = "This email is already registered."
	MsgTryAgain        = "Something went wrong. Please try again."
	MsgInvalidBody     = "Invalid request body"
)

// maxMultipartMemory bounds in-memory parsing of multipart bodies.
const maxMultipartMemory = 1 << 20

// FormHandler serves the submission form.
type FormHandler struct {
	svc       *service.UserService
	validator *validation.Validator
	view      *view.Renderer
	logger    *slog.Logger
}

// NewFormHandler creates a new FormHandler.
func NewFormHandler(svc *service.UserService, v *validation.Validator, renderer *view.Renderer, logger *slog.Logger) *FormHandler {
	return &FormHandler{
		svc:       svc,
		validator: v,
		view:      renderer,
		logger:    logger,
	}
}

// Show handles GET /.
func (h *FormHandler) Show(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, view.Data{})
}

// Submit handles POST /submit.
func (h *FormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	in, err := decodeSubmission(r)
	if err != nil {
		h.logger.Warn("submission_rejected",
			"reason", "invalid_body",
			"request_id", middleware.GetRequestID(r.Context()),
		)
		h.render(w, r, http.StatusBadRequest, view.Data{Errors: []string{MsgInvalidBody}})
		return
	}

	res := h.validator.Validate(in)
	values := valuesOf(res.Submission)

	if !res.Valid() {
		h.svc.RecordInvalid()
		h.logger.Info("submission_rejected",
			"reason", "validation",
			"error_count", len(res.Errors),
			"request_id", middleware.GetRequestID(r.Context()),
		)
		h.render(w, r, http.StatusUnprocessableEntity, view.Data{Errors: res.Errors, Values: values})
		return
	}

	if _, err := h.svc.Register(r.Context(), res.Submission); err != nil {
		msg := MsgTryAgain
		if errors.Is(err, service.ErrEmailRegistered) {
			msg = MsgEmailRegistered
			h.logger.Warn("submission_failed",
				"reason", "email_registered",
				"request_id", middleware.GetRequestID(r.Context()),
			)
		} else {
			h.logger.Error("submission_failed",
				"reason", "storage",
				"error", err,
				"request_id", middleware.GetRequestID(r.Context()),
			)
		}
		h.render(w, r, http.StatusInternalServerError, view.Data{Errors: []string{msg}, Values: values})
		return
	}

	h.render(w, r, http.StatusOK, view.Data{Success: MsgSuccess})
}

func (h *FormHandler) render(w http.ResponseWriter, r *http.Request, status int, data view.Data) {
	if err := h.view.Render(w, status, data); err != nil {
		h.logger.Error("render_failed",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
	}
}

// decodeSubmission reads a JSON, multipart or urlencoded body.
func decodeSubmission(r *http.Request) (validation.Input, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/json":
		var req dto.SubmitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return validation.Input{}, err
		}
		return validation.Input{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Message:  req.Message,
		}, nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return validation.Input{}, err
		}
	default:
		if err := r.ParseForm(); err != nil {
			return validation.Input{}, err
		}
	}

	return validation.Input{
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		Message:  r.PostFormValue("message"),
	}, nil
}

// valuesOf returns the fields echoed back into the form. Never the password.
func valuesOf(sub validation.Submission) view.Values {
	v := view.Values{Name: sub.Name, Email: sub.Email}
	if sub.Message != nil {
		v.Message = *sub.Message
	}
	return v
}
