package handler

import (
	"encoding/json"
	"net/http"

	"algojudge/internal/api/middleware"
	"algojudge/internal/app/service"
	"algojudge/internal/common"

	"github.com/go-chi/chi/v5"
)

type SubmissionHandler struct {
	submissionService *service.SubmissionService
}

func NewSubmissionHandler(ss *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: ss}
}

func (h *SubmissionHandler) RegisterRoutes(r chi.Router, auth *middleware.Authenticator) {
	r.Use(auth.Handler) // All submission routes require auth
	r.Post("/run/{problemID}", h.runCode)
	r.Post("/submit/{problemID}", h.submitCode)
	r.Get("/history/{problemID}", h.history)
}

func (h *SubmissionHandler) decodeEvaluateRequest(w http.ResponseWriter, r *http.Request) (string, service.EvaluateRequest, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return "", service.EvaluateRequest{}, false
	}
	var req service.EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return "", service.EvaluateRequest{}, false
	}
	return userID, req, true
}

func (h *SubmissionHandler) submitCode(w http.ResponseWriter, r *http.Request) {
	userID, req, ok := h.decodeEvaluateRequest(w, r)
	if !ok {
		return
	}
	problemID := chi.URLParam(r, "problemID")

	submission, err := h.submissionService.Submit(r.Context(), userID, problemID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, submission)
}

func (h *SubmissionHandler) runCode(w http.ResponseWriter, r *http.Request) {
	userID, req, ok := h.decodeEvaluateRequest(w, r)
	if !ok {
		return
	}
	problemID := chi.URLParam(r, "problemID")

	results, err := h.submissionService.Run(r.Context(), userID, problemID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, results)
}

func (h *SubmissionHandler) history(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	problemID := chi.URLParam(r, "problemID")

	subs, err := h.submissionService.History(r.Context(), userID, problemID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, subs)
}
