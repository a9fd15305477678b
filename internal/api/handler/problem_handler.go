package handler

import (
	"net/http"

	"algojudge/internal/api/middleware"
	"algojudge/internal/app/service"
	"algojudge/internal/common"

	"github.com/go-chi/chi/v5"
)

type ProblemHandler struct {
	problemService *service.ProblemService
}

func NewProblemHandler(ps *service.ProblemService) *ProblemHandler {
	return &ProblemHandler{problemService: ps}
}

func (h *ProblemHandler) RegisterRoutes(r chi.Router, auth *middleware.Authenticator) {
	r.Group(func(protected chi.Router) {
		protected.Use(auth.Handler)
		protected.Get("/solved", h.listSolved)
	})
}

func (h *ProblemHandler) listSolved(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	ids, err := h.problemService.ListSolvedProblems(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, ids)
}
