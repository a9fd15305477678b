package api

import (
	"log/slog"
	"net/http"
	"time"

	"algojudge/internal/api/handler"
	"algojudge/internal/api/middleware"
	"algojudge/internal/app/service"
	"algojudge/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	jwtManager *security.JWTManager,
	authenticator *middleware.Authenticator,
	authService *service.AuthService,
	problemService *service.ProblemService,
	submissionService *service.SubmissionService,
) http.Handler {
	r := chi.NewRouter()

	logger := httplog.NewLogger("algojudge", httplog.Options{
		LogLevel: slog.LevelInfo,
		Concise:  true,
	})

	// Base middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Verifies the bearer token when present and puts claims in context;
	// the Authenticator middleware enforces the rest per route group.
	// Header-only on purpose: the revocation check reads the same source,
	// so a token the verifier accepts is always the one checked against
	// the denylist.
	r.Use(jwtauth.Verify(jwtManager.TokenAuth(), jwtauth.TokenFromHeader))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handler.NewAuthHandler(authService)
	r.Route("/user", func(userRouter chi.Router) {
		authHandler.RegisterRoutes(userRouter, authenticator)
	})

	problemHandler := handler.NewProblemHandler(problemService)
	r.Route("/problem", func(problemRouter chi.Router) {
		problemHandler.RegisterRoutes(problemRouter, authenticator)
	})

	submissionHandler := handler.NewSubmissionHandler(submissionService)
	r.Route("/submission", func(submissionRouter chi.Router) {
		submissionHandler.RegisterRoutes(submissionRouter, authenticator)
	})

	return r
}
