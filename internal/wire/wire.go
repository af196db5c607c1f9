package wire

import (
	"net/http"

	"movie-review/internal/adaptor"
	"movie-review/internal/data/repository"
	"movie-review/internal/usecase"
	"movie-review/pkg/metrics"
	"movie-review/pkg/middleware"
	"movie-review/pkg/token"
	"movie-review/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the assembled dependencies.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and the router on top of repo.
func Wiring(repo *repository.Repository, tokens *token.Manager, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, tokens, logger)
	handler := adaptor.NewHandler(service, logger)

	return &App{
		Router:  setupRouter(handler, repo, tokens, config, logger),
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	tokens *token.Manager,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware. Authenticate only resolves the principal; each
	// handler runs the policy check for its own action.
	r.Use(chimw.RequestID)
	r.Use(chimw.StripSlashes)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.CORS.AllowedOrigins))
	r.Use(metrics.InstrumentHandler)
	r.Use(middleware.Authenticate(tokens, repo.User, logger))

	wireAuth(r, handler.Auth)
	wireUser(r, handler.User)
	wireMovie(r, handler.Movie)
	wireReview(r, handler.Review)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseNotFound(w, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseJSON(w, http.StatusMethodNotAllowed, utils.ErrorResponse{Error: "method not allowed"})
	})

	return r
}
