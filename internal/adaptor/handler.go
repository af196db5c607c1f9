package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"movie-review/internal/authz"
	"movie-review/internal/query"
	"movie-review/internal/usecase"
	"movie-review/pkg/apperr"
	"movie-review/pkg/metrics"
	"movie-review/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Auth   *AuthHandler
	User   *UserHandler
	Movie  *MovieHandler
	Review *ReviewHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:   NewAuthHandler(service.Auth, log),
		User:   NewUserHandler(service.User, log),
		Movie:  NewMovieHandler(service.Movie, log),
		Review: NewReviewHandler(service.Review, log),
	}
}

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// gate is the principal-level policy check every handler runs first. On deny
// it writes the response and returns false.
func gate(w http.ResponseWriter, r *http.Request, action authz.Action) (*authz.Principal, bool) {
	p := authz.PrincipalFrom(r.Context())
	d := authz.Authorize(p, action, nil)
	if !d.Allowed {
		metrics.RecordDenial(string(action), d.Reason.String())
		utils.ResponseError(w, d.Err())
		return nil, false
	}
	return p, true
}

// decodeJSON reads the body into dst, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		msg := "invalid request body"
		if errors.Is(err, io.EOF) {
			msg = "request body is required"
		}
		utils.ResponseBadRequest(w, msg, nil)
		return false
	}
	return true
}

// pathID parses a positive integer URL parameter. Ids that cannot exist are
// reported as not found.
func pathID(w http.ResponseWriter, r *http.Request, name, resource string) (int64, bool) {
	id, ok := utils.ParseID(chi.URLParam(r, name))
	if !ok {
		utils.ResponseNotFound(w, resource+" not found")
		return 0, false
	}
	return id, true
}

// listQuery validates the query string for a listing of kind.
func listQuery(w http.ResponseWriter, r *http.Request, kind query.EntityKind) (*query.ValidatedQuery, bool) {
	q, err := query.Build(query.FromValues(r.URL.Query()), kind)
	if err != nil {
		utils.ResponseError(w, err)
		return nil, false
	}
	return q, true
}

// handleServiceError logs internal failures and writes the classified response.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	switch apperr.KindOf(err) {
	case apperr.KindInternal:
		log.Error("Service error", zap.String("operation", operation), zap.Error(err))
	case apperr.KindForbidden, apperr.KindUnauthenticated:
		log.Warn("Request denied", zap.String("operation", operation), zap.Error(err))
	default:
		log.Debug("Request rejected", zap.String("operation", operation), zap.Error(err))
	}
	utils.ResponseError(w, err)
}

func clientInfo(r *http.Request) usecase.ClientInfo {
	return usecase.ClientInfo{
		UserAgent: r.UserAgent(),
		IPAddress: r.RemoteAddr,
	}
}
