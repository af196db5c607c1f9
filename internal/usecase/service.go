package usecase

import (
	"movie-review/internal/authz"
	"movie-review/internal/data/repository"
	"movie-review/pkg/apperr"
	"movie-review/pkg/metrics"
	"movie-review/pkg/token"
	"movie-review/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth   AuthService
	User   UserService
	Movie  MovieService
	Review ReviewService
}

func NewService(repo *repository.Repository, tokens *token.Manager, log *zap.Logger) *Service {
	return &Service{
		Auth:   NewAuthService(repo, tokens, log),
		User:   NewUserService(repo, log),
		Movie:  NewMovieService(repo, log),
		Review: NewReviewService(repo, log),
	}
}

// authorize runs the ownership half of a policy check once the resource has
// been loaded, counting denials the same way the handler gate does.
func authorize(p *authz.Principal, action authz.Action, ownerID int64) error {
	d := authz.Authorize(p, action, &authz.Resource{OwnerID: ownerID})
	if !d.Allowed {
		metrics.RecordDenial(string(action), d.Reason.String())
	}
	return d.Err()
}

// validate runs the struct tags on req and reports every failing field.
func validate(log *zap.Logger, op string, req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		log.Debug(op+" validation failed", zap.Any("errors", errs))
		return apperr.ValidationFields("validation failed", errs)
	}
	return nil
}
