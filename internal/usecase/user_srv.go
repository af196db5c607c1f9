package usecase

import (
	"context"
	"errors"
	"net/url"

	"movie-review/internal/authz"
	"movie-review/internal/data/entity"
	"movie-review/internal/data/repository"
	"movie-review/internal/dto/request"
	"movie-review/internal/dto/response"
	"movie-review/internal/query"
	"movie-review/pkg/apperr"
	"movie-review/pkg/utils"

	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, p *authz.Principal) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, p *authz.Principal, req *request.UpdateProfileRequest) (*response.UserResponse, error)
	DeleteProfile(ctx context.Context, p *authz.Principal) error

	// Admin
	GetAllUsers(ctx context.Context, q *query.ValidatedQuery, reqURL *url.URL) (*response.PaginatedResponse[response.UserResponse], error)
	DeleteUser(ctx context.Context, userID int64) error
	CreateUser(ctx context.Context, req *request.CreateUserRequest) (*response.UserResponse, error)
}

type userService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewUserService(repo *repository.Repository, log *zap.Logger) UserService {
	return &userService{
		repo: repo,
		log:  log.With(zap.String("service", "user")),
	}
}

// ownProfile loads the principal's record and checks it against action.
func (us *userService) ownProfile(ctx context.Context, p *authz.Principal, action authz.Action) (*entity.User, error) {
	if p == nil {
		return nil, authz.Require(nil, action, nil)
	}

	user, err := us.repo.User.FindByID(ctx, p.ID)
	if err != nil {
		us.log.Error("Failed to find user", zap.Error(err), zap.Int64("user_id", p.ID))
		return nil, apperr.Internal(err)
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}

	if err := authorize(p, action, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

func (us *userService) GetProfile(ctx context.Context, p *authz.Principal) (*response.UserResponse, error) {
	user, err := us.ownProfile(ctx, p, authz.ActionReadProfile)
	if err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) UpdateProfile(ctx context.Context, p *authz.Principal, req *request.UpdateProfileRequest) (*response.UserResponse, error) {
	user, err := us.ownProfile(ctx, p, authz.ActionUpdateProfile)
	if err != nil {
		return nil, err
	}

	if err := validate(us.log, "Update profile", req); err != nil {
		return nil, err
	}

	passwordChanged := false
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Password != nil {
		hashed, err := utils.HashPassword(*req.Password)
		if err != nil {
			us.log.Error("Failed to hash password", zap.Error(err))
			return nil, apperr.Internal(err)
		}
		user.PasswordHash = hashed
		passwordChanged = true
	}

	if err := us.repo.User.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		us.log.Error("Failed to update user", zap.Error(err), zap.Int64("user_id", user.ID))
		return nil, apperr.Internal(err)
	}

	// Old refresh tokens must not outlive a password change.
	if passwordChanged {
		if err := us.repo.Session.RevokeAllUserSessions(ctx, user.ID); err != nil {
			us.log.Error("Failed to revoke sessions", zap.Error(err), zap.Int64("user_id", user.ID))
			return nil, apperr.Internal(err)
		}
	}

	us.log.Info("Profile updated", zap.Int64("user_id", user.ID), zap.Bool("password_changed", passwordChanged))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) DeleteProfile(ctx context.Context, p *authz.Principal) error {
	user, err := us.ownProfile(ctx, p, authz.ActionDeleteProfile)
	if err != nil {
		return err
	}
	return us.DeleteUser(ctx, user.ID)
}

func (us *userService) GetAllUsers(ctx context.Context, q *query.ValidatedQuery, reqURL *url.URL) (*response.PaginatedResponse[response.UserResponse], error) {
	users, total, err := us.repo.User.List(ctx, q)
	if err != nil {
		us.log.Error("Failed to list users", zap.Error(err))
		return nil, apperr.Internal(err)
	}

	return response.NewPaginatedResponse(users, response.UserToResponse, query.Paginate(q, total), reqURL), nil
}

// DeleteUser removes the account. Reviews and sessions go with it.
func (us *userService) DeleteUser(ctx context.Context, userID int64) error {
	if err := us.repo.User.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		us.log.Error("Failed to delete user", zap.Error(err), zap.Int64("user_id", userID))
		return apperr.Internal(err)
	}

	us.log.Info("User deleted", zap.Int64("user_id", userID))
	return nil
}

func (us *userService) CreateUser(ctx context.Context, req *request.CreateUserRequest) (*response.UserResponse, error) {
	if err := validate(us.log, "Create user", req); err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user := &entity.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashed,
		IsAdmin:      req.IsAdmin,
	}
	if err := us.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("a user with that username already exists")
		}
		us.log.Error("Failed to create user", zap.Error(err), zap.String("username", req.Username))
		return nil, apperr.Internal(err)
	}

	us.log.Info("User created", zap.Int64("user_id", user.ID), zap.Bool("is_admin", user.IsAdmin))

	resp := response.UserToResponse(user)
	return &resp, nil
}
