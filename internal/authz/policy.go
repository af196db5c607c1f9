// Package authz decides whether a principal may perform an action.
//
// Authorize is a pure function. Handlers call it with a nil resource as the
// first gate; use cases call it again once the resource is loaded so that a
// missing resource is reported as not found before ownership is checked.
package authz

import (
	"movie-review/pkg/apperr"
)

type Action string

const (
	ActionRegister     Action = "register"
	ActionLogin        Action = "login"
	ActionRefreshToken Action = "refresh_token"
	ActionLogout       Action = "logout"

	ActionReadMovie  Action = "read_movie"
	ActionListMovies Action = "list_movies"
	ActionWriteMovie Action = "write_movie"

	ActionReadReview   Action = "read_review"
	ActionListReviews  Action = "list_reviews"
	ActionCreateReview Action = "create_review"
	ActionUpdateReview Action = "update_review"
	ActionDeleteReview Action = "delete_review"

	ActionReadProfile   Action = "read_profile"
	ActionUpdateProfile Action = "update_profile"
	ActionDeleteProfile Action = "delete_profile"
	ActionListUsers     Action = "list_users"
	ActionDeleteUser    Action = "delete_user"
)

type requirement int

const (
	requireNone requirement = iota
	requireAuthenticated
	requireAdmin
	requireOwner
)

var requirements = map[Action]requirement{
	ActionRegister:     requireNone,
	ActionLogin:        requireNone,
	ActionRefreshToken: requireNone,
	ActionLogout:       requireOwner,

	ActionReadMovie:  requireAuthenticated,
	ActionListMovies: requireAuthenticated,
	ActionWriteMovie: requireAdmin,

	ActionReadReview:   requireAuthenticated,
	ActionListReviews:  requireAuthenticated,
	ActionCreateReview: requireAuthenticated,
	ActionUpdateReview: requireOwner,
	ActionDeleteReview: requireOwner,

	ActionReadProfile:   requireOwner,
	ActionUpdateProfile: requireOwner,
	ActionDeleteProfile: requireOwner,
	ActionListUsers:     requireAdmin,
	ActionDeleteUser:    requireAdmin,
}

// Resource describes the target of an ownership-checked action.
type Resource struct {
	OwnerID int64
}

type Reason int

const (
	ReasonNone Reason = iota
	ReasonUnauthenticated
	ReasonForbidden
)

func (r Reason) String() string {
	switch r {
	case ReasonUnauthenticated:
		return "unauthenticated"
	case ReasonForbidden:
		return "forbidden"
	default:
		return "none"
	}
}

type Decision struct {
	Allowed bool
	Reason  Reason
	Message string
}

// Err converts a denial into a classified error. It is nil on allow.
func (d Decision) Err() error {
	switch {
	case d.Allowed:
		return nil
	case d.Reason == ReasonUnauthenticated:
		return apperr.Unauthenticated(d.Message)
	default:
		return apperr.Forbidden(d.Message)
	}
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason Reason, message string) Decision {
	return Decision{Reason: reason, Message: message}
}

// Authorize decides whether p may perform action on res. p is nil for
// anonymous requests. res may be nil when only principal-level requirements
// are being checked; ownership is then left to the caller that loads the
// resource. Unknown actions are denied.
//
// Ownership is strict: administrators get no override on owned resources.
func Authorize(p *Principal, action Action, res *Resource) Decision {
	req, ok := requirements[action]
	if !ok {
		return deny(ReasonForbidden, "action not permitted")
	}

	if req == requireNone {
		return allow()
	}

	if p == nil {
		return deny(ReasonUnauthenticated, "authentication credentials were not provided")
	}

	switch req {
	case requireAdmin:
		if !p.IsAdmin {
			return deny(ReasonForbidden, "administrator privileges required")
		}
	case requireOwner:
		if res != nil && res.OwnerID != p.ID {
			return deny(ReasonForbidden, "you do not own this resource")
		}
	}

	return allow()
}

// Require is Authorize followed by Err.
func Require(p *Principal, action Action, res *Resource) error {
	return Authorize(p, action, res).Err()
}
