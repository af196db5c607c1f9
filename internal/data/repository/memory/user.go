package memory

import (
	"context"
	"fmt"
	"slices"

	"movie-review/internal/data/entity"
	"movie-review/internal/data/repository"
	"movie-review/internal/query"
)

type userStore struct {
	*store
}

func (s *userStore) Create(_ context.Context, user *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return fmt.Errorf("create user %s: %w", user.Username, repository.ErrDuplicate)
		}
	}

	s.nextUserID++
	now := s.now()
	user.ID = s.nextUserID
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = *user
	return nil
}

func (s *userStore) FindByID(_ context.Context, id int64) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *userStore) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (s *userStore) List(_ context.Context, q *query.ValidatedQuery) ([]*entity.User, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*entity.User, 0, len(s.users))
	for _, u := range s.users {
		if q.Filter.Search != "" && !containsFold(u.Username, q.Filter.Search) && !containsFold(u.Email, q.Filter.Search) {
			continue
		}
		matched = append(matched, &u)
	}

	if q.Sort.Field == query.SortUsername {
		slices.SortFunc(matched, func(a, b *entity.User) int {
			return orderBy(a.Username, b.Username, a.ID, b.ID, q.Sort.Desc)
		})
	} else {
		sortByID(matched, func(u *entity.User) int64 { return u.ID })
	}

	return window(matched, q), int64(len(matched)), nil
}

func (s *userStore) Update(_ context.Context, user *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.users[user.ID]
	if !ok {
		return fmt.Errorf("update user %d: %w", user.ID, repository.ErrNotFound)
	}

	current.Email = user.Email
	current.PasswordHash = user.PasswordHash
	current.FirstName = user.FirstName
	current.LastName = user.LastName
	current.IsAdmin = user.IsAdmin
	current.UpdatedAt = s.now()
	s.users[user.ID] = current

	user.UpdatedAt = current.UpdatedAt
	return nil
}

// Delete removes the user with their reviews and sessions.
func (s *userStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return fmt.Errorf("delete user %d: %w", id, repository.ErrNotFound)
	}

	delete(s.users, id)
	for rid, r := range s.reviews {
		if r.UserID == id {
			delete(s.reviews, rid)
		}
	}
	for token, sess := range s.sessions {
		if sess.UserID == id {
			delete(s.sessions, token)
		}
	}
	return nil
}
