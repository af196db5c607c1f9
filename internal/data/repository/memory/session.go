package memory

import (
	"context"
	"fmt"

	"movie-review/internal/data/entity"
	"movie-review/internal/data/repository"

	"github.com/google/uuid"
)

type sessionStore struct {
	*store
}

func (s *sessionStore) Create(_ context.Context, session *entity.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[session.UserID]; !ok {
		return fmt.Errorf("create session for user %d: %w", session.UserID, repository.ErrNotFound)
	}
	if _, ok := s.sessions[session.Token]; ok {
		return fmt.Errorf("create session: %w", repository.ErrDuplicate)
	}

	s.sessions[session.Token] = *session
	return nil
}

func (s *sessionStore) FindValidSession(_ context.Context, token uuid.UUID) (*entity.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[token]
	if !ok || !sess.Active(s.now()) {
		return nil, nil
	}
	return &sess, nil
}

func (s *sessionStore) Revoke(_ context.Context, token uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok || sess.RevokedAt != nil {
		return fmt.Errorf("revoke session: %w", repository.ErrNotFound)
	}

	now := s.now()
	sess.RevokedAt = &now
	s.sessions[token] = sess
	return nil
}

func (s *sessionStore) RevokeAllUserSessions(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for token, sess := range s.sessions {
		if sess.UserID == userID && sess.RevokedAt == nil {
			sess.RevokedAt = &now
			s.sessions[token] = sess
		}
	}
	return nil
}

func (s *sessionStore) CleanExpiredSessions(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().AddDate(0, 0, -7)
	var removed int64
	for token, sess := range s.sessions {
		if sess.ExpiresAt.Before(cutoff) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed, nil
}
