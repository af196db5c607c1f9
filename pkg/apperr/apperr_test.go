package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindUnauthenticated, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			require.Equal(t, tt.want, tt.kind.HTTPStatus())
		})
	}
}

func TestErrorsIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("load review: %w", NotFound("review 7 not found"))

	require.ErrorIs(t, err, ErrNotFound)
	require.NotErrorIs(t, err, ErrForbidden)
	require.Equal(t, KindNotFound, KindOf(err))
}

func TestFromWrapsUnclassified(t *testing.T) {
	cause := errors.New("connection reset")
	e := From(cause)

	require.Equal(t, KindInternal, e.Kind)
	require.Equal(t, "internal server error", e.Message)
	require.ErrorIs(t, e, cause)
}

func TestFromKeepsClassified(t *testing.T) {
	orig := ValidationFields("validation failed", map[string]string{"rating": "Maximum value is 5"})
	e := From(fmt.Errorf("wrap: %w", orig))

	require.Same(t, orig, e)
	require.Equal(t, "Maximum value is 5", e.Details["rating"])
}
