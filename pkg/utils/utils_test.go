package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-review/pkg/apperr"
)

func TestParseInt(t *testing.T) {
	assert.Equal(t, 10, ParseInt("", 10))
	assert.Equal(t, 10, ParseInt("abc", 10))
	assert.Equal(t, 10, ParseInt("0", 10))
	assert.Equal(t, 25, ParseInt("25", 10))
}

func TestParseID(t *testing.T) {
	id, ok := ParseID("42")
	require.True(t, ok)
	require.EqualValues(t, 42, id)

	for _, bad := range []string{"", "-1", "0", "x1"} {
		_, ok := ParseID(bad)
		assert.False(t, ok, bad)
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse", hash)

	assert.True(t, CheckPasswordHash("correct horse", hash))
	assert.False(t, CheckPasswordHash("wrong horse", hash))
}

func TestValidateStructUsesJSONNames(t *testing.T) {
	type body struct {
		Rating int    `json:"rating" validate:"required,min=1,max=5"`
		Title  string `json:"title" validate:"required,max=3"`
	}

	errs := ValidateStruct(body{Rating: 6, Title: "long"})
	require.Equal(t, "Maximum value is 5", errs["rating"])
	require.Equal(t, "Maximum length is 3", errs["title"])
	require.Equal(t, "rating: Maximum value is 5; title: Maximum length is 3", FormatValidationErrors(errs))

	require.Nil(t, ValidateStruct(body{Rating: 3, Title: "ok"}))
}

func TestResponseErrorHidesInternalCause(t *testing.T) {
	rec := httptest.NewRecorder()
	ResponseError(rec, errors.New("pq: relation \"reviews\" does not exist"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "internal server error", body.Error)
}

func TestResponseErrorStatuses(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{apperr.Validation("invalid rating"), http.StatusBadRequest},
		{apperr.Unauthenticated("authentication required"), http.StatusUnauthorized},
		{apperr.Forbidden("not the owner"), http.StatusForbidden},
		{apperr.NotFound("review not found"), http.StatusNotFound},
		{apperr.Conflict("username already taken"), http.StatusConflict},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		ResponseError(rec, tt.err)
		require.Equal(t, tt.code, rec.Code)

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, apperr.From(tt.err).Message, body.Error)
	}
}
