package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestInstrumentHandlerUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(InstrumentHandler)
	r.Get("/api/movies/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/api/movies/{id}", "404"))
	for _, path := range []string{"/api/movies/1", "/api/movies/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	after := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/api/movies/{id}", "404"))

	require.Equal(t, before+2, after)
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(authzDenials.WithLabelValues("write_movie", "forbidden"))
	RecordDenial("write_movie", "forbidden")
	require.Equal(t, before+1, testutil.ToFloat64(authzDenials.WithLabelValues("write_movie", "forbidden")))

	before = testutil.ToFloat64(reviewWrites.WithLabelValues("create"))
	RecordReviewWrite("create")
	require.Equal(t, before+1, testutil.ToFloat64(reviewWrites.WithLabelValues("create")))
}

func TestHandlerServesRegistry(t *testing.T) {
	RecordReviewWrite("update")
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "movie_review_reviews_writes_total")
}
