package metrics

import (
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	m := New()

	m.Observe(http.MethodGet, "/todos/all", http.StatusOK, 5*time.Millisecond)
	m.Observe(http.MethodGet, "/todos/all", http.StatusOK, 7*time.Millisecond)
	m.Observe(http.MethodPost, "/todo/create", http.StatusCreated, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestTotal().WithLabelValues("GET", "/todos/all", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestTotal().WithLabelValues("POST", "/todo/create", "201")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()

	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "stats.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, m.RegisterDB(db, "todos"))

	m.Observe(http.MethodDelete, "/todo/{id}/delete", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `http_requests_total{method="DELETE",route="/todo/{id}/delete",status="200"} 1`)
	assert.Contains(t, string(body), `go_sql_open_connections{db_name="todos"}`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestRegisterDBTwice(t *testing.T) {
	m := New()

	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "stats.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, m.RegisterDB(db, "todos"))
	assert.Error(t, m.RegisterDB(db, "todos"))
}
