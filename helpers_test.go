package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSeedFile = "data/trivia.json"

// newTestDB opens a private in-memory SQLite database. A single connection
// keeps every query on the same :memory: instance.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, AutoMigrate(db))
	return db
}

func newSeededStore(t *testing.T) *GormStore {
	t.Helper()
	store := NewGormStore(newTestDB(t))
	require.NoError(t, SeedFromJSON(context.Background(), store, testSeedFile))
	return store
}

func newTestRouter(t *testing.T, store Store) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := DefaultConfig()
	cfg.QuizSeed = 1
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(store, cfg, logger)
}

// doJSON performs a request and decodes the JSON response body.
func doJSON(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var data map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data), "body: %s", w.Body.String())
	return w, data
}

var errBoom = errors.New("boom")

// failingStore fails every call.
type failingStore struct{}

func (failingStore) ListCategories(context.Context) ([]Category, error) { return nil, errBoom }
func (failingStore) GetCategory(context.Context, int) (*Category, error) { return nil, errBoom }
func (failingStore) ListQuestions(context.Context, int) ([]Question, error) { return nil, errBoom }
func (failingStore) SearchQuestions(context.Context, string) ([]Question, error) { return nil, errBoom }
func (failingStore) CountQuestions(context.Context) (int64, error) { return 0, errBoom }
func (failingStore) GetQuestion(context.Context, int) (*Question, error) { return nil, errBoom }
func (failingStore) CreateQuestion(context.Context, *Question) error { return errBoom }
func (failingStore) DeleteQuestion(context.Context, int) error { return errBoom }
