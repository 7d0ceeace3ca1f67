package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type memStore struct {
	data map[string][]byte
	sets int
}

func newMemStore() *memStore { return &memStore{data: make(map[string][]byte)} }

func (s *memStore) Get(_ context.Context, key string) ([]byte, bool) {
	b, ok := s.data[key]
	return b, ok
}

func (s *memStore) Set(_ context.Context, key string, value []byte, _ time.Duration) {
	s.sets++
	s.data[key] = value
}

func (s *memStore) Delete(_ context.Context, key string) { delete(s.data, key) }

func cachedRouter(store *memStore) (*gin.Engine, *int) {
	gin.SetMode(gin.TestMode)
	hits := 0
	r := gin.New()
	r.GET("/products", CacheResponse(store, time.Minute), func(c *gin.Context) {
		hits++
		c.JSON(http.StatusOK, gin.H{"hits": hits})
	})
	r.GET("/missing", CacheResponse(store, time.Minute), func(c *gin.Context) {
		hits++
		c.JSON(http.StatusNotFound, gin.H{"detail": "nope"})
	})
	r.POST("/products", CacheResponse(store, time.Minute), func(c *gin.Context) {
		hits++
		c.Status(http.StatusCreated)
	})
	return r, &hits
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestCacheResponseServesStoredBody(t *testing.T) {
	store := newMemStore()
	r, hits := cachedRouter(store)

	first := get(r, "/products")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Empty(t, first.Header().Get("X-Cache"))

	second := get(r, "/products")
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String(), "memoized body must be byte-identical")
	assert.Equal(t, 1, *hits, "handler must run only once")
}

func TestCacheResponseKeyIncludesQueryString(t *testing.T) {
	store := newMemStore()
	r, hits := cachedRouter(store)

	get(r, "/products?category=cerveja")
	get(r, "/products?category=vinho")
	assert.Equal(t, 2, *hits, "different query strings are different entries")

	w := get(r, "/products?category=cerveja")
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.Equal(t, 2, *hits)
}

func TestCacheResponseSkipsNon200(t *testing.T) {
	store := newMemStore()
	r, hits := cachedRouter(store)

	get(r, "/missing")
	get(r, "/missing")
	assert.Equal(t, 2, *hits)
	assert.Zero(t, store.sets)
}

func TestCacheResponseSkipsNonGET(t *testing.T) {
	store := newMemStore()
	r, hits := cachedRouter(store)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/products", nil))
		assert.Equal(t, http.StatusCreated, w.Code)
	}
	assert.Equal(t, 2, *hits)
	assert.Zero(t, store.sets)
}
