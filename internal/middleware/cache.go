package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/cache"

	"github.com/gin-gonic/gin"
)

// cachedWriter tees the response body so a successful reply can be stored.
type cachedWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *cachedWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// CacheResponse memoizes GET responses for ttl, keyed by the full request
// URL (path + query). Only 200 responses are stored; anything else passes
// through untouched. There is no invalidation hook — callers must choose
// TTLs short enough for the data behind the route.
func CacheResponse(store cache.Store, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.URL.RequestURI()
		if body, ok := store.Get(c.Request.Context(), key); ok {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			c.Abort()
			return
		}

		w := &cachedWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()

		if w.Status() == http.StatusOK {
			store.Set(c.Request.Context(), key, w.body.Bytes(), ttl)
		}
	}
}
