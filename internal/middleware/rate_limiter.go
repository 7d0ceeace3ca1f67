package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Both limiters count per client IP in an in-process sliding window.
// Counting is per API instance; limits are not shared across replicas.

const loginAttemptsPerMinute = 20

type windowEntry struct {
	mu        sync.Mutex
	count     int
	windowEnd time.Time
}

// ipWindow is a sliding-window counter keyed by client IP.
type ipWindow struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	window  time.Duration
}

var (
	windowsMu sync.Mutex
	windows   []*ipWindow // every live window, purged periodically
)

func newIPWindow(window time.Duration) *ipWindow {
	w := &ipWindow{entries: make(map[string]*windowEntry), window: window}
	windowsMu.Lock()
	windows = append(windows, w)
	windowsMu.Unlock()
	return w
}

// take counts one hit for ip and reports whether it stays within limit,
// along with the window end for the Retry-After header.
func (w *ipWindow) take(ip string, limit int) (bool, time.Time) {
	w.mu.Lock()
	e, ok := w.entries[ip]
	if !ok {
		e = &windowEntry{}
		w.entries[ip] = e
	}
	w.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	now := time.Now()
	if now.After(e.windowEnd) {
		e.count = 0
		e.windowEnd = now.Add(w.window)
	}
	e.count++
	return e.count <= limit, e.windowEnd
}

func (w *ipWindow) purge(now time.Time) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	purged := 0
	for ip, e := range w.entries {
		e.mu.Lock()
		if now.After(e.windowEnd) {
			delete(w.entries, ip)
			purged++
		}
		e.mu.Unlock()
	}
	return purged
}

var loginWindow = newIPWindow(time.Minute)

// LoginRateLimiter caps login attempts per IP, slowing credential stuffing.
func LoginRateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ok, _ := loginWindow.take(c.ClientIP(), loginAttemptsPerMinute); !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Muitas tentativas de login. Tente em 1 minuto."))
			return
		}
		c.Next()
	}
}

// RateLimiter returns a general-purpose per-IP limiter for the whole API.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	w := newIPWindow(window)
	return func(c *gin.Context) {
		ok, windowEnd := w.take(c.ClientIP(), limit)
		if !ok {
			c.Header("Retry-After", windowEnd.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Muitas solicitacoes. Tente novamente em instantes."))
			return
		}
		c.Next()
	}
}

// Idle IPs are dropped periodically so the maps don't grow without bound.

const purgeInterval = 5 * time.Minute

func init() {
	go purgeLoop()
}

func purgeLoop() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		windowsMu.Lock()
		live := append([]*ipWindow(nil), windows...)
		windowsMu.Unlock()

		total := 0
		for _, w := range live {
			total += w.purge(now)
		}
		if total > 0 {
			log.Debug().Int("entries_purged", total).Msg("rate limiter: idle clients purged")
		}
	}
}
