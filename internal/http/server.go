// Package http exposes the community-farm API. Handlers fetch raw
// collections from the repositories, run the pure aggregators over them,
// and return the derived structures in a {success, data, error} envelope.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"bukid/internal/auth"
	"bukid/internal/cache"
	"bukid/internal/core"
	"bukid/internal/storage"
	"bukid/internal/weather"
)

// LedgerPublisher pushes freshly created budget entries toward the
// transparency-ledger export queue. A nil publisher disables the export.
type LedgerPublisher interface {
	PublishLedgerExport(ctx context.Context, entryID string) error
}

type Config struct {
	Addr                string
	TotalBudgetCentavos int64
	WeatherRefresh      time.Duration
}

type Server struct {
	http.Server

	store    *storage.Store
	verifier *auth.Verifier
	fetch    weather.FetchFunc
	ledger   LedgerPublisher

	totalBudget core.Money

	summaryCache *cache.LRU[core.BudgetSummary]
	rollupCache  *cache.LRU[core.CropRollup]
	weatherCache *cache.LRU[weather.Data]

	rateLimiter *rateLimiter

	stopJanitor  chan struct{}
	shutdownOnce sync.Once
}

func NewServer(cfg Config, store *storage.Store, verifier *auth.Verifier, fetch weather.FetchFunc, ledger LedgerPublisher) *Server {
	mux := http.NewServeMux()

	refresh := cfg.WeatherRefresh
	if refresh <= 0 {
		refresh = 15 * time.Minute
	}

	s := &Server{
		Server:       http.Server{Addr: cfg.Addr, Handler: mux},
		store:        store,
		verifier:     verifier,
		fetch:        fetch,
		ledger:       ledger,
		totalBudget:  core.Money{Centavos: cfg.TotalBudgetCentavos},
		summaryCache: cache.NewLRU[core.BudgetSummary](8, 5*time.Minute),
		rollupCache:  cache.NewLRU[core.CropRollup](8, 5*time.Minute),
		weatherCache: cache.NewLRU[weather.Data](4, refresh),
		rateLimiter:  newRateLimiter(),
		stopJanitor:  make(chan struct{}),
	}

	go s.runCacheJanitor()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	wrap := s.withRequestContext

	// Budget ledger + summary
	mux.HandleFunc("GET /api/budget", wrap(s.handleListBudget))
	mux.HandleFunc("POST /api/budget", wrap(s.handleCreateBudgetEntry))
	mux.HandleFunc("DELETE /api/budget/{id}", wrap(s.handleDeleteBudgetEntry))
	mux.HandleFunc("GET /api/budget/summary", wrap(s.handleBudgetSummary))

	// Crops and harvests
	mux.HandleFunc("GET /api/crops", wrap(s.handleListCrops))
	mux.HandleFunc("POST /api/crops", wrap(s.handleCreateCrop))
	mux.HandleFunc("PUT /api/crops/{id}", wrap(s.handleUpdateCrop))
	mux.HandleFunc("DELETE /api/crops/{id}", wrap(s.handleDeleteCrop))
	mux.HandleFunc("GET /api/crops/rollup", wrap(s.handleCropRollup))
	mux.HandleFunc("GET /api/harvests", wrap(s.handleListHarvests))
	mux.HandleFunc("POST /api/harvests", wrap(s.handleCreateHarvest))

	// Polls
	mux.HandleFunc("GET /api/polls", wrap(s.handleListPolls))
	mux.HandleFunc("POST /api/polls", wrap(s.handleCreatePoll))
	mux.HandleFunc("POST /api/polls/{id}/vote", wrap(s.handleVote))
	mux.HandleFunc("POST /api/polls/{id}/close", wrap(s.handleClosePoll))
	mux.HandleFunc("GET /api/polls/{id}/results", wrap(s.handlePollResults))

	// Community
	mux.HandleFunc("GET /api/feedback", wrap(s.handleListFeedback))
	mux.HandleFunc("POST /api/feedback", wrap(s.handleCreateFeedback))
	mux.HandleFunc("GET /api/volunteers", wrap(s.handleListVolunteers))
	mux.HandleFunc("POST /api/volunteers", wrap(s.handleCreateVolunteer))
	mux.HandleFunc("POST /api/volunteers/{id}/activity", wrap(s.handleVolunteerActivity))
	mux.HandleFunc("GET /api/volunteers/leaderboard", wrap(s.handleLeaderboard))
	mux.HandleFunc("GET /api/tasks", wrap(s.handleListTasks))
	mux.HandleFunc("POST /api/tasks", wrap(s.handleCreateTask))
	mux.HandleFunc("PUT /api/tasks/{id}/status", wrap(s.handleTaskStatus))
	mux.HandleFunc("DELETE /api/tasks/{id}", wrap(s.handleDeleteTask))
	mux.HandleFunc("GET /api/gallery", wrap(s.handleListPhotos))
	mux.HandleFunc("POST /api/gallery", wrap(s.handleCreatePhoto))
	mux.HandleFunc("DELETE /api/gallery/{id}", wrap(s.handleDeletePhoto))

	// Weather + location
	mux.HandleFunc("GET /api/weather", wrap(s.handleWeather))
	mux.HandleFunc("GET /api/location", wrap(s.handleGetLocation))
	mux.HandleFunc("PUT /api/location", wrap(s.handleSetLocation))

	// Users
	mux.HandleFunc("GET /api/me", wrap(s.handleMe))
	mux.HandleFunc("GET /api/users", wrap(s.handleListUsers))

	return s
}

// withRequestContext adds security headers, a request id, request logging,
// and per-IP rate limiting on mutations.
func (s *Server) withRequestContext(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := newRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, envelope{Success: false, Error: "rate limit exceeded"})
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func newRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(b)
}

// session returns the authenticated caller, or an error for the caller to
// surface. Handlers for public reads skip this entirely.
func (s *Server) session(r *http.Request) (auth.Session, error) {
	return s.verifier.SessionFromRequest(r)
}

// adminSession is session plus the admin gate.
func (s *Server) adminSession(w http.ResponseWriter, r *http.Request) (auth.Session, bool) {
	sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return auth.Session{}, false
	}
	if sess.Role != core.RoleAdmin {
		respondForbidden(w)
		return auth.Session{}, false
	}
	return sess, true
}

func (s *Server) runCacheJanitor() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			n := s.summaryCache.Sweep() + s.rollupCache.Sweep() + s.weatherCache.Sweep()
			if n > 0 {
				slog.Debug("Cache sweep completed", "entries_removed", n)
			}
		case <-s.stopJanitor:
			return
		}
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		close(s.stopJanitor)
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
