package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tartampluch/go-jubilee/internal/config"
)

// document is one rendered payload with its HTTP caching metadata.
type document struct {
	data         []byte
	etag         string
	modified     time.Time
	lastModified string // RFC1123 format required by HTTP headers
}

// JubileeServer serves the jubilee calendar, the JSON summary and metrics.
type JubileeServer struct {
	// Reads are far more frequent than refreshes, hence lock-free pointers.
	calendar atomic.Pointer[document]
	summary  atomic.Pointer[document]

	Port    int
	Metrics *Metrics
}

// NewJubileeServer creates a server bound to localhost on port.
func NewJubileeServer(port int, m *Metrics) *JubileeServer {
	if m == nil {
		m = NewMetrics()
	}
	return &JubileeServer{Port: port, Metrics: m}
}

// Router wires the routes and middleware.
func (s *JubileeServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.GetHead)
	r.Use(s.instrument)

	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
	})

	r.Get(config.RouteCalendar, s.serve(&s.calendar, config.MimeTextCalendar))
	r.Get(config.RouteSummary, s.serve(&s.summary, config.MimeJSON))
	r.Method(http.MethodGet, config.RouteMetrics, s.Metrics.Handler())

	return r
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *JubileeServer) Start(ctx context.Context) error {
	if s.Port < config.MinPort || s.Port > config.MaxPort {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + strconv.Itoa(s.Port),
		Handler:      s.Router(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// UpdateCalendar atomically replaces the served iCalendar feed.
func (s *JubileeServer) UpdateCalendar(data []byte) {
	s.store(&s.calendar, config.RouteCalendar, data)
}

// UpdateSummary atomically replaces the served JSON summary.
func (s *JubileeServer) UpdateSummary(data []byte) {
	s.store(&s.summary, config.RouteSummary, data)
}

func (s *JubileeServer) store(slot *atomic.Pointer[document], route string, data []byte) {
	hash := sha256.Sum256(data)
	now := time.Now().UTC().Truncate(time.Second)

	doc := &document{
		data:         data,
		etag:         fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:])),
		modified:     now,
		lastModified: now.Format(http.TimeFormat),
	}
	slot.Store(doc)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyRoute, route,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, doc.etag,
	)
}

// serve returns a handler for one cached document with conditional GET support.
func (s *JubileeServer) serve(slot *atomic.Pointer[document], contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc := slot.Load()
		if doc == nil {
			w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
			http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
			return
		}

		h := w.Header()
		h.Set(config.HeaderContentType, contentType)
		h.Set(config.HeaderXContentType, config.MimeNoSniff)
		h.Set(config.HeaderCacheControl, config.CacheControlPrivate)
		h.Set(config.HeaderETag, doc.etag)
		h.Set(config.HeaderLastModified, doc.lastModified)

		if notModified(r, doc) {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		if r.Method == http.MethodHead {
			return
		}
		if _, err := w.Write(doc.data); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}

// notModified applies If-None-Match first, then If-Modified-Since.
func notModified(r *http.Request, doc *document) bool {
	if match := r.Header.Get(config.HeaderIfNoneMatch); match != "" {
		return match == doc.etag
	}
	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		if clientTime, err := http.ParseTime(since); err == nil {
			return !doc.modified.After(clientTime)
		}
	}
	return false
}

// routeUnmatched keeps unknown paths from inflating label cardinality.
const routeUnmatched = "unmatched"

// instrument counts requests by route pattern and status class.
func (s *JubileeServer) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := routeUnmatched
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.Metrics.incRequests(route, status)

		slog.Debug("Request served",
			config.LogKeyComponent, config.CompServer,
			config.LogKeyRoute, route,
			config.LogKeyStatus, status,
			config.LogKeyDuration, time.Since(start).Milliseconds(),
		)
	})
}
