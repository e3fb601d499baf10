package webd

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/gorilla/mux"
	"github.com/jellydator/ttlcache/v3"
	"github.com/olahol/melody"
	"github.com/rotblauer/catseg/api"
	"github.com/rotblauer/catseg/metrics/influxdb"
	"github.com/rotblauer/catseg/params"
	"github.com/rotblauer/catseg/types/track"
)

type WebDaemon struct {
	Config    *params.WebDaemonConfig
	Processor *api.Processor

	logger         *slog.Logger
	started        time.Time
	melodyInstance *melody.Melody
	results        *ttlcache.Cache[string, *track.Track]
	feedProcessed  event.FeedOf[*track.Track]
	wsSub          event.Subscription
}

func NewWebDaemon(config *params.WebDaemonConfig, processor *api.Processor) *WebDaemon {
	if config == nil {
		config = params.DefaultWebDaemonConfig()
	}
	if processor == nil {
		processor = api.NewProcessor(nil, nil, nil)
	}
	return &WebDaemon{
		Config:    config,
		Processor: processor,
		logger:    slog.With("d", "web"),
		results: ttlcache.New[string, *track.Track](
			ttlcache.WithTTL[string, *track.Track](config.ResultTTL)),
	}
}

// SubscribeProcessed delivers every track processed by a request to ch.
func (s *WebDaemon) SubscribeProcessed(ch chan<- *track.Track) event.Subscription {
	return s.feedProcessed.Subscribe(ch)
}

// Run listens on the configured address and serves until ctx is done.
func (s *WebDaemon) Run(ctx context.Context) error {
	ln, err := net.Listen(s.Config.Network, s.Config.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *WebDaemon) Serve(ctx context.Context, ln net.Listener) error {
	s.started = time.Now()
	go s.results.Start()
	defer s.results.Stop()

	srv := &http.Server{Handler: s.NewRouter()}
	defer func() {
		_ = s.melodyInstance.Close()
		s.wsSub.Unsubscribe()
	}()

	errs := make(chan error, 1)
	go func() {
		s.logger.Info("Starting web daemon", "address", ln.Addr().String())
		errs <- srv.Serve(ln)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("Web daemon stopped")
	return nil
}

func (s *WebDaemon) NewRouter() *mux.Router {
	s.initMelody()

	router := mux.NewRouter().StrictSlash(false)
	router.Use(s.loggingMiddleware)

	router.Path("/socket").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = s.melodyInstance.HandleRequest(w, r)
	})

	apiRoutes := router.NewRoute().Subrouter()
	apiRoutes.Use(permissiveCorsMiddleware)

	// /ping is a simple server healthcheck endpoint
	apiRoutes.Path("/ping").HandlerFunc(pingPong)

	apiJSONRoutes := apiRoutes.NewRoute().Subrouter()
	apiJSONRoutes.Use(contentTypeMiddlewareFunc("application/json"))

	apiJSONRoutes.Path("/status").HandlerFunc(s.statusReport).Methods(http.MethodGet)
	apiJSONRoutes.Path("/segments/{id}").HandlerFunc(s.handleGetTrack).Methods(http.MethodGet)
	apiJSONRoutes.Path("/segments/{id}/geojson").HandlerFunc(s.handleGetGeoJSON).Methods(http.MethodGet)
	apiJSONRoutes.Path("/summaries").HandlerFunc(s.handleSummaries).Methods(http.MethodGet)
	apiJSONRoutes.Path("/totals").HandlerFunc(s.handleTotals).Methods(http.MethodGet)

	authenticatedAPIRoutes := apiJSONRoutes.NewRoute().Subrouter()
	authenticatedAPIRoutes.Use(tokenAuthenticationMiddleware)
	authenticatedAPIRoutes.Path("/segments").HandlerFunc(s.handlePostSegments).Methods(http.MethodPost)

	return router
}

// ExportInflux writes every processed track to InfluxDB until ctx is done.
func (s *WebDaemon) ExportInflux(ctx context.Context, config *params.InfluxConfig) {
	tracks := make(chan *track.Track, 8)
	sub := s.SubscribeProcessed(tracks)
	defer sub.Unsubscribe()
	for {
		select {
		case t := <-tracks:
			if err := influxdb.ExportTrack(config, t); err != nil {
				s.logger.Error("Failed to export track to InfluxDB", "name", t.Name, "error", err)
			}
		case err := <-sub.Err():
			if err != nil {
				s.logger.Error("InfluxDB export subscription failed", "error", err)
			}
			return
		case <-ctx.Done():
			return
		}
	}
}
