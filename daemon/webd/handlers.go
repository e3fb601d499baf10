package webd

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jellydator/ttlcache/v3"
	"github.com/rotblauer/catseg/api"
	"github.com/rotblauer/catseg/export"
	"github.com/rotblauer/catseg/ingest"
	"github.com/rotblauer/catseg/params"
	"github.com/rotblauer/catseg/state"
	"github.com/rotblauer/catseg/types/activity"
	"github.com/rotblauer/catseg/types/track"
)

func pingPong(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

type webDaemonStatus struct {
	StartedAt time.Time               `json:"started_at"`
	Uptime    string                  `json:"uptime"`
	Config    *params.WebDaemonConfig `json:"config"`
	Results   int                     `json:"results"`
	WSOpen    bool                    `json:"ws_open"`
	WSConns   int                     `json:"ws_conns"`
}

func (s *WebDaemon) statusReport(w http.ResponseWriter, r *http.Request) {
	st := webDaemonStatus{
		StartedAt: s.started,
		Uptime:    time.Since(s.started).Round(time.Second).String(),
		Config:    s.Config,
		Results:   s.results.Len(),
		WSOpen:    !s.melodyInstance.IsClosed(),
		WSConns:   s.melodyInstance.Len(),
	}
	s.writeJSON(w, st)
}

func (s *WebDaemon) writeJSON(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response", "error", err)
	}
}

type segmentsResponse struct {
	ID        string          `json:"id"`
	Cached    bool            `json:"cached"`
	Summary   []string        `json:"summary"`
	Summaries []state.Summary `json:"summaries"`
	Warnings  []string        `json:"warnings"`
	Segments  []track.Segment `json:"segments"`
}

// handlePostSegments segments the uploaded trace.
// The body is GPX, GeoJSON, a JSON array, or NDJSON of trackpoints.
// ?name labels the track and ?activity sets the activity it was recorded as.
func (s *WebDaemon) handlePostSegments(w http.ResponseWriter, r *http.Request) {
	if r.Body == nil {
		http.Error(w, "Please send a request body", http.StatusBadRequest)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.Config.MaxBodyBytes)

	points, err := ingest.Decode(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		s.logger.Warn("Failed to decode trackpoints", "error", err)
		http.Error(w, "Failed to decode trackpoints: "+err.Error(), http.StatusBadRequest)
		return
	}
	points = ingest.Prepare(points, params.DefaultDedupeCacheSize)

	p := s.Processor
	if a := r.URL.Query().Get("activity"); a != "" {
		act := activity.FromString(a)
		if act == activity.Unknown {
			http.Error(w, "Unknown activity: "+a, http.StatusBadRequest)
			return
		}
		p = p.WithActivity(act)
	}

	id, err := api.CacheKey(points, p.Config)
	if err != nil {
		s.logger.Error("Failed to key request", "error", err)
		http.Error(w, "Failed to key request", http.StatusInternalServerError)
		return
	}

	t, diags, cached, err := p.ProcessCached(r.URL.Query().Get("name"), points)
	if err != nil {
		s.logger.Error("Failed to process track", "error", err)
		http.Error(w, "Failed to process track", http.StatusInternalServerError)
		return
	}
	res := segmentsResponse{
		ID:        id,
		Cached:    cached,
		Summary:   []string{},
		Summaries: []state.Summary{},
		Warnings:  diags.Warnings(),
		Segments:  []track.Segment{},
	}
	if t.Empty() {
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.writeJSON(w, res)
		return
	}
	res.Summary = t.Summary()
	res.Summaries = state.Summaries(t)
	res.Segments = t.Segments

	s.results.Set(id, t, ttlcache.DefaultTTL)
	s.feedProcessed.Send(t)

	s.writeJSON(w, res)
}

// lookupTrack finds a processed track in memory, falling back to the store.
func (s *WebDaemon) lookupTrack(id string) (*track.Track, bool) {
	if item := s.results.Get(id); item != nil {
		return item.Value(), true
	}
	if s.Processor.Store == nil {
		return nil, false
	}
	t, err := s.Processor.Store.GetTrack(id)
	if err != nil {
		if !errors.Is(err, state.ErrNotFound) {
			s.logger.Error("Failed to read track", "id", id, "error", err)
		}
		return nil, false
	}
	s.results.Set(id, t, ttlcache.DefaultTTL)
	return t, true
}

func (s *WebDaemon) handleGetTrack(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookupTrack(mux.Vars(r)["id"])
	if !ok {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	s.writeJSON(w, t)
}

// handleGetGeoJSON renders a track as GeoJSON.
// ?variant=compressed or ?variant=zipped selects a derived track.
func (s *WebDaemon) handleGetGeoJSON(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookupTrack(mux.Vars(r)["id"])
	if !ok {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	switch v := r.URL.Query().Get("variant"); v {
	case "", "full":
	case "compressed":
		t = t.Compressed
	case "zipped":
		t = t.Zipped
	default:
		http.Error(w, "Unknown variant: "+v, http.StatusBadRequest)
		return
	}
	if t == nil {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	if err := export.WriteGeoJSON(w, t); err != nil {
		s.logger.Error("Failed to write geojson", "error", err)
	}
}

// handleSummaries lists the stored segment summaries.
// With ?reguess=true activities are re-guessed from speed first.
// storedSummaries reads every stored summary, re-guessed if the request asks for it.
func (s *WebDaemon) storedSummaries(r *http.Request) ([]state.Summary, error) {
	summaries := []state.Summary{}
	if s.Processor.Store != nil {
		all, err := s.Processor.Store.AllSummaries()
		if err != nil {
			return nil, err
		}
		if all != nil {
			summaries = all
		}
	}
	if r.URL.Query().Get("reguess") == "true" {
		summaries, _ = state.Reguess(summaries, s.Processor.Config.Profiles)
	}
	return summaries, nil
}

func (s *WebDaemon) handleSummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.storedSummaries(r)
	if err != nil {
		s.logger.Error("Failed to read summaries", "error", err)
		http.Error(w, "Failed to read summaries", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, summaries)
}

func (s *WebDaemon) handleTotals(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.storedSummaries(r)
	if err != nil {
		s.logger.Error("Failed to read summaries", "error", err)
		http.Error(w, "Failed to read summaries", http.StatusInternalServerError)
		return
	}
	totals := state.ActivityTotals(summaries)
	if totals == nil {
		totals = []state.Totals{}
	}
	s.writeJSON(w, totals)
}
