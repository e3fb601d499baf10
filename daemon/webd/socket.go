package webd

import (
	"encoding/json"

	"github.com/olahol/melody"
	"github.com/rotblauer/catseg/state"
	"github.com/rotblauer/catseg/types/track"
)

type websocketAction string

var websocketActionProcessed websocketAction = "processed"

type broadcast struct {
	Action    websocketAction `json:"action"`
	Name      string          `json:"name,omitempty"`
	Summaries []state.Summary `json:"summaries"`
}

func newBroadcast(t *track.Track) ([]byte, error) {
	return json.Marshal(broadcast{
		Action:    websocketActionProcessed,
		Name:      t.Name,
		Summaries: state.Summaries(t),
	})
}

// initMelody sets up the websocket handler.
// New clients get every result still in memory, then each new one as it is processed.
func (s *WebDaemon) initMelody() {
	s.melodyInstance = melody.New()
	logger := s.logger.With("ws", true)

	s.melodyInstance.HandleConnect(func(ses *melody.Session) {
		logger.Info("Connected", "remote", ses.Request.RemoteAddr)
		for _, item := range s.results.Items() {
			b, err := newBroadcast(item.Value())
			if err != nil {
				logger.Error("Failed to marshal result", "error", err)
				continue
			}
			_ = ses.Write(b)
		}
	})

	// Clients don't talk to us. Log and drop.
	s.melodyInstance.HandleMessage(func(ses *melody.Session, msg []byte) {
		logger.Debug("Message", "remote", ses.Request.RemoteAddr, "msg", string(msg))
	})

	s.melodyInstance.HandleDisconnect(func(ses *melody.Session) {
		logger.Info("Disconnected", "remote", ses.Request.RemoteAddr)
	})

	s.melodyInstance.HandleError(func(ses *melody.Session, e error) {
		logger.Warn("Error", "remote", ses.Request.RemoteAddr, "error", e)
	})

	processed := make(chan *track.Track, 8)
	sub := s.feedProcessed.Subscribe(processed)
	s.wsSub = sub
	go func() {
		for {
			select {
			case t := <-processed:
				if s.melodyInstance.IsClosed() {
					return
				}
				b, err := newBroadcast(t)
				if err != nil {
					logger.Error("Failed to marshal processed event", "error", err)
					continue
				}
				if err := s.melodyInstance.Broadcast(b); err != nil {
					logger.Warn("Failed to broadcast processed event", "error", err)
				}
			case err := <-sub.Err():
				if err != nil {
					logger.Error("Processed feed subscription failed", "error", err)
				}
				return
			}
		}
	}()
}
