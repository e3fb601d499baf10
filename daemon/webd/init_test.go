package webd

import (
	"path/filepath"
	"testing"

	"github.com/rotblauer/catseg/api"
	"github.com/rotblauer/catseg/params"
	"github.com/rotblauer/catseg/state"
)

// newTestWebDaemon creates a WebDaemon backed by a store in a temporary directory.
func newTestWebDaemon(t *testing.T) *WebDaemon {
	t.Helper()
	config := params.DefaultTestWebDaemonConfig()
	config.DataDir = t.TempDir()
	store, err := state.Open(filepath.Join(config.DataDir, params.StateDBName), false)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return NewWebDaemon(config, api.NewProcessor(nil, nil, store))
}
