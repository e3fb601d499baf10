// Package state persists processed tracks and their segment summaries in bbolt.
package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/rotblauer/catseg/params"
	"github.com/rotblauer/catseg/types/track"
	"go.etcd.io/bbolt"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	DB    *bbolt.DB
	rOnly bool
}

// Open opens or creates the state database at path.
// Opening a writable DB blocks all other writers and readers with a file lock.
func Open(path string, readOnly bool) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0770); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{ReadOnly: readOnly})
	if err != nil {
		return nil, err
	}
	return &Store{DB: db, rOnly: readOnly}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

func (s *Store) storeKV(bucket, key, data []byte) error {
	if key == nil {
		return fmt.Errorf("storeKV: nil key")
	}
	if data == nil {
		return fmt.Errorf("storeKV: nil data")
	}
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucket)
		if err != nil {
			return err
		}
		return b.Put(key, data)
	})
}

func (s *Store) readKV(bucket, key []byte) ([]byte, error) {
	var out []byte
	err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return ErrNotFound
		}
		// The value returned by Get is only valid in the scope of the transaction.
		got := b.Get(key)
		if got == nil {
			return ErrNotFound
		}
		out = bytes.Clone(got)
		return nil
	})
	return out, err
}

// PutTrack stores the processed track under key.
func (s *Store) PutTrack(key string, t *track.Track) error {
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return s.storeKV(params.StateTracksBucket, []byte(key), b)
}

// GetTrack returns the track stored under key, or ErrNotFound.
func (s *Store) GetTrack(key string) (*track.Track, error) {
	got, err := s.readKV(params.StateTracksBucket, []byte(key))
	if err != nil {
		return nil, err
	}
	t := &track.Track{}
	if err := json.Unmarshal(got, t); err != nil {
		return nil, fmt.Errorf("%w: %q", err, string(got))
	}
	return t, nil
}

// PutSummaries stores the summaries of one track under key,
// encoded as newline-delimited JSON.
func (s *Store) PutSummaries(key string, summaries []Summary) error {
	buf := bytes.NewBuffer([]byte{})
	enc := json.NewEncoder(buf)
	for _, sum := range summaries {
		if err := enc.Encode(sum); err != nil {
			return err
		}
	}
	return s.storeKV(params.StateSummariesBucket, []byte(key), buf.Bytes())
}

func decodeSummaries(data []byte) ([]Summary, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var out []Summary
	for {
		sum := Summary{}
		if err := dec.Decode(&sum); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		out = append(out, sum)
	}
	return out, nil
}

// Summaries returns the summaries stored under key, or ErrNotFound.
func (s *Store) Summaries(key string) ([]Summary, error) {
	got, err := s.readKV(params.StateSummariesBucket, []byte(key))
	if err != nil {
		return nil, err
	}
	return decodeSummaries(got)
}

// AllSummaries returns every stored summary once, ordered by date and start time.
func (s *Store) AllSummaries() ([]Summary, error) {
	var out []Summary
	seen := map[Summary]bool{}
	err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(params.StateSummariesBucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			sums, err := decodeSummaries(v)
			if err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
			for _, sum := range sums {
				if seen[sum] {
					continue
				}
				seen[sum] = true
				out = append(out, sum)
			}
			return nil
		})
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].TimeStart < out[j].TimeStart
	})
	return out, err
}
