package params

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"time"
)

var DatadirRoot = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	return filepath.Join(home, ".catseg")
}()

const (
	StateDBName = "state.db"

	TracksGZFileName     = "tracks.geojson.gz"
	CompressedGZFileName = "compressed.geojson.gz"
	ZippedGZFileName     = "zipped.geojson.gz"
)

var StateTracksBucket = []byte("tracks")

var DefaultGZipCompressionLevel = gzip.BestCompression

// DefaultDedupeCacheSize bounds the recent-fix cache used to drop duplicate
// points while ingesting.
var DefaultDedupeCacheSize = 10_000

// AWS_BUCKETNAME is the bucket processed tracks are uploaded to, if set.
var AWS_BUCKETNAME = os.Getenv("AWS_BUCKETNAME")

// DefaultMilestoneKm is the distance between milestones along a track.
var DefaultMilestoneKm = 1.0

var (
	CacheResultTTL  = 1 * time.Hour
	CachePlacemarkN = 4096
)

var StateSummariesBucket = []byte("summaries")
