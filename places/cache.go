package places

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/paulmach/orb"
	"github.com/rotblauer/catseg/common"
)

// CachedNamer remembers names of recently looked up positions,
// rounded to about a metre.
type CachedNamer struct {
	namer Namer
	cache *lru.Cache[string, string]
}

func NewCachedNamer(namer Namer, size int) (*CachedNamer, error) {
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &CachedNamer{namer: namer, cache: cache}, nil
}

func cacheKey(pt orb.Point) string {
	return fmt.Sprintf("%.*f,%.*f",
		common.GPSPrecision5, pt.Lat(), common.GPSPrecision5, pt.Lon())
}

func (c *CachedNamer) Name(pt orb.Point) string {
	key := cacheKey(pt)
	if name, ok := c.cache.Get(key); ok {
		return name
	}
	name := c.namer.Name(pt)
	c.cache.Add(key, name)
	return name
}

func (c *CachedNamer) Len() int {
	return c.cache.Len()
}
