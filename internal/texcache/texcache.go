// Package texcache keeps panorama cubemaps resident in a rendering backend.
// Each location's imagery is decoded and uploaded at most once per scan;
// entries are only dropped together, by Release.
package texcache

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/panosim/internal/backend"
	"github.com/Faultbox/panosim/internal/navgraph"
)

// ErrAssetLoad is returned when a panorama's imagery is missing or corrupt.
var ErrAssetLoad = errors.New("asset load failed")

// Decoder loads the six cubemap faces of one viewpoint.
type Decoder interface {
	LoadFaces(scanID, viewpointID string) (backend.Faces, error)
}

// Stats counts cache activity since the cache was created.
type Stats struct {
	Hits   int
	Misses int
	Loads  int
}

// Cache binds location textures on demand.
type Cache struct {
	backend backend.Backend
	decoder Decoder
	logger  *zap.Logger
	stats   Stats
}

// New creates a cache. A nil logger disables logging.
func New(b backend.Backend, d Decoder, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{backend: b, decoder: d, logger: logger}
}

// EnsureLoaded makes sure loc has a live texture. It does nothing if the
// backend already knows loc.Texture.
func (c *Cache) EnsureLoaded(scanID string, loc *navgraph.Location) error {
	if loc.Texture != 0 && c.backend.IsTexture(loc.Texture) {
		c.stats.Hits++
		return nil
	}
	c.stats.Misses++

	faces, err := c.decoder.LoadFaces(scanID, loc.ID)
	if err != nil {
		return fmt.Errorf("%w: viewpoint %s in scan %s: %w", ErrAssetLoad, loc.ID, scanID, err)
	}
	id, err := c.backend.UploadCubemap(faces)
	if err != nil {
		return fmt.Errorf("uploading cubemap for %s: %w", loc.ID, err)
	}
	loc.Texture = id
	c.stats.Loads++

	c.logger.Debug("texture loaded",
		zap.String("scan", scanID),
		zap.String("viewpoint", loc.ID),
		zap.Uint32("texture", uint32(id)))
	return nil
}

// Release deletes every texture held by locs and clears the handles. It
// returns the number of textures deleted.
func (c *Cache) Release(locs []navgraph.Location) int {
	n := 0
	for i := range locs {
		if locs[i].Texture == 0 {
			continue
		}
		if c.backend.IsTexture(locs[i].Texture) {
			c.backend.DeleteTexture(locs[i].Texture)
			n++
		}
		locs[i].Texture = 0
	}
	if n > 0 {
		c.logger.Info("textures released", zap.Int("count", n))
	}
	return n
}

// Stats returns the cache counters.
func (c *Cache) Stats() Stats {
	return c.stats
}
