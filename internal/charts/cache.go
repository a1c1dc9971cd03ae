package charts

import (
	"bytes"
	"fmt"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const megabyte = 1024 * 1024

// RenderCache keeps rendered PNGs per history version and slot, so repeated
// chart fetches between two submissions don't re-render.
type RenderCache struct {
	cache    *freecache.Cache
	renderer *Renderer
}

func NewRenderCache(cacheSizeMegabytes int, renderer *Renderer) *RenderCache {
	return &RenderCache{
		cache:    freecache.NewCache(cacheSizeMegabytes * megabyte),
		renderer: renderer,
	}
}

func cacheKey(version int, slot Slot) []byte {
	return []byte(fmt.Sprintf("%d::%s", version, slot))
}

// PNG returns the rendered chart for the given history version,
// and whether it came from the cache.
func (rc *RenderCache) PNG(version int, c Chart) (_ []byte, cached bool, err error) {
	key := cacheKey(version, c.Slot)
	if pngBytes, err := rc.cache.Get(key); err == nil {
		return pngBytes, true, nil
	}

	var buf bytes.Buffer
	if err := rc.renderer.RenderPNG(c, &buf); err != nil {
		return nil, false, err
	}

	// too large entries are just not cached
	if err := rc.cache.Set(key, buf.Bytes(), 0); err != nil {
		log.Debugf("chart [%s] for version %d not cached: %s", c.Slot, version, err)
	}

	return buf.Bytes(), false, nil
}

func (rc *RenderCache) EntryCount() int64 {
	return rc.cache.EntryCount()
}

func (rc *RenderCache) Clear() {
	rc.cache.Clear()
}
