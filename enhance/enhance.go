// Package enhance implements the deterministic document-image enhancement
// pipeline: upscale, contrast normalize, sharpen, behind a content-digest
// cache. Identical input bytes always yield identical output bytes.
package enhance

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"sync/atomic"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/MatFragg/dniscan/observability"
)

// Config tunes the enhancement pipeline. The zero value is usable; zero
// fields take the defaults below.
type Config struct {
	// TargetWidth is the upscale target in pixels; narrower inputs are
	// resampled up to it, wider ones pass through.
	TargetWidth int
	// ContrastScale and ContrastOffset define the linear intensity rescale
	// v*scale+offset.
	ContrastScale  float64
	ContrastOffset int
	// Denoise enables the median pre-filter that was cut from the default
	// path for throughput.
	Denoise bool
	// JPEGQuality for the processed output.
	JPEGQuality int
	// CacheCapacity and CacheTTL bound the digest cache.
	CacheCapacity int
	CacheTTL      time.Duration
}

// DefaultConfig returns the tuned production settings.
func DefaultConfig() Config {
	return Config{
		TargetWidth:    2500,
		ContrastScale:  1.15,
		ContrastOffset: 8,
		JPEGQuality:    95,
		CacheCapacity:  256,
		CacheTTL:       10 * time.Minute,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.TargetWidth == 0 {
		c.TargetWidth = d.TargetWidth
	}
	if c.ContrastScale == 0 {
		c.ContrastScale = d.ContrastScale
	}
	if c.ContrastOffset == 0 {
		c.ContrastOffset = d.ContrastOffset
	}
	if c.JPEGQuality == 0 {
		c.JPEGQuality = d.JPEGQuality
	}
	if c.CacheCapacity == 0 {
		c.CacheCapacity = d.CacheCapacity
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = d.CacheTTL
	}
	return c
}

// Enhancer runs the pipeline. Safe for concurrent use; the cache is the only
// shared state.
type Enhancer struct {
	cfg          Config
	cache        *Cache
	log          observability.Logger
	computations atomic.Int64
	cacheHits    atomic.Int64
}

// Option configures an Enhancer.
type Option func(*Enhancer)

// WithLogger routes degradation warnings and cache telemetry to log.
func WithLogger(log observability.Logger) Option {
	return func(e *Enhancer) { e.log = log }
}

// WithCache injects a shared cache, for callers pooling several enhancers.
func WithCache(cache *Cache) Option {
	return func(e *Enhancer) { e.cache = cache }
}

// New builds an Enhancer.
func New(cfg Config, opts ...Option) *Enhancer {
	cfg = cfg.withDefaults()
	e := &Enhancer{cfg: cfg, log: observability.NopLogger{}}
	for _, opt := range opts {
		opt(e)
	}
	if e.cache == nil {
		e.cache = NewCache(cfg.CacheCapacity, cfg.CacheTTL)
	}
	return e
}

// Digest returns the hex-encoded blake2b-256 digest of data. It is the cache
// key for the enhancement of data.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Enhance returns the processed form of data. Byte-identical inputs hit the
// cache and skip recomputation. Undecodable input degrades to the original
// bytes unmodified rather than failing the request.
func (e *Enhancer) Enhance(data []byte) []byte {
	digest := Digest(data)
	if entry, ok := e.cache.Get(digest); ok {
		e.cacheHits.Add(1)
		e.log.Debug("enhancement cache hit", observability.String("digest", digest[:8]))
		return entry.Bytes
	}

	out, err := e.compute(data)
	if err != nil {
		e.log.Warn("enhancement failed, passing original bytes through",
			observability.Error("error", err))
		return data
	}

	e.cache.Put(CacheEntry{
		Digest:      digest,
		Bytes:       out,
		Filename:    processedFilename(digest),
		ContentType: "image/jpeg",
	})
	return out
}

func (e *Enhancer) compute(data []byte) ([]byte, error) {
	e.computations.Add(1)

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	n := toNRGBA(upscale(img, e.cfg.TargetWidth))
	adjustContrast(n, e.cfg.ContrastScale, e.cfg.ContrastOffset)
	n = sharpen(n)
	if e.cfg.Denoise {
		n = denoise(n)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, n, &jpeg.Options{Quality: e.cfg.JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode processed image: %w", err)
	}
	return buf.Bytes(), nil
}

// Computations reports how many full pipeline runs have happened. Cache hits
// do not count; the counter makes cache behavior observable.
func (e *Enhancer) Computations() int64 { return e.computations.Load() }

// CacheHits reports how many Enhance calls were served from the cache.
func (e *Enhancer) CacheHits() int64 { return e.cacheHits.Load() }

func processedFilename(digest string) string {
	return "processed_" + digest[:8] + ".jpg"
}
