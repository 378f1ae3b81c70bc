// Package texture loads gallery images in the background and hands them to the
// frame thread for upload. Tile textures are kept for the whole session;
// full-resolution images live in a bounded Store.
package texture

import (
	"context"
	"image"
	"log/slog"
	"sync"

	"github.com/Garsondee/Drift-Gallery/internal/logging"
)

// Loader produces the decoded image for an index.
type Loader interface {
	Load(ctx context.Context, index int) (image.Image, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, index int) (image.Image, error)

func (f LoaderFunc) Load(ctx context.Context, index int) (image.Image, error) {
	return f(ctx, index)
}

// Entry is a cache slot. Value is the zero T until Ready.
type Entry[T any] struct {
	Index  int
	Value  T
	Ready  bool
	Failed bool
}

type result struct {
	index int
	img   image.Image
	err   error
}

// Cache maps image index to an uploaded texture. Request never blocks; the
// upload function runs only inside Poll, on the caller's goroutine.
type Cache[T any] struct {
	loader Loader
	upload func(image.Image) T
	logger *slog.Logger

	entries map[int]*Entry[T]

	ctx    context.Context
	cancel context.CancelFunc
	sem    chan struct{}
	wg     sync.WaitGroup

	mu   sync.Mutex
	done []result
}

// NewCache starts a cache that runs at most workers loads at once.
func NewCache[T any](loader Loader, upload func(image.Image) T, workers int, logger *slog.Logger) *Cache[T] {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Cache[T]{
		loader:  loader,
		upload:  upload,
		logger:  logger,
		entries: make(map[int]*Entry[T]),
		ctx:     ctx,
		cancel:  cancel,
		sem:     make(chan struct{}, workers),
	}
}

// Request returns the entry for index, starting a load on first use.
func (c *Cache[T]) Request(index int) *Entry[T] {
	if e, ok := c.entries[index]; ok {
		return e
	}
	e := &Entry[T]{Index: index}
	c.entries[index] = e
	c.wg.Add(1)
	go c.load(index)
	return e
}

// Get returns the entry for index without starting a load.
func (c *Cache[T]) Get(index int) (*Entry[T], bool) {
	e, ok := c.entries[index]
	return e, ok
}

func (c *Cache[T]) load(index int) {
	defer c.wg.Done()
	select {
	case c.sem <- struct{}{}:
	case <-c.ctx.Done():
		return
	}
	img, err := c.loader.Load(c.ctx, index)
	<-c.sem

	c.mu.Lock()
	c.done = append(c.done, result{index: index, img: img, err: err})
	c.mu.Unlock()
}

// Poll uploads every finished load and returns how many became ready.
func (c *Cache[T]) Poll() int {
	c.mu.Lock()
	done := c.done
	c.done = nil
	c.mu.Unlock()

	ready := 0
	for _, r := range done {
		e := c.entries[r.index]
		if e == nil {
			continue
		}
		if r.err != nil {
			e.Failed = true
			c.logger.Warn("texture load failed", "index", r.index, "error", r.err)
			continue
		}
		e.Value = c.upload(r.img)
		e.Ready = true
		ready++
	}
	return ready
}

// Len returns the number of entries ever requested.
func (c *Cache[T]) Len() int {
	return len(c.entries)
}

// Pending returns how many entries are neither ready nor failed.
func (c *Cache[T]) Pending() int {
	n := 0
	for _, e := range c.entries {
		if !e.Ready && !e.Failed {
			n++
		}
	}
	return n
}

// Wait blocks until all started loads have finished.
func (c *Cache[T]) Wait() {
	c.wg.Wait()
}

// Close abandons queued loads and waits for running ones.
func (c *Cache[T]) Close() {
	c.cancel()
	c.wg.Wait()
}
