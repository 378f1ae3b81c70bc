package texture

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/Garsondee/Drift-Gallery/internal/logging"
)

// Loaded is a finished full-resolution fetch.
type Loaded struct {
	Index int
	Image image.Image
	Err   error
}

// Store keeps full-resolution images in a cost-bounded cache, loading misses
// in the background. Unlike Cache it may evict.
type Store struct {
	loader Loader
	cache  *ristretto.Cache[int, image.Image]
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	inflight map[int]bool
	done     []Loaded
}

// NewStore creates a store holding roughly maxBytes of decoded pixels.
func NewStore(loader Loader, maxBytes int64, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	cache, err := ristretto.NewCache(&ristretto.Config[int, image.Image]{
		NumCounters: 10000,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("overlay cache: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Store{
		loader:   loader,
		cache:    cache,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		inflight: make(map[int]bool),
	}, nil
}

// Fetch returns the cached image for index. On a miss it starts a load,
// unless one is already running, and reports false.
func (s *Store) Fetch(index int) (image.Image, bool) {
	if img, ok := s.cache.Get(index); ok {
		return img, true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[index] {
		return nil, false
	}
	s.inflight[index] = true
	s.wg.Add(1)
	go s.load(index)
	return nil, false
}

func (s *Store) load(index int) {
	defer s.wg.Done()
	img, err := s.loader.Load(s.ctx, index)
	s.mu.Lock()
	s.done = append(s.done, Loaded{Index: index, Image: img, Err: err})
	s.mu.Unlock()
}

// Poll returns loads finished since the last call and caches the successes.
func (s *Store) Poll() []Loaded {
	s.mu.Lock()
	done := s.done
	s.done = nil
	for _, l := range done {
		delete(s.inflight, l.Index)
	}
	s.mu.Unlock()

	for _, l := range done {
		if l.Err != nil {
			s.logger.Warn("full image load failed", "index", l.Index, "error", l.Err)
			continue
		}
		s.cache.Set(l.Index, l.Image, pixelCost(l.Image))
	}
	if len(done) > 0 {
		s.cache.Wait()
	}
	return done
}

// Wait blocks until running loads finish.
func (s *Store) Wait() {
	s.wg.Wait()
}

// Close cancels loads and releases the cache.
func (s *Store) Close() {
	s.cancel()
	s.wg.Wait()
	s.cache.Close()
}

func pixelCost(img image.Image) int64 {
	b := img.Bounds()
	return int64(b.Dx()) * int64(b.Dy()) * 4
}
