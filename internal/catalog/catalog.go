// Package catalog discovers the numbered image assets and builds the startup
// image pairing.
package catalog

import (
	"context"
	"log/slog"

	"github.com/Garsondee/Drift-Gallery/internal/logging"
	"github.com/Garsondee/Drift-Gallery/internal/prng"
)

// DiscoverCount requests images 0, 1, 2, ... in order until one fails and
// returns how many succeeded. Any failure ends the probe; nothing is retried.
func DiscoverCount(ctx context.Context, src Source, logger *slog.Logger) int {
	if logger == nil {
		logger = logging.NewNop()
	}
	count := 0
	for {
		name := ImagePath(count)
		rc, err := src.Open(ctx, name)
		if err != nil {
			logger.Debug("image probe stopped", "index", count, "asset", name, "error", err)
			return count
		}
		_ = rc.Close()
		count++
	}
}

// Pair is two image indices grouped at startup.
type Pair struct {
	A int
	B int
}

// BuildPairs shuffles [0, count) with rng and pairs neighbours in the shuffled
// order. An odd trailing index is paired with a random earlier entry.
func BuildPairs(count int, rng *prng.Mulberry32) []Pair {
	if count <= 0 {
		return nil
	}
	order := make([]int, count)
	for i := range order {
		order[i] = i
	}
	for i := count - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		order[i], order[j] = order[j], order[i]
	}

	pairs := make([]Pair, 0, (count+1)/2)
	for i := 0; i+1 < count; i += 2 {
		pairs = append(pairs, Pair{A: order[i], B: order[i+1]})
	}
	if count%2 == 1 {
		partner := rng.Intn(count - 1)
		pairs = append(pairs, Pair{A: order[count-1], B: order[partner]})
	}
	return pairs
}
