package geo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alitto/pond/v2"

	"github.com/couchcryptid/eruption-atlas/internal/domain"
)

// defaultChunkSize is the number of points one worker task locates.
const defaultChunkSize = 512

// Match is the join outcome for one point. Polygon indexes into
// JoinResult.Polygons and is -1 when no polygon matched.
type Match struct {
	Polygon int
	Status  domain.GeoStatus
}

// JoinResult is the left-join of points against polygons. Matches[i] belongs to
// Table.Points[i].
type JoinResult struct {
	Matches  []Match
	Polygons []domain.CountryPolygon
	Dropped  []error
}

// Joiner performs CRS alignment and point-in-polygon matching.
type Joiner struct {
	workers   int
	chunkSize int
	logger    *slog.Logger
}

// NewJoiner creates a Joiner. workers <= 1 runs the join on the calling goroutine.
func NewJoiner(workers int, logger *slog.Logger) *Joiner {
	if workers < 1 {
		workers = 1
	}
	return &Joiner{workers: workers, chunkSize: defaultChunkSize, logger: logger}
}

// Join reprojects the polygons into the point CRS, indexes them and locates
// every usable point. A point outside every polygon is a valid outcome, not an
// error. Malformed polygons are dropped from the index and reported in Dropped.
func (j *Joiner) Join(ctx context.Context, t *Table) (*JoinResult, error) {
	polys, err := Reproject(t.Polygons, t.PolygonCRS, t.PointCRS)
	if err != nil {
		return nil, fmt.Errorf("reproject boundaries: %w", err)
	}

	kept := make([]domain.CountryPolygon, 0, len(polys))
	var dropped []error
	for _, p := range polys {
		if err := validatePolygon(p); err != nil {
			j.logger.Warn("dropping polygon from join", "country", p.Name, "error", err)
			dropped = append(dropped, err)
			continue
		}
		kept = append(kept, p)
	}

	ix := NewIndex(kept)
	j.logger.Debug("spatial index built", "polygons", ix.Len(), "dropped", len(dropped))
	matches := make([]Match, len(t.Points))
	locate := func(start, end int) {
		for i := start; i < end; i++ {
			matches[i] = locatePoint(ix, t.Points[i])
		}
	}

	if j.workers == 1 || len(t.Points) <= j.chunkSize {
		for start := 0; start < len(t.Points); start += j.chunkSize {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			locate(start, min(start+j.chunkSize, len(t.Points)))
		}
	} else if err := j.locateParallel(ctx, len(t.Points), locate); err != nil {
		return nil, err
	}

	return &JoinResult{Matches: matches, Polygons: kept, Dropped: dropped}, nil
}

// locateParallel splits [0, n) into contiguous chunks on a worker pool. Each
// chunk writes only its own slots, so output order matches input order.
func (j *Joiner) locateParallel(ctx context.Context, n int, locate func(start, end int)) error {
	pool := pond.NewPool(j.workers)
	defer pool.StopAndWait()

	group := pool.NewGroupContext(ctx)
	for start := 0; start < n; start += j.chunkSize {
		end := min(start+j.chunkSize, n)
		group.Submit(func() {
			locate(start, end)
		})
	}

	if err := group.Wait(); err != nil && !errors.Is(err, pond.ErrGroupStopped) {
		return err
	}
	return ctx.Err()
}

func locatePoint(ix *Index, p Point) Match {
	if !p.Usable() {
		return Match{Polygon: -1, Status: p.Status}
	}
	if i := ix.Locate(p.Coord); i >= 0 {
		return Match{Polygon: i, Status: domain.GeoMatched}
	}
	return Match{Polygon: -1, Status: domain.GeoUnmatched}
}
