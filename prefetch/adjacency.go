package prefetch

import (
	"context"

	"github.com/aluiziolira/swell-carousel/models"
	"golang.org/x/sync/errgroup"
)

// Batch is the settled preload of one recommendation in a list.
type Batch struct {
	Index    int
	Outcomes []Outcome
}

// AdjacentIndices returns the circular next and previous positions around
// current. ok is false for an empty list.
func AdjacentIndices(length, current int) (next, prev int, ok bool) {
	if length <= 0 {
		return 0, 0, false
	}
	current = ((current % length) + length) % length
	return (current + 1) % length, (current - 1 + length) % length, true
}

// WarmNeighbors preloads every image of the circular next and previous
// recommendations. With a single recommendation both batches target it.
func (s *Scheduler) WarmNeighbors(ctx context.Context, list []models.Recommendation, current int) []Batch {
	next, prev, ok := AdjacentIndices(len(list), current)
	if !ok {
		return nil
	}
	s.metrics.IncBatch("neighbors")

	batches := []Batch{{Index: next}, {Index: prev}}
	var g errgroup.Group
	for i := range batches {
		g.Go(func() error {
			batches[i].Outcomes = s.PreloadRecommendation(ctx, list[batches[i].Index])
			return nil
		})
	}
	_ = g.Wait()
	return batches
}
