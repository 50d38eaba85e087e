package pipeline

import (
	"context"
	"fmt"

	"github.com/couchcryptid/navwarn-etl/internal/domain"
)

// MultiLoader fans a batch out to several loaders in order. The first
// failure aborts the batch, so a later loader never sees events an earlier
// one rejected.
type MultiLoader []BatchLoader

func (m MultiLoader) LoadBatch(ctx context.Context, events []domain.OutputEvent) error {
	for i, l := range m {
		if err := l.LoadBatch(ctx, events); err != nil {
			return fmt.Errorf("loader %d: %w", i, err)
		}
	}
	return nil
}
