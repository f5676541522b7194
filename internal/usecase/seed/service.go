package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	domlisting "github.com/kailas-cloud/bizdex/internal/domain/listing"
)

// Service loads the bundled sample listings into an empty index.
type Service struct {
	index       Index
	concurrency int
	logger      *zap.Logger
	drafts      func() []domlisting.Draft
}

// New creates a seeder. concurrency <= 0 saves one listing at a time.
func New(index Index, concurrency int, logger *zap.Logger) *Service {
	if concurrency <= 0 {
		concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{index: index, concurrency: concurrency, logger: logger, drafts: domlisting.Samples}
}

// Run saves the samples when the index holds no listings and returns how many were written.
// A populated index is left untouched.
func (s *Service) Run(ctx context.Context) (int, error) {
	existing, err := s.index.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count listings: %w", err)
	}
	if existing > 0 {
		s.logger.Info("Index already populated, skipping seed", zap.Int("listings", existing))
		return 0, nil
	}

	drafts := s.drafts()
	listings := make([]domlisting.Listing, 0, len(drafts))
	for _, d := range drafts {
		l, err := domlisting.New(d)
		if err != nil {
			return 0, fmt.Errorf("sample %q: %w", d.Name, err)
		}
		listings = append(listings, l)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range listings {
		l := &listings[i]
		g.Go(func() error {
			if err := s.index.Save(gctx, l); err != nil {
				return fmt.Errorf("save sample %q: %w", l.Name(), err)
			}
			s.logger.Debug("Seeded listing", zap.String("id", l.ID()), zap.String("name", l.Name()))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err //nolint:wrapcheck // already wrapped per listing
	}

	s.logger.Info("Seeded sample listings",
		zap.Int("listings", len(listings)),
		zap.Int("concurrency", s.concurrency),
	)
	return len(listings), nil
}
