package redis

import (
	"context"

	"github.com/kailas-cloud/bizdex/internal/db"
)

// CreateIndex runs FT.CREATE for the definition. An existing index yields db.ErrIndexExists.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	args, err := def.Args()
	if err != nil {
		return err
	}

	cmd := s.b().Arbitrary("FT.CREATE").Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "index already exists") {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateIndex, Key: def.Name, Err: err}
	}
	return nil
}

// IndexExists probes the index via FT.INFO.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	cmd := s.b().Arbitrary("FT.INFO").Args(name).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isUnknownIndex(err) {
			return false, nil
		}
		return false, &db.Error{Op: db.OpIndexInfo, Key: name, Err: err}
	}
	return true, nil
}

// isUnknownIndex matches both the Redis Stack and Redis 8 wording of a missing index.
func isUnknownIndex(err error) bool {
	return isRedisErr(err, "unknown index name") || isRedisErr(err, "no such index")
}
