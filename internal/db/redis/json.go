package redis

import (
	"context"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/bizdex/internal/db"
)

// JSONSet stores a JSON document at the given key and path.
func (s *Store) JSONSet(ctx context.Context, key, path string, data []byte) error {
	cmd := s.b().Arbitrary("JSON.SET").Keys(key).Args(path, string(data)).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpJSONSet, Key: key, Err: err}
	}
	return nil
}

// JSONGet retrieves a JSON document by key and optional paths.
func (s *Store) JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error) {
	args := make([]string, len(paths))
	copy(args, paths)

	cmd := s.b().Arbitrary("JSON.GET").Keys(key).Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpJSONGet, Key: key, Err: err}
	}
	if raw == "" {
		return nil, db.ErrKeyNotFound
	}
	return []byte(raw), nil
}

// JSONGetMulti fetches whole documents for several keys in one DoMulti round-trip.
// A key that vanished between search and fetch yields a nil entry.
func (s *Store) JSONGetMulti(ctx context.Context, keys []string) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	cmds := make([]rueidis.Completed, len(keys))
	for i, key := range keys {
		cmds[i] = s.b().Arbitrary("JSON.GET").Keys(key).Build()
	}

	results := s.client.DoMulti(ctx, cmds...)
	out := make([][]byte, len(results))
	for i, res := range results {
		raw, err := res.ToString()
		if err != nil {
			if rueidis.IsRedisNil(err) {
				continue
			}
			return nil, &db.Error{Op: db.OpJSONGet, Key: keys[i], Err: err}
		}
		if raw != "" {
			out[i] = []byte(raw)
		}
	}
	return out, nil
}
