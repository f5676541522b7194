package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/bizdex/internal/db"
)

// Search runs FT.SEARCH with pagination, optional scores and sorting.
func (s *Store) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	args, err := buildSearchArgs(q)
	if err != nil {
		return nil, err
	}

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Key: q.IndexName, Err: err}
	}

	return parseSearchResult(raw, q.WithScores, q.NoContent)
}

// Aggregate runs FT.AGGREGATE and returns the projected rows in order.
func (s *Store) Aggregate(ctx context.Context, q *db.AggregateQuery) ([]map[string]string, error) {
	args, err := buildAggregateArgs(q)
	if err != nil {
		return nil, err
	}

	cmd := s.b().Arbitrary("FT.AGGREGATE").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpAggregate, Key: q.IndexName, Err: err}
	}

	return parseAggregateResult(raw), nil
}

// SearchCount returns the match count via FT.SEARCH with LIMIT 0 0.
func (s *Store) SearchCount(ctx context.Context, index, query string) (int, error) {
	cmd := s.b().Arbitrary("FT.SEARCH").Args(index, query, "LIMIT", "0", "0", "DIALECT", "2").Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return 0, &db.Error{Op: db.OpSearch, Key: index, Err: err}
	}
	if len(raw) == 0 {
		return 0, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}
	return int(total), nil
}

// --- Argument building ---

func buildSearchArgs(q *db.SearchQuery) ([]string, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if q.Query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if q.Offset < 0 || q.Limit < 0 {
		return nil, fmt.Errorf("offset and limit must not be negative")
	}

	args := []string{q.IndexName, q.Query}

	if q.NoContent {
		args = append(args, "NOCONTENT")
	}
	if q.WithScores {
		args = append(args, "WITHSCORES")
	}
	if len(q.ReturnFields) > 0 && !q.NoContent {
		args = append(args, "RETURN", strconv.Itoa(len(q.ReturnFields)))
		args = append(args, q.ReturnFields...)
	}
	if q.SortBy != "" {
		dir := "ASC"
		if q.SortDesc {
			dir = "DESC"
		}
		args = append(args, "SORTBY", q.SortBy, dir)
	}

	args = append(args,
		"LIMIT", strconv.Itoa(q.Offset), strconv.Itoa(q.Limit),
		"DIALECT", "2",
	)
	return args, nil
}

func buildAggregateArgs(q *db.AggregateQuery) ([]string, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if q.Query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if q.Offset < 0 || q.Limit < 0 {
		return nil, fmt.Errorf("offset and limit must not be negative")
	}

	args := []string{q.IndexName, q.Query}

	if len(q.Load) > 0 {
		args = append(args, "LOAD", strconv.Itoa(len(q.Load)))
		for _, f := range q.Load {
			args = append(args, "@"+f)
		}
	}
	for _, p := range q.Apply {
		if p.Expr == "" || p.Alias == "" {
			return nil, fmt.Errorf("apply requires expression and alias")
		}
		args = append(args, "APPLY", p.Expr, "AS", p.Alias)
	}
	if len(q.SortBy) > 0 {
		args = append(args, "SORTBY", strconv.Itoa(len(q.SortBy)*2))
		for _, k := range q.SortBy {
			dir := "ASC"
			if k.Desc {
				dir = "DESC"
			}
			args = append(args, "@"+k.Field, dir)
		}
	}

	args = append(args,
		"LIMIT", strconv.Itoa(q.Offset), strconv.Itoa(q.Limit),
		"DIALECT", "2",
	)
	return args, nil
}

// --- Result parsing ---

func parseSearchResult(raw []rueidis.RedisMessage, withScores, noContent bool) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}

	// [total, key, (score)?, (fields)?, ...]
	stride := 1
	if withScores {
		stride++
	}
	if !noContent {
		stride++
	}

	entries := make([]db.SearchEntry, 0, (len(raw)-1)/stride)
	for i := 1; i+stride-1 < len(raw); i += stride {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}
		entry := db.SearchEntry{Key: key}

		next := i + 1
		if withScores {
			scoreStr, err := raw[next].ToString()
			if err != nil {
				continue
			}
			score, err := strconv.ParseFloat(scoreStr, 64)
			if err != nil {
				continue
			}
			entry.Score = score
			next++
		}
		if !noContent {
			fields, err := raw[next].ToArray()
			if err != nil {
				continue
			}
			entry.Fields = parseFieldPairs(fields)
		}

		entries = append(entries, entry)
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

// parseAggregateResult reads [total, [k, v, ...], [k, v, ...], ...].
func parseAggregateResult(raw []rueidis.RedisMessage) []map[string]string {
	if len(raw) <= 1 {
		return nil
	}
	rows := make([]map[string]string, 0, len(raw)-1)
	for _, r := range raw[1:] {
		pairs, err := r.ToArray()
		if err != nil {
			continue
		}
		rows = append(rows, parseFieldPairs(pairs))
	}
	return rows
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}
