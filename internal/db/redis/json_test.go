package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/bizdex/internal/db"
)

func TestJSONSet(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "JSON.SET" && cmd[1] == "bizdex:listing:a1" && cmd[2] == "$" && cmd[3] == `{"id":"a1"}`
		})).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.JSONSet(context.Background(), "bizdex:listing:a1", "$", []byte(`{"id":"a1"}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestJSONSet_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool { return cmd[0] == "JSON.SET" })).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	err := s.JSONSet(context.Background(), "bizdex:listing:a1", "$", []byte(`{}`))
	if !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline to be unwrappable, got %v", err)
	}
}

func TestJSONGet(t *testing.T) {
	tests := []struct {
		name    string
		result  rueidis.RedisResult
		want    string
		wantErr error
	}{
		{"found", mock.Result(mock.RedisString(`{"id":"a1"}`)), `{"id":"a1"}`, nil},
		{"nil reply", mock.Result(mock.RedisNil()), "", db.ErrKeyNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			c := mock.NewClient(ctrl)
			c.EXPECT().
				Do(gomock.Any(), mock.Match("JSON.GET", "bizdex:listing:a1")).
				Return(tc.result)

			s := NewStoreForTest(c)
			data, err := s.JSONGet(context.Background(), "bizdex:listing:a1")
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if string(data) != tc.want {
				t.Errorf("got %q, want %q", data, tc.want)
			}
		})
	}
}

func TestJSONGet_TransportError(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("JSON.GET", "bizdex:listing:a1")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	_, err := s.JSONGet(context.Background(), "bizdex:listing:a1")
	if errors.Is(err, db.ErrKeyNotFound) {
		t.Fatal("transport failure must not look like a missing key")
	}
	if !isDBError(err) {
		t.Errorf("expected db.Error, got %T", err)
	}
}

func TestJSONGetMulti(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisString(`{"id":"a"}`)),
			mock.Result(mock.RedisNil()),
		})

	s := NewStoreForTest(c)
	docs, err := s.JSONGetMulti(context.Background(), []string{"bizdex:listing:a", "bizdex:listing:gone"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(docs))
	}
	if string(docs[0]) != `{"id":"a"}` {
		t.Errorf("unexpected first doc %q", docs[0])
	}
	if docs[1] != nil {
		t.Errorf("expected nil for missing key, got %q", docs[1])
	}
}
