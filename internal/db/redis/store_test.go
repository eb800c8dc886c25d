package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/novelsearch/internal/db"
)

const statsKey = "novelsearch:cache:stats:user_stats_u1"

func newMockStore(t *testing.T) (*Store, *mock.Client) {
	t.Helper()
	c := mock.NewClient(gomock.NewController(t))
	return NewStoreForTest(c), c
}

// --- client.go tests ---

func TestPing(t *testing.T) {
	s, c := newMockStore(t)
	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	s, c := newMockStore(t)
	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	err := s.Ping(context.Background())
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpPing {
		t.Fatalf("expected db.Error with op PING, got %v", err)
	}
}

func TestWaitForReady_RecoversAfterFailures(t *testing.T) {
	s, c := newMockStore(t)
	gomock.InOrder(
		c.EXPECT().
			Do(gomock.Any(), mock.Match("PING")).
			Return(mock.ErrorResult(errors.New("connection refused"))).
			Times(2),
		c.EXPECT().
			Do(gomock.Any(), mock.Match("PING")).
			Return(mock.Result(mock.RedisString("PONG"))),
	)

	if err := s.WaitForReady(context.Background(), 2*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWaitForReady_TimeoutKeepsLastError(t *testing.T) {
	s, c := newMockStore(t)
	refused := errors.New("connection refused")
	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(refused)).
		AnyTimes()

	err := s.WaitForReady(context.Background(), 250*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if !errors.Is(err, refused) {
		t.Errorf("expected last ping error, got %v", err)
	}
}

func TestNewStore_RequiresAddrs(t *testing.T) {
	if _, err := NewStore(Config{}); err == nil {
		t.Fatal("expected error for empty addrs")
	}
}

// --- kv.go tests ---

func TestGet(t *testing.T) {
	tests := []struct {
		name    string
		result  rueidis.RedisResult
		want    string
		wantErr func(error) bool
	}{
		{
			name:   "hit",
			result: mock.Result(mock.RedisBlobString(`{"value":{"posts":3},"timestamp":"2024-05-01T00:00:00Z"}`)),
			want:   `{"value":{"posts":3},"timestamp":"2024-05-01T00:00:00Z"}`,
		},
		{
			name:    "expired or missing",
			result:  mock.Result(mock.RedisNil()),
			wantErr: func(err error) bool { return errors.Is(err, db.ErrKeyNotFound) },
		},
		{
			name:   "network error",
			result: mock.ErrorResult(errors.New("broken pipe")),
			wantErr: func(err error) bool {
				var dbErr *db.Error
				return errors.As(err, &dbErr) && dbErr.Op == db.OpGet && !errors.Is(err, db.ErrKeyNotFound)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, c := newMockStore(t)
			c.EXPECT().Do(gomock.Any(), mock.Match("GET", statsKey)).Return(tt.result)

			data, err := s.Get(context.Background(), statsKey)
			if tt.wantErr != nil {
				if !tt.wantErr(err) {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("data = %s", data)
			}
		})
	}
}

func TestSetWithTTL(t *testing.T) {
	tests := []struct {
		name string
		ttl  time.Duration
		cmd  []string
	}{
		{"no expiry", 0, []string{"SET", statsKey, "v"}},
		{"negative never expires", -time.Second, []string{"SET", statsKey, "v"}},
		{"sub-second rounds up to one", 500 * time.Millisecond, []string{"SET", statsKey, "v", "EX", "1"}},
		{"stats retention", 10 * time.Minute, []string{"SET", statsKey, "v", "EX", "600"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, c := newMockStore(t)
			c.EXPECT().
				Do(gomock.Any(), mock.Match(tt.cmd...)).
				Return(mock.Result(mock.RedisString("OK")))

			if err := s.SetWithTTL(context.Background(), statsKey, []byte("v"), tt.ttl); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestSet_NoExpiry(t *testing.T) {
	s, c := newMockStore(t)
	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "novelsearch:cache:contests:contest_tag_夏", "[]")).
		Return(mock.Result(mock.RedisString("OK")))

	if err := s.Set(context.Background(), "novelsearch:cache:contests:contest_tag_夏", []byte("[]")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSet_Error(t *testing.T) {
	s, c := newMockStore(t)
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool { return cmd[0] == "SET" })).
		Return(mock.ErrorResult(errors.New("READONLY")))

	err := s.Set(context.Background(), "k", []byte("v"))
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpSet {
		t.Fatalf("expected db.Error with op SET, got %v", err)
	}
}

func TestDel(t *testing.T) {
	s, c := newMockStore(t)
	c.EXPECT().
		Do(gomock.Any(), mock.Match("DEL", statsKey)).
		Return(mock.Result(mock.RedisInt64(0)))

	if err := s.Del(context.Background(), statsKey); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
