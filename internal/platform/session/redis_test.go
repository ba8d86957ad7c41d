package session

import (
	"car_rental/internal/platform/config"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*RevocationStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRevocationStore(rdb), mr
}

func TestRevocationStore_RevokeAndExpire(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	tokenID := uuid.NewString()

	revoked, err := store.IsRevoked(ctx, tokenID)
	if err != nil || revoked {
		t.Fatalf("fresh token: revoked=%t err=%v", revoked, err)
	}

	if err := store.Revoke(ctx, tokenID, time.Minute); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	revoked, err = store.IsRevoked(ctx, tokenID)
	if err != nil || !revoked {
		t.Fatalf("after revoke: revoked=%t err=%v", revoked, err)
	}
	if ttl := mr.TTL(revokedKeyPrefix + tokenID); ttl != time.Minute {
		t.Fatalf("ttl = %s, want 1m", ttl)
	}

	mr.FastForward(time.Minute + time.Second)
	revoked, err = store.IsRevoked(ctx, tokenID)
	if err != nil || revoked {
		t.Fatalf("after expiry: revoked=%t err=%v", revoked, err)
	}
}

func TestRevocationStore_ExpiredTokenIsNotStored(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	tokenID := uuid.NewString()

	if err := store.Revoke(ctx, tokenID, -time.Minute); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if mr.Exists(revokedKeyPrefix + tokenID) {
		t.Fatalf("expired token stored")
	}
}

func TestRevocationStore_ServerDown(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	mr.Close()

	if err := store.Ping(ctx); err == nil {
		t.Fatalf("ping should fail once the server is gone")
	}
	if err := store.Revoke(ctx, "abc", time.Minute); err == nil {
		t.Fatalf("revoke should fail once the server is gone")
	}
	if _, err := store.IsRevoked(ctx, "abc"); err == nil {
		t.Fatalf("is-revoked should fail once the server is gone")
	}
}

func TestConnectRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	prev := config.AppConfig
	t.Cleanup(func() {
		CloseRedis()
		RDB = nil
		config.AppConfig = prev
	})
	config.AppConfig = &config.Config{RedisAddr: mr.Addr()}

	if err := ConnectRedis(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := NewRevocationStore(RDB).Revoke(context.Background(), "tok", time.Hour); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if !mr.Exists(revokedKeyPrefix + "tok") {
		t.Fatalf("revocation not written through the shared client")
	}
}
