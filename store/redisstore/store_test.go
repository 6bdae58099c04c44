package redisstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	ticketreg "github.com/ssoforge/ticketreg"
)

func newRedisStoreTest(t *testing.T, opts ...Option) (*Store, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := New(rdb, opts...)
	return store, func() {
		rdb.Close()
		mr.Close()
	}
}

func testTicket(id string) *ticketreg.TicketGrantingTicket {
	return &ticketreg.TicketGrantingTicket{
		TicketID: id,
		Authentication: &ticketreg.Authentication{
			PrincipalID: "casuser",
			Attributes:  map[string][]string{"email": {"casuser@example.org"}},
		},
		Expiry: ticketreg.NeverExpires(time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)),
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	store, done := newRedisStoreTest(t)
	defer done()
	ctx := context.Background()

	if err := store.Put(ctx, testTicket("TGT-1")); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := store.Get(ctx, "TGT-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	tgt, ok := got.(*ticketreg.TicketGrantingTicket)
	if !ok {
		t.Fatalf("got %T, want *TicketGrantingTicket", got)
	}
	if tgt.Authentication.PrincipalID != "casuser" {
		t.Fatalf("principal = %q", tgt.Authentication.PrincipalID)
	}

	if _, err := store.Get(ctx, "TGT-missing"); !errors.Is(err, ticketreg.ErrTicketNotFound) {
		t.Fatalf("missing get = %v, want ErrTicketNotFound", err)
	}
}

func TestDeleteSingleIdempotent(t *testing.T) {
	store, done := newRedisStoreTest(t)
	defer done()
	ctx := context.Background()

	if err := store.Put(ctx, testTicket("TGT-1")); err != nil {
		t.Fatalf("put: %v", err)
	}
	removed, err := store.DeleteSingle(ctx, "TGT-1")
	if err != nil || removed != 1 {
		t.Fatalf("first delete = (%d, %v), want (1, nil)", removed, err)
	}
	removed, err = store.DeleteSingle(ctx, "TGT-1")
	if err != nil || removed != 0 {
		t.Fatalf("second delete = (%d, %v), want (0, nil)", removed, err)
	}
}

func TestStreamEnumeratesAllEntries(t *testing.T) {
	store, done := newRedisStoreTest(t, WithPrefix("tt"))
	defer done()
	ctx := context.Background()

	ids := []string{"TGT-1", "TGT-2", "ST-1"}
	for _, id := range ids {
		if err := store.Put(ctx, testTicket(id)); err != nil {
			t.Fatalf("put %s: %v", id, err)
		}
	}

	seq, err := store.Stream(ctx)
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	seen := map[string]bool{}
	for ticket, err := range seq {
		if err != nil {
			t.Fatalf("element: %v", err)
		}
		seen[ticket.ID()] = true
	}
	for _, id := range ids {
		if !seen[id] {
			t.Fatalf("stream missed %s", id)
		}
	}
}

func TestRegistryOverRedisStore(t *testing.T) {
	store, done := newRedisStoreTest(t)
	defer done()
	ctx := context.Background()

	cipher, err := ticketreg.NewAESCipher([]byte("0123456789abcdef"))
	if err != nil {
		t.Fatalf("cipher: %v", err)
	}
	registry, err := ticketreg.New().WithStore(store).WithCipher(cipher).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if err := registry.AddTicket(ctx, testTicket("TGT-1")); err != nil {
		t.Fatalf("add: %v", err)
	}
	got, err := registry.GetTicketGrantingTicket(ctx, "TGT-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Authentication.PrincipalID != "casuser" {
		t.Fatalf("principal = %q", got.Authentication.PrincipalID)
	}
	if n := registry.SessionCount(ctx); n != 1 {
		t.Fatalf("session count = %d, want 1", n)
	}

	count, err := registry.DeleteTicket(ctx, "TGT-1")
	if err != nil || count != 1 {
		t.Fatalf("delete = (%d, %v), want (1, nil)", count, err)
	}
}

func TestTTLBackstopApplied(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	store := New(rdb, WithTTL(time.Hour))
	ctx := context.Background()

	if err := store.Put(ctx, testTicket("TGT-1")); err != nil {
		t.Fatalf("put: %v", err)
	}
	ttl := rdb.TTL(ctx, "trg:TGT-1").Val()
	if ttl <= 0 || ttl > time.Hour {
		t.Fatalf("ttl = %v, want (0, 1h]", ttl)
	}
}
