package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	pkgredis "github.com/ricemandi/cart-service/pkg/redis"
)

func sampleLines() []Line {
	limit := 10
	return []Line{
		{ID: "p1", Name: "Basmati 5kg", UnitPrice: dec("120"), Quantity: 3, StockLimit: &limit},
		{ID: "p2", Name: "Jasmine 2kg", UnitPrice: dec("95.50"), Quantity: 2},
	}
}

func assertLinesEqual(t *testing.T, got, want []Line) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("line count mismatch: %d != %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Name != want[i].Name {
			t.Fatalf("line %d identity mismatch: %+v != %+v", i, got[i], want[i])
		}
		if !got[i].UnitPrice.Equal(want[i].UnitPrice) || got[i].Quantity != want[i].Quantity {
			t.Fatalf("line %d amounts mismatch: %+v != %+v", i, got[i], want[i])
		}
		switch {
		case got[i].StockLimit == nil && want[i].StockLimit == nil:
		case got[i].StockLimit != nil && want[i].StockLimit != nil && *got[i].StockLimit == *want[i].StockLimit:
		default:
			t.Fatalf("line %d stock limit mismatch: %+v != %+v", i, got[i].StockLimit, want[i].StockLimit)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	payload, err := encodeLines(sampleLines())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := decodeLines(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	assertLinesEqual(t, decoded, sampleLines())
}

func TestDecodeRejectsWrongShape(t *testing.T) {
	if _, err := decodeLines([]byte(`{"id":"p1"}`)); err == nil {
		t.Fatal("object payload should not decode as a line sequence")
	}
	if _, err := decodeLines([]byte("{not json")); err == nil {
		t.Fatal("garbage payload should not decode")
	}
	if lines, err := decodeLines(nil); err != nil || lines != nil {
		t.Fatalf("empty payload should decode to nil lines, got %v %v", lines, err)
	}
}

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.Load(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.Save(ctx, "s1", sampleLines()); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := store.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	assertLinesEqual(t, loaded, sampleLines())

	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Load(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestRedisStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	store := &RedisStore{client: fake, ttl: time.Hour}

	if _, err := store.Load(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.Save(ctx, "s1", sampleLines()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if fake.lastTTL != time.Hour {
		t.Fatalf("expected TTL to be applied, got %v", fake.lastTTL)
	}

	loaded, err := store.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	assertLinesEqual(t, loaded, sampleLines())

	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Load(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestRedisStoreReportsCorruptPayload(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	fake.data[fake.CartKey("s1")] = "{not json"
	store := &RedisStore{client: fake, ttl: time.Hour}

	if _, err := store.Load(ctx, "s1"); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("corrupt payload should be a decode error, got %v", err)
	}
}

func TestNewRedisStoreRequiresClient(t *testing.T) {
	if _, err := NewRedisStore(nil, time.Hour); err == nil {
		t.Fatal("expected nil client to fail")
	}
}

type fakeRedis struct {
	data    map[string]string
	lastTTL time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string]string)}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	f.data[key] = value.(string)
	f.lastTTL = ttl
	return nil
}

func (f *fakeRedis) Get(ctx context.Context, key string) (string, error) {
	value, ok := f.data[key]
	if !ok {
		return "", pkgredis.Nil
	}
	return value, nil
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeRedis) CartKey(sessionID string) string {
	return "rm:cart:" + sessionID
}
