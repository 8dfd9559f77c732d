package store

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/edupath/careerkit/core"
)

// 集成测试：需要本地 Redis，通过 REDIS_ADDR 环境变量开启。
//   REDIS_ADDR=127.0.0.1:6379 go test ./store/ -run TestRedisStore
func newTestRedis(t *testing.T) *RedisStore {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR 未设置，跳过 Redis 集成测试")
	}
	s, err := NewRedisStore(addr, 15)
	if err != nil {
		t.Fatalf("connect redis %s: %v", addr, err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRedisStoreGetSet(t *testing.T) {
	s := newTestRedis(t)
	ctx := context.Background()

	key := "careerkit:test:emb:C001"
	t.Cleanup(func() { s.Delete(ctx, key) })

	if err := s.Set(ctx, key, []byte("v1"), 60); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, key)
	if err != nil || string(got) != "v1" {
		t.Errorf("Get = (%q, %v), want v1", got, err)
	}

	if err := s.Delete(ctx, key); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, key); !errors.Is(err, core.ErrStoreNotFound) {
		t.Errorf("删除后 Get err = %v, want ErrStoreNotFound", err)
	}
}

func TestRedisStoreBatch(t *testing.T) {
	s := newTestRedis(t)
	ctx := context.Background()

	kvs := map[string][]byte{
		"careerkit:test:batch:a": []byte("1"),
		"careerkit:test:batch:b": []byte("2"),
	}
	t.Cleanup(func() {
		for k := range kvs {
			s.Delete(ctx, k)
		}
	})

	if err := s.BatchSet(ctx, kvs, 60); err != nil {
		t.Fatal(err)
	}
	got, err := s.BatchGet(ctx, []string{"careerkit:test:batch:a", "careerkit:test:batch:b", "careerkit:test:batch:missing"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || string(got["careerkit:test:batch:a"]) != "1" {
		t.Errorf("BatchGet = %v", got)
	}
}

func TestRedisStoreHash(t *testing.T) {
	s := newTestRedis(t)
	ctx := context.Background()

	key := "careerkit:test:hash"
	t.Cleanup(func() { s.Delete(ctx, key) })

	if err := s.HSet(ctx, key, "C001", []byte("vec")); err != nil {
		t.Fatal(err)
	}
	got, err := s.HGet(ctx, key, "C001")
	if err != nil || string(got) != "vec" {
		t.Errorf("HGet = (%q, %v), want vec", got, err)
	}
	if _, err := s.HGet(ctx, key, "C999"); !errors.Is(err, core.ErrStoreNotFound) {
		t.Errorf("缺失 field err = %v, want ErrStoreNotFound", err)
	}

	all, err := s.HGetAll(ctx, key)
	if err != nil || len(all) != 1 {
		t.Errorf("HGetAll = (%v, %v)", all, err)
	}
}
