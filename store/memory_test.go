package store

import (
	"context"
	"testing"

	"github.com/edupath/careerkit/core"
)

func TestMemoryStoreGetSet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	if _, err := s.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Errorf("missing key should be NOT_FOUND, got %v", err)
	}

	if err := s.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Errorf("Get = %q, %v", got, err)
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Errorf("deleted key should be NOT_FOUND, got %v", err)
	}
}

func TestMemoryStoreBatch(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	kvs := map[string][]byte{"a": []byte("1"), "b": []byte("2")}
	if err := s.BatchSet(ctx, kvs); err != nil {
		t.Fatal(err)
	}
	got, err := s.BatchGet(ctx, []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || string(got["a"]) != "1" || string(got["b"]) != "2" {
		t.Errorf("BatchGet = %v", got)
	}
}

func TestMemoryStoreHash(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	key := "careerkit:emb:test"
	if err := s.HSet(ctx, key, "C001", []byte("[1,0]")); err != nil {
		t.Fatal(err)
	}
	if err := s.HSet(ctx, key, "C002", []byte("[0,1]")); err != nil {
		t.Fatal(err)
	}

	v, err := s.HGet(ctx, key, "C001")
	if err != nil || string(v) != "[1,0]" {
		t.Errorf("HGet = %q, %v", v, err)
	}
	if _, err := s.HGet(ctx, key, "C999"); !core.IsStoreNotFound(err) {
		t.Errorf("missing field should be NOT_FOUND, got %v", err)
	}

	all, err := s.HGetAll(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("HGetAll size = %d, want 2", len(all))
	}
}
