package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupEmojiRepo(t *testing.T) EmojiRepository {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewEmojiRepository(client)
}

func TestEmojiSetAndGet(t *testing.T) {
	repo := setupEmojiRepo(t)
	ctx := context.Background()

	if err := repo.Set(ctx, "Beverages", "🥤"); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	emoji, err := repo.Get(ctx, "Beverages")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if emoji != "🥤" {
		t.Errorf("expected 🥤, got %q", emoji)
	}
}

func TestEmojiGetUnsetReturnsEmpty(t *testing.T) {
	repo := setupEmojiRepo(t)

	emoji, err := repo.Get(context.Background(), "Nothing")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if emoji != "" {
		t.Errorf("expected empty emoji for unmapped category, got %q", emoji)
	}
}

func TestEmojiSetEmptyClearsEntry(t *testing.T) {
	repo := setupEmojiRepo(t)
	ctx := context.Background()

	if err := repo.Set(ctx, "Food", "🍽️"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := repo.Set(ctx, "Food", ""); err != nil {
		t.Fatalf("clearing set failed: %v", err)
	}

	emoji, err := repo.Get(ctx, "Food")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if emoji != "" {
		t.Errorf("expected cleared entry, got %q", emoji)
	}
}

func TestEmojiRenameMovesMapping(t *testing.T) {
	repo := setupEmojiRepo(t)
	ctx := context.Background()

	if err := repo.Set(ctx, "Snacks", "🍿"); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if err := repo.Rename(ctx, "Snacks", "Treats"); err != nil {
		t.Fatalf("rename failed: %v", err)
	}

	all, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("all failed: %v", err)
	}
	if all["Treats"] != "🍿" {
		t.Errorf("expected Treats to carry 🍿, got %q", all["Treats"])
	}
	if _, ok := all["Snacks"]; ok {
		t.Error("expected Snacks mapping to be removed")
	}
}

func TestEmojiRenameWithoutMappingIsNoOp(t *testing.T) {
	repo := setupEmojiRepo(t)

	if err := repo.Rename(context.Background(), "Ghost", "Phantom"); err != nil {
		t.Fatalf("rename of unmapped category should succeed: %v", err)
	}
}

func TestEmojiDelete(t *testing.T) {
	repo := setupEmojiRepo(t)
	ctx := context.Background()

	if err := repo.Set(ctx, "Drinks", "☕"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := repo.Delete(ctx, "Drinks"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	all, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("all failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected empty mapping, got %v", all)
	}
}
