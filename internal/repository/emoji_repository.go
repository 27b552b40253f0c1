package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// emojiKey is the redis hash holding the category -> emoji display mapping.
const emojiKey = "pos:category_emojis"

// EmojiRepository stores the optional display emoji per category in
// auxiliary key-value storage. The mapping is cosmetic; losing an entry
// never affects products or receipts.
type EmojiRepository interface {
	Set(ctx context.Context, category, emoji string) error
	Get(ctx context.Context, category string) (string, error)
	All(ctx context.Context) (map[string]string, error)
	Rename(ctx context.Context, oldName, newName string) error
	Delete(ctx context.Context, category string) error
}

type emojiRepository struct {
	client *redis.Client
}

// NewEmojiRepository creates a new instance of EmojiRepository
func NewEmojiRepository(client *redis.Client) EmojiRepository {
	return &emojiRepository{client: client}
}

// Set stores the emoji for a category. An empty emoji clears the entry.
func (r *emojiRepository) Set(ctx context.Context, category, emoji string) error {
	if emoji == "" {
		return r.Delete(ctx, category)
	}

	if err := r.client.HSet(ctx, emojiKey, category, emoji).Err(); err != nil {
		return fmt.Errorf("failed to set category emoji: %w", err)
	}
	return nil
}

// Get returns the emoji for a category, or "" when none is mapped.
func (r *emojiRepository) Get(ctx context.Context, category string) (string, error) {
	emoji, err := r.client.HGet(ctx, emojiKey, category).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get category emoji: %w", err)
	}
	return emoji, nil
}

// All returns the full category -> emoji mapping.
func (r *emojiRepository) All(ctx context.Context) (map[string]string, error) {
	mapping, err := r.client.HGetAll(ctx, emojiKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list category emojis: %w", err)
	}
	return mapping, nil
}

// Rename moves the mapping from oldName to newName, keeping it in step with
// a category rename. No mapping on oldName is a no-op.
func (r *emojiRepository) Rename(ctx context.Context, oldName, newName string) error {
	emoji, err := r.Get(ctx, oldName)
	if err != nil {
		return err
	}
	if emoji == "" {
		return nil
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, emojiKey, newName, emoji)
	pipe.HDel(ctx, emojiKey, oldName)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to rename category emoji: %w", err)
	}
	return nil
}

// Delete removes the mapping for a category.
func (r *emojiRepository) Delete(ctx context.Context, category string) error {
	if err := r.client.HDel(ctx, emojiKey, category).Err(); err != nil {
		return fmt.Errorf("failed to delete category emoji: %w", err)
	}
	return nil
}
