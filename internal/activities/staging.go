package activities

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"querybot/internal/models"
)

// stagedEntry is models.IndexEntry with its vector serialized.
type stagedEntry struct {
	Chunk  models.Chunk `json:"chunk"`
	Vector []float32    `json:"vector"`
	Model  string       `json:"model"`
}

func (a *Activities) writeStaged(ctx context.Context, s Staging, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := a.store.Put(ctx, s.Bucket, s.key(name), bytes.NewReader(data), int64(len(data)), "application/json"); err != nil {
		return fmt.Errorf("stage %s: %w", name, err)
	}
	return nil
}

func (a *Activities) readStaged(ctx context.Context, s Staging, name string, v any) error {
	data, err := a.store.Get(ctx, s.Bucket, s.key(name))
	if err != nil {
		return fmt.Errorf("read staged %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode staged %s: %w", name, err)
	}
	return nil
}
