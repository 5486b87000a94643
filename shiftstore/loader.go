/*
 * loader.go, part of vamos-hose.
 *
 * The chunk artifact format (spec.md §6): "chunk_NNN", zstd-compressed
 * JSON, read the same way stf.go wraps a *zstd.Decoder around its frame
 * stream. ChunkLoader is kept as an interface so store_test.go can swap
 * in an in-memory loader without touching a real chunk directory.
 */

package shiftstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// ChunkLoader loads one chunk's full contents by index. Implementations
// must be safe for concurrent use; Store never calls the same index
// concurrently on its own (singleflight.Group handles that), but nothing
// stops an application from holding one Loader across multiple Stores.
type ChunkLoader interface {
	LoadChunk(ctx context.Context, idx int) (Chunk, error)
}

// DirLoader reads chunk artifacts from a directory of zstd-compressed
// JSON files named chunk_000 .. chunk_255.
type DirLoader struct {
	Dir string
}

func (d DirLoader) LoadChunk(ctx context.Context, idx int) (Chunk, error) {
	path := filepath.Join(d.Dir, fmt.Sprintf("chunk_%03d", idx))
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, err
	}

	var chunk Chunk
	if err := json.Unmarshal(raw, &chunk); err != nil {
		return nil, err
	}
	return chunk, nil
}
