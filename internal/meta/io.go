package meta

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrSchemaMismatch is returned when a payload was written by a different
// schema version.
var ErrSchemaMismatch = errors.New("unit payload schema mismatch")

// ErrPayloadCorrupt is returned when a payload fails structural validation.
var ErrPayloadCorrupt = errors.New("unit payload corrupt")

// LoadPayload reads and decodes a unit payload from disk.
func LoadPayload(path string) (*UnitPayload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	var p UnitPayload
	if err := msgpack.NewDecoder(f).Decode(&p); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", path, ErrPayloadCorrupt, err)
	}
	if p.Schema != SchemaVersion {
		return nil, fmt.Errorf("%s: %w: got %d, expected %d", path, ErrSchemaMismatch, p.Schema, SchemaVersion)
	}
	return &p, nil
}

// SavePayload encodes and writes a payload, replacing the target
// atomically via a temp file rename.
func SavePayload(path string, p *UnitPayload) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		// Best effort: the rename below usually consumes the temp file.
		_ = os.Remove(tmp)
	}()

	if err := msgpack.NewEncoder(f).Encode(p); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
