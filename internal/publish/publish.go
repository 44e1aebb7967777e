// Package publish copies a finished part directory to object storage.
package publish

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Store is the single operation publishing needs from a blob backend.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
}

// Publisher uploads part artifacts under Prefix/<part>/<file>.
type Publisher struct {
	Store  Store
	Prefix string
}

// Part uploads every regular file directly under dir and returns the keys
// written, sorted.
func (p Publisher) Part(ctx context.Context, part, dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	keys := make([]string, 0, len(names))
	for _, name := range names {
		key := path.Join(strings.Trim(p.Prefix, "/"), part, name)
		if err := p.put(ctx, key, filepath.Join(dir, name)); err != nil {
			return keys, fmt.Errorf("publish %s: %w", key, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (p Publisher) put(ctx context.Context, key, fn string) error {
	fh, err := os.Open(fn)
	if err != nil {
		return err
	}
	defer func() { _ = fh.Close() }()
	return p.Store.Put(ctx, key, fh, contentType(fn))
}

func contentType(fn string) string {
	switch strings.ToLower(filepath.Ext(fn)) {
	case ".fasta", ".fa", ".fna":
		return "text/x-fasta"
	default:
		return "text/plain"
	}
}
