// Package lookup pulls sequences for an identifier set out of a FASTA archive.
package lookup

import (
	"context"
	"fmt"
	"os"

	"agpsplice-core/fasta"
	"agpsplice-core/ident"
)

// Result of a lookup.
type Result struct {
	// Count is the number of records written to the output archive.
	Count int
	// Returned lists the IDs written, in archive order.
	Returned []string
}

// Lookup is the sequence-archive collaborator.
type Lookup interface {
	// Grep writes every archive record whose ID is in ids to out.
	Grep(ctx context.Context, ids ident.Set, archive, out string) (Result, error)
	// Names lists every record ID in archive.
	Names(ctx context.Context, archive string) ([]string, error)
}

// Native scans the archive in-process.
type Native struct{}

func (Native) Grep(ctx context.Context, ids ident.Set, archive, out string) (Result, error) {
	fh, err := os.Create(out)
	if err != nil {
		return Result{}, err
	}
	w := fasta.NewWriter(fh)
	var res Result
	err = fasta.ScanPath(ctx, archive, func(r fasta.Record) error {
		if !ids.Has(r.ID) {
			return nil
		}
		res.Returned = append(res.Returned, r.ID)
		return w.Write(r)
	})
	if ferr := w.Flush(); err == nil {
		err = ferr
	}
	if cerr := fh.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return Result{}, fmt.Errorf("grep %s: %w", archive, err)
	}
	res.Count = w.Count()
	return res, nil
}

func (Native) Names(ctx context.Context, archive string) ([]string, error) {
	return fasta.Names(ctx, archive)
}
