package lookup

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"agpsplice-core/fasta"
	"agpsplice-core/ident"
)

// Seqkit shells out to the seqkit binary at Path.
type Seqkit struct {
	Path string
}

func (s Seqkit) bin() string {
	if s.Path == "" {
		return "seqkit"
	}
	return s.Path
}

func (s Seqkit) Grep(ctx context.Context, ids ident.Set, archive, out string) (Result, error) {
	patterns, err := os.CreateTemp(filepath.Dir(out), "patterns-*.txt")
	if err != nil {
		return Result{}, err
	}
	defer os.Remove(patterns.Name())
	if _, err := patterns.WriteString(strings.Join(ids, "\n") + "\n"); err != nil {
		_ = patterns.Close()
		return Result{}, err
	}
	if err := patterns.Close(); err != nil {
		return Result{}, err
	}

	cmd := exec.CommandContext(ctx, s.bin(), "grep", "-f", patterns.Name(), archive, "-o", out)
	if output, err := cmd.CombinedOutput(); err != nil {
		return Result{}, fmt.Errorf("failed to execute seqkit grep on %s: %s: %w", archive, strings.TrimSpace(string(output)), err)
	}

	names, err := fasta.Names(ctx, out)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", out, err)
	}
	return Result{Count: len(names), Returned: names}, nil
}

func (s Seqkit) Names(ctx context.Context, archive string) ([]string, error) {
	cmd := exec.CommandContext(ctx, s.bin(), "seq", "--name", "--only-id", archive)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to execute seqkit seq on %s: %s: %w", archive, strings.TrimSpace(stderr.String()), err)
	}
	var names []string
	sc := bufio.NewScanner(bytes.NewReader(output))
	for sc.Scan() {
		if n := strings.TrimSpace(sc.Text()); n != "" {
			names = append(names, n)
		}
	}
	return names, sc.Err()
}
