package lookup

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"agpsplice-core/ident"
)

const archive = `>utg1l len=4
ACGT
>utg2l
GG
>utg10l
TTTT
`

func writeArchive(t *testing.T) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "asm.fa")
	if err := os.WriteFile(fn, []byte(archive), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return fn
}

func TestNative_Grep(t *testing.T) {
	fa := writeArchive(t)
	out := filepath.Join(t.TempDir(), "out.fasta")
	res, err := Native{}.Grep(context.Background(), ident.Set{"utg10l", "utg1l", "utg7l"}, fa, out)
	if err != nil {
		t.Fatalf("Grep: %v", err)
	}
	if res.Count != 2 || !reflect.DeepEqual(res.Returned, []string{"utg1l", "utg10l"}) {
		t.Fatalf("bad result %+v", res)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := string(b); got != ">utg1l len=4\nACGT\n>utg10l\nTTTT\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestNative_Names(t *testing.T) {
	names, err := Native{}.Names(context.Background(), writeArchive(t))
	if err != nil {
		t.Fatalf("Names: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"utg1l", "utg2l", "utg10l"}) {
		t.Fatalf("names %v", names)
	}
}

func TestNative_MissingArchive(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.fasta")
	_, err := Native{}.Grep(context.Background(), ident.Set{"utg1l"}, "/nonexistent/asm.fa", out)
	if err == nil || !strings.Contains(err.Error(), "grep") {
		t.Fatalf("want grep error, got %v", err)
	}
}

func TestSeqkit_MissingBinary(t *testing.T) {
	s := Seqkit{Path: filepath.Join(t.TempDir(), "no-such-seqkit")}
	out := filepath.Join(t.TempDir(), "out.fasta")
	if _, err := s.Grep(context.Background(), ident.Set{"utg1l"}, writeArchive(t), out); err == nil {
		t.Fatalf("want exec error")
	}
	if _, err := s.Names(context.Background(), writeArchive(t)); err == nil {
		t.Fatalf("want exec error")
	}
}
