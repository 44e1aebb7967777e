// internal/integration/integration_test.go
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"agpsplice/internal/app"
	"agpsplice/pkg/api"
)

const agpText = "chr1\t1\t10\t1\tW\tutg1l\t1\t10\t+\n" +
	"chr1\t11\t20\t2\tW\tutg2l\t1\t10\t+\n" +
	"chr1\t21\t120\t3\tU\t100\tscaffold\tyes\tproximity_ligation\n" +
	"chr1\t121\t130\t4\tW\tutg3l\t1\t10\t-\n" +
	"chr1\t131\t140\t5\tW\tutg4l\t1\t10\t+\n" +
	"chr2\t1\t10\t1\tW\tutg5l\t1\t10\t+\n" +
	"chr2\t11\t20\t2\tW\tutg6l\t1\t10\t+\n" +
	"chr2\t21\t30\t3\tW\tutg7l\t1\t10\t+\n" +
	"chr2\t31\t40\t4\tW\tutg8l\t1\t10\t+\n"

const partAtoB = `[Part01]
CHR_A = 1
START_UTG_FULL_A = utg1l
END_UTG_FULL_A = utg4l
CHR_B = 2
START_UTG_FULL_B = utg5l
END_UTG_FULL_B = utg8l
START_UTG_A = utg2l
END_UTG_A = utg3l
INSERT_AFTER_UTG_B = utg6l
`

// no active branch
const partInvalid = `[Part02]
CHR_A = 1
START_UTG_FULL_A = utg1l
END_UTG_FULL_A = utg4l
CHR_B = 2
START_UTG_FULL_B = utg5l
END_UTG_FULL_B = utg8l
`

type workspace struct {
	dir, out, config string
}

func write(t *testing.T, fn, data string) string {
	t.Helper()
	if err := os.WriteFile(fn, []byte(data), 0644); err != nil {
		t.Fatalf("write %s: %v", fn, err)
	}
	return fn
}

// setup writes the inputs and a plan file whose DEFAULT section points at
// them, followed by parts.
func setup(t *testing.T, parts ...string) workspace {
	t.Helper()
	dir := t.TempDir()
	var fa strings.Builder
	for i := 1; i <= 8; i++ {
		fmt.Fprintf(&fa, ">utg%dl\nACGTACGTAC\n", i)
	}
	agpFile := write(t, filepath.Join(dir, "asm.agp"), agpText)
	faFile := write(t, filepath.Join(dir, "asm.fa"), fa.String())
	out := filepath.Join(dir, "out")

	doc := fmt.Sprintf("[DEFAULT]\nOUTPUT_DIR = %s\nAGP_FILE = %s\nFASTA_FILE = %s\n\n%s",
		out, agpFile, faFile, strings.Join(parts, "\n"))
	return workspace{dir: dir, out: out, config: write(t, filepath.Join(dir, "config.txt"), doc)}
}

func TestEndToEnd(t *testing.T) {
	ws := setup(t, partAtoB, partInvalid)
	metricsFile := filepath.Join(ws.dir, "agpsplice.prom")

	var out, errBuf bytes.Buffer
	code := app.Run([]string{"-c", ws.config, "--metrics-file", metricsFile}, &out, &errBuf)
	if code != app.ExitOK {
		t.Fatalf("run exit %d, err=%s", code, errBuf.String())
	}

	part := filepath.Join(ws.out, "Part01")
	for _, name := range []string{"Chromosome2new-1.txt", "Chromosome2-1_new.fasta", "utg_patterns.txt"} {
		if _, err := os.Stat(filepath.Join(part, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(ws.out, "Part02")); !os.IsNotExist(err) {
		t.Errorf("invalid part should not get a directory")
	}

	fasta, err := os.ReadFile(filepath.Join(part, "Chromosome2-1_new.fasta"))
	if err != nil {
		t.Fatal(err)
	}
	if n := bytes.Count(fasta, []byte(">")); n != 8 {
		t.Fatalf("archive has %d records, want 8", n)
	}

	runLog, err := os.ReadFile(filepath.Join(ws.out, app.LogFile))
	if err != nil {
		t.Fatalf("run log: %v", err)
	}
	if !strings.Contains(string(runLog), "[ERROR]") || !strings.Contains(string(runLog), "Part02") {
		t.Errorf("skipped part should be logged as an error:\n%s", runLog)
	}

	var sum api.SummaryV1
	b, err := os.ReadFile(filepath.Join(ws.out, app.SummaryFile))
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if err := json.Unmarshal(b, &sum); err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(sum.Parts) != 1 || sum.Parts[0].Identifiers != 8 || sum.Parts[0].Sequences != 8 || len(sum.Skipped) != 1 {
		t.Fatalf("summary %+v", sum)
	}

	prom, err := os.ReadFile(metricsFile)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	for _, want := range []string{`agpsplice_plans_total{status="done"} 1`, `agpsplice_plans_total{status="skipped"} 1`} {
		if !strings.Contains(string(prom), want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	second := strings.Replace(partAtoB, "[Part01]", "[Part03]", 1)
	read := func(workers int) string {
		ws := setup(t, partAtoB, second)
		var errB bytes.Buffer
		code := app.Run([]string{"-q", "-c", ws.config, "--workers", fmt.Sprint(workers)}, &bytes.Buffer{}, &errB)
		if code != 0 {
			t.Fatalf("exit %d err %s", code, errB.String())
		}
		var all []byte
		for _, p := range []string{"Part01", "Part03"} {
			b, err := os.ReadFile(filepath.Join(ws.out, p, "Chromosome2new-1.txt"))
			if err != nil {
				t.Fatal(err)
			}
			all = append(all, b...)
		}
		return string(all)
	}
	if serial, parallel := read(1), read(4); serial != parallel {
		t.Fatalf("parallel output differs from serial\nserial: %s\nparallel:%s", serial, parallel)
	}
}

func TestExitCodes(t *testing.T) {
	missing := setup(t, partAtoB)
	doc, _ := os.ReadFile(missing.config)
	write(t, missing.config, strings.Replace(string(doc), "FASTA_FILE", "#FASTA_FILE", 1))

	badMarker := setup(t, strings.Replace(partAtoB, "INSERT_AFTER_UTG_B = utg6l", "INSERT_AFTER_UTG_B = utg404l", 1))

	cases := []struct {
		name string
		argv []string
		want int
	}{
		{"missing global", []string{"-c", missing.config}, app.ExitUsage},
		{"missing plan file", []string{"-c", filepath.Join(t.TempDir(), "nope.txt")}, app.ExitUsage},
		{"unknown flag", []string{"--bogus"}, app.ExitUsage},
		{"marker not found", []string{"-c", badMarker.config}, app.ExitFailure},
		{"version", []string{"--version"}, app.ExitOK},
	}
	for _, tc := range cases {
		var out, errB bytes.Buffer
		if got := app.Run(tc.argv, &out, &errB); got != tc.want {
			t.Errorf("%s: exit %d want %d (stderr=%s)", tc.name, got, tc.want, errB.String())
		}
	}
}

func TestCanceled_Exit130(t *testing.T) {
	ws := setup(t, partAtoB)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var errB bytes.Buffer
	if code := app.RunContext(ctx, []string{"-c", ws.config}, &bytes.Buffer{}, &errB); code != app.ExitCanceled {
		t.Fatalf("expected exit 130 on cancel, got %d (%s)", code, errB.String())
	}
}

func TestCheck(t *testing.T) {
	ws := setup(t, partAtoB)
	var out, errB bytes.Buffer
	if code := app.Run([]string{"check", "-c", ws.config}, &out, &errB); code != app.ExitOK {
		t.Fatalf("check exit %d: %s", code, errB.String())
	}
	if !strings.Contains(out.String(), "Part01") || !strings.Contains(out.String(), "Chromosome2new-1.txt") {
		t.Fatalf("unexpected check output:\n%s", out.String())
	}
	if _, err := os.Stat(ws.out); !os.IsNotExist(err) {
		t.Fatalf("check must not create OUTPUT_DIR")
	}

	ws = setup(t, partAtoB, partInvalid)
	out.Reset()
	if code := app.Run([]string{"check", "-c", ws.config}, &out, &errB); code != app.ExitFailure {
		t.Fatalf("check with an invalid part: exit %d", code)
	}
	if !strings.Contains(out.String(), "invalid") {
		t.Fatalf("invalid part not reported:\n%s", out.String())
	}
}

func TestCheck_JSON(t *testing.T) {
	ws := setup(t, partAtoB, partInvalid)
	var out, errB bytes.Buffer
	if code := app.Run([]string{"check", "-q", "-c", ws.config, "--format", "json"}, &out, &errB); code != app.ExitFailure {
		t.Fatalf("check exit %d: %s", code, errB.String())
	}
	var rows []api.CheckV1
	if err := json.Unmarshal(out.Bytes(), &rows); err != nil {
		t.Fatalf("decode: %v\n%s", err, out.String())
	}
	if len(rows) != 2 || rows[0].Part != "Part02" || rows[0].Status != api.CheckInvalid || rows[1].Records != 12 {
		t.Fatalf("rows %+v", rows)
	}

	if code := app.Run([]string{"check", "-c", ws.config, "--format", "tsv"}, &out, &errB); code != app.ExitUsage {
		t.Fatalf("bad --format: exit %d", code)
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("no space left on device") }

func TestCheck_ReportWriteFailure(t *testing.T) {
	ws := setup(t, partAtoB)
	for _, format := range []string{"text", "json"} {
		var errB bytes.Buffer
		code := app.Run([]string{"check", "-c", ws.config, "--format", format}, failWriter{}, &errB)
		if code != app.ExitFailure {
			t.Fatalf("%s: exit %d want %d", format, code, app.ExitFailure)
		}
		if !strings.Contains(errB.String(), "[ERROR] - write check report") {
			t.Fatalf("%s: failure not logged:\n%s", format, errB.String())
		}
	}
}

func TestRun_PlanKeysFromDefault(t *testing.T) {
	// the anchor comes from DEFAULT, like configparser inheritance
	part := strings.Replace(partAtoB, "INSERT_AFTER_UTG_B = utg6l\n", "", 1)
	ws := setup(t, part)
	doc, _ := os.ReadFile(ws.config)
	write(t, ws.config, strings.Replace(string(doc), "[DEFAULT]\n", "[DEFAULT]\nINSERT_AFTER_UTG_B = utg6l\n", 1))

	var errB bytes.Buffer
	if code := app.Run([]string{"-q", "-c", ws.config}, &bytes.Buffer{}, &errB); code != app.ExitOK {
		t.Fatalf("exit %d: %s", code, errB.String())
	}
	if _, err := os.Stat(filepath.Join(ws.out, "Part01", "Chromosome2new-1.txt")); err != nil {
		t.Fatalf("inherited key not applied: %v", err)
	}
}
