package rowfile

import (
	"bytes"
	"errors"
	"os"
	"slices"
	"testing"
)

func TestExportImportRoundTrip(t *testing.T) {
	src := openTestCollection(t)
	for i := range 10 {
		insert(t, src, map[string]any{"n": i, "text": "日本語"})
	}

	var buf bytes.Buffer
	n, err := src.Export(&buf)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if n != 10 {
		t.Errorf("Export = %d, want 10", n)
	}

	dst := openTestCollection(t)
	insert(t, dst, map[string]any{"overwritten": true})
	n, err = dst.Import(&buf)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if n != 10 {
		t.Errorf("Import = %d, want 10", n)
	}

	if a, b := encoded(t, src), encoded(t, dst); !slices.Equal(a, b) {
		t.Errorf("rows differ after import:\n%q\n%q", a, b)
	}
}

func TestExportSkipsBlankLines(t *testing.T) {
	f := writeTestFile(t, 0, "a\n\n  \nb\n")

	var buf bytes.Buffer
	n, err := f.Export(&buf)
	if err != nil || n != 2 {
		t.Fatalf("Export = %d, %v; want 2", n, err)
	}

	g := testFile(t, 0)
	if _, err := g.Import(&buf); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if got := readRaw(t, g); got != "a\nb\n" {
		t.Errorf("content = %q", got)
	}
}

// TestImportCorruptStream verifies a stream that is not Zstd leaves the
// existing file untouched and no staging file behind.
func TestImportCorruptStream(t *testing.T) {
	f := writeTestFile(t, 0, "keep\n")

	_, err := f.Import(bytes.NewReader([]byte("definitely not zstd")))
	if !errors.Is(err, ErrDecompress) {
		t.Errorf("Import = %v, want ErrDecompress", err)
	}
	if got := readRaw(t, f); got != "keep\n" {
		t.Errorf("content = %q", got)
	}
	if _, err := os.Stat(f.Path() + importSuffix); !os.IsNotExist(err) {
		t.Errorf("staging file left behind: %v", err)
	}
}

// TestImportRejectsBadRow verifies collection imports decode every line
// before replacing anything.
func TestImportRejectsBadRow(t *testing.T) {
	raw := writeTestFile(t, 0, "{\"id\":1}\nnot json\n")
	var buf bytes.Buffer
	if _, err := raw.Export(&buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	c := openTestCollection(t)
	insert(t, c, map[string]any{"original": true})

	if _, err := c.Import(&buf); !errors.Is(err, ErrCorruptRow) {
		t.Errorf("Import = %v, want ErrCorruptRow", err)
	}
	if got := encoded(t, c); len(got) != 1 || got[0] != `{"id":1,"original":true}` {
		t.Errorf("rows = %q, want original", got)
	}
}

func TestExportMissingFile(t *testing.T) {
	f := testFile(t, 0)

	var buf bytes.Buffer
	n, err := f.Export(&buf)
	if err != nil || n != 0 {
		t.Fatalf("Export = %d, %v", n, err)
	}

	g := testFile(t, 0)
	if n, err := g.Import(&buf); err != nil || n != 0 {
		t.Errorf("Import = %d, %v; want 0, nil", n, err)
	}
}

// TestImportRefusesPendingRecover verifies Import will not write over a
// file whose previous rewrite left its content at the temp path.
func TestImportRefusesPendingRecover(t *testing.T) {
	src := writeTestFile(t, 0, "new\n")
	var buf bytes.Buffer
	if _, err := src.Export(&buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	f := writeTestFile(t, 0, "partial\n")
	if err := os.WriteFile(f.TempPath(), []byte("original\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := f.Import(&buf); !errors.Is(err, ErrTempExists) {
		t.Fatalf("Import = %v, want ErrTempExists", err)
	}
	if got := readRaw(t, f); got != "partial\n" {
		t.Errorf("content = %q, want untouched", got)
	}
	if ok, err := f.Recover(); !ok || err != nil {
		t.Fatalf("Recover = %v, %v", ok, err)
	}
	if got := readRaw(t, f); got != "original\n" {
		t.Errorf("recovered content = %q", got)
	}
}
