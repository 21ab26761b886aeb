// Rewrite engine tests.
//
// A rewrite renames the file to <path>_temp, streams it back through the
// edit function and removes the temp file. These tests check the output
// content, the returned count, and the state of both paths afterwards,
// including after a failure part way through.
package rowfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestRewriteKeepAll(t *testing.T) {
	content := "a\nb\nc\n"
	f := writeTestFile(t, 2, content)

	n, err := f.Rewrite(func(string) (Edit, error) { return KeepLine(), nil })
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	if n != 3 {
		t.Errorf("Rewrite = %d, want 3", n)
	}
	if got := readRaw(t, f); got != content {
		t.Errorf("content = %q, want %q", got, content)
	}
	if _, err := os.Stat(f.TempPath()); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
}

func TestRewriteReplace(t *testing.T) {
	f := writeTestFile(t, 0, "a\nb\nc\n")

	n, err := f.Rewrite(func(line string) (Edit, error) {
		if line == "b" {
			return ReplaceLine("B"), nil
		}
		return KeepLine(), nil
	})
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	if n != 3 {
		t.Errorf("Rewrite = %d, want 3", n)
	}
	if got := readRaw(t, f); got != "a\nB\nc\n" {
		t.Errorf("content = %q", got)
	}
}

// TestRewriteDropCountsOriginal verifies the count reports lines read,
// not lines written.
func TestRewriteDropCountsOriginal(t *testing.T) {
	f := writeTestFile(t, 0, "a\nb\nc\nd\n")

	n, err := f.Rewrite(func(line string) (Edit, error) {
		if line == "b" || line == "d" {
			return DropLine(), nil
		}
		return KeepLine(), nil
	})
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	if n != 4 {
		t.Errorf("Rewrite = %d, want 4", n)
	}
	if got := readRaw(t, f); got != "a\nc\n" {
		t.Errorf("content = %q", got)
	}
}

// TestRewriteAddsTerminator verifies an unterminated last line comes out
// terminated.
func TestRewriteAddsTerminator(t *testing.T) {
	f := writeTestFile(t, 0, "a\nb")

	if _, err := f.Rewrite(func(string) (Edit, error) { return KeepLine(), nil }); err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	if got := readRaw(t, f); got != "a\nb\n" {
		t.Errorf("content = %q", got)
	}
}

func TestRewriteMissingFile(t *testing.T) {
	f := testFile(t, 0)

	n, err := f.Rewrite(func(string) (Edit, error) {
		t.Error("callback called for missing file")
		return KeepLine(), nil
	})
	if err != nil || n != 0 {
		t.Errorf("Rewrite = %d, %v; want 0, nil", n, err)
	}
	if ok, _ := f.Exists(); ok {
		t.Error("Rewrite created a missing file")
	}
}

// TestRewriteTempExists verifies a stale temp file blocks the rewrite
// without touching either file.
func TestRewriteTempExists(t *testing.T) {
	f := writeTestFile(t, 0, "live\n")
	if err := os.WriteFile(f.TempPath(), []byte("stale\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := f.Rewrite(func(string) (Edit, error) { return DropLine(), nil })
	if !errors.Is(err, ErrTempExists) {
		t.Fatalf("err = %v, want ErrTempExists", err)
	}
	if got := readRaw(t, f); got != "live\n" {
		t.Errorf("live content = %q", got)
	}
	temp, _ := os.ReadFile(f.TempPath())
	if string(temp) != "stale\n" {
		t.Errorf("temp content = %q", temp)
	}
}

// TestRewriteFailureKeepsTemp checks the documented failure state: the
// original bytes survive under the temp path, and Recover puts them back.
func TestRewriteFailureKeepsTemp(t *testing.T) {
	content := "a\nb\nc\n"
	f := writeTestFile(t, 0, content)
	boom := errors.New("boom")

	_, err := f.Rewrite(func(line string) (Edit, error) {
		if line == "b" {
			return Edit{}, boom
		}
		return ReplaceLine(strings.ToUpper(line)), nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	temp, err := os.ReadFile(f.TempPath())
	if err != nil {
		t.Fatalf("temp file missing: %v", err)
	}
	if string(temp) != content {
		t.Errorf("temp content = %q, want original", temp)
	}

	restored, err := f.Recover()
	if err != nil || !restored {
		t.Fatalf("Recover = %v, %v", restored, err)
	}
	if got := readRaw(t, f); got != content {
		t.Errorf("recovered content = %q", got)
	}
	if _, err := os.Stat(f.TempPath()); !os.IsNotExist(err) {
		t.Errorf("temp still present after Recover: %v", err)
	}
}

func TestRecoverNothing(t *testing.T) {
	f := writeTestFile(t, 0, "a\n")

	restored, err := f.Recover()
	if err != nil || restored {
		t.Errorf("Recover = %v, %v; want false, nil", restored, err)
	}
}

func TestRewriteStop(t *testing.T) {
	f := writeTestFile(t, 0, "a\nb\nc\nd\n")

	calls := 0
	n, err := f.Rewrite(func(line string) (Edit, error) {
		calls++
		if line == "b" {
			return Edit{}, ErrStop
		}
		return ReplaceLine(strings.ToUpper(line)), nil
	})
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	if n != 4 || calls != 2 {
		t.Errorf("Rewrite = %d with %d calls, want 4 with 2", n, calls)
	}
	if got := readRaw(t, f); got != "A\nb\nc\nd\n" {
		t.Errorf("content = %q", got)
	}
}

func TestRewriteRejectsMultiline(t *testing.T) {
	f := writeTestFile(t, 0, "a\n")

	_, err := f.Rewrite(func(string) (Edit, error) { return ReplaceLine("x\ny"), nil })
	if !errors.Is(err, ErrMultiline) {
		t.Errorf("err = %v, want ErrMultiline", err)
	}
}

// TestRewriteOrderSmallQueue pushes many lines through a one-slot queue
// and one-byte chunks so reader and writer alternate constantly.
func TestRewriteOrderSmallQueue(t *testing.T) {
	var want []string
	for i := range 500 {
		want = append(want, fmt.Sprintf("line-%03d", i))
	}
	f := testFile(t, 1)
	f.config.RewriteQueue = 1
	if _, err := f.Stream(lineSource(want...)); err != nil {
		t.Fatalf("Stream: %v", err)
	}

	var seen []string
	n, err := f.Rewrite(func(line string) (Edit, error) {
		seen = append(seen, line)
		return ReplaceLine(line + "!"), nil
	})
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	if n != len(want) {
		t.Errorf("Rewrite = %d, want %d", n, len(want))
	}
	if !slices.Equal(seen, want) {
		t.Error("lines observed out of order")
	}

	got := collect(t, f)
	for i := range want {
		if got[i] != want[i]+"!" {
			t.Fatalf("line %d = %q, want %q", i, got[i], want[i]+"!")
		}
	}
}

// TestRewriteLeavesRegistry verifies the temp file never gets a registry
// entry of its own.
func TestRewriteLeavesRegistry(t *testing.T) {
	reg := NewRegistry(Config{})
	f, err := reg.File(filepath.Join(t.TempDir(), "r.jsonl"))
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if err := os.WriteFile(f.Path(), []byte("a\nb\n"), 0644); err != nil {
		t.Fatal(err)
	}

	for range 3 {
		if _, err := f.Rewrite(func(string) (Edit, error) { return KeepLine(), nil }); err != nil {
			t.Fatalf("Rewrite: %v", err)
		}
	}
	if reg.Len() != 1 {
		t.Errorf("Len = %d, want 1", reg.Len())
	}
}
