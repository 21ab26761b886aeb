// Checksum tests.
//
// Checksums are used to confirm that a rewrite which keeps every line
// reproduces the file exactly. They must therefore be deterministic,
// sensitive to any byte change, and independent of chunk size, since the
// digest is fed one window at a time.
package rowfile

import (
	"regexp"
	"testing"
)

var hexPattern = regexp.MustCompile(`^[0-9a-f]{16}$`)

func checksumFile(t *testing.T, alg, chunk int, content string) string {
	t.Helper()
	f := writeTestFile(t, chunk, content)
	f.config.HashAlgorithm = alg
	sum, err := f.Checksum()
	if err != nil {
		t.Fatalf("Checksum: %v", err)
	}
	return sum
}

// TestChecksumFormat verifies every algorithm yields 16 hex chars.
func TestChecksumFormat(t *testing.T) {
	for _, alg := range []int{AlgXXHash3, AlgFNV1a, AlgBlake2b} {
		sum := checksumFile(t, alg, 0, "{\"id\":1}\n")
		if !hexPattern.MatchString(sum) {
			t.Errorf("alg %d: checksum %q is not 16 hex chars", alg, sum)
		}
	}
}

// TestChecksumAlgorithmsDiffer guards against a switch fallthrough that
// would silently make every algorithm the same.
func TestChecksumAlgorithmsDiffer(t *testing.T) {
	content := "{\"id\":1}\n{\"id\":2}\n"
	a := checksumFile(t, AlgXXHash3, 0, content)
	b := checksumFile(t, AlgFNV1a, 0, content)
	c := checksumFile(t, AlgBlake2b, 0, content)
	if a == b || b == c || a == c {
		t.Errorf("algorithms collide: %s %s %s", a, b, c)
	}
}

// TestChecksumChunkIndependent verifies the digest does not depend on how
// the file was windowed.
func TestChecksumChunkIndependent(t *testing.T) {
	content := "{\"id\":1,\"name\":\"alpha\"}\n{\"id\":2,\"name\":\"beta\"}\n"
	want := checksumFile(t, AlgXXHash3, 0, content)
	for _, chunk := range []int{1, 3, 7, 64} {
		if got := checksumFile(t, AlgXXHash3, chunk, content); got != want {
			t.Errorf("chunk %d: checksum %s, want %s", chunk, got, want)
		}
	}
}

func TestChecksumDetectsChange(t *testing.T) {
	a := checksumFile(t, AlgXXHash3, 0, "{\"id\":1}\n")
	b := checksumFile(t, AlgXXHash3, 0, "{\"id\":2}\n")
	if a == b {
		t.Error("different content produced the same checksum")
	}
}

func TestChecksumUnknownAlgorithm(t *testing.T) {
	f := writeTestFile(t, 0, "x\n")
	f.config.HashAlgorithm = 99
	if _, err := f.Checksum(); err == nil {
		t.Error("Checksum with unknown algorithm succeeded")
	}
}

// TestChecksumStableAcrossIdentityUpdate ties the checksum to the
// rewrite engine: keeping every row must not change a single byte.
func TestChecksumStableAcrossIdentityUpdate(t *testing.T) {
	c := openTestCollection(t)
	for i := range 50 {
		insert(t, c, map[string]any{"n": i, "text": "héllo wörld"})
	}

	before, err := c.Checksum()
	if err != nil {
		t.Fatalf("Checksum: %v", err)
	}
	if _, err := c.Update(func(*Document) (Change, error) { return Keep(), nil }); err != nil {
		t.Fatalf("Update: %v", err)
	}
	after, _ := c.Checksum()
	if before != after {
		t.Errorf("checksum changed: %s -> %s", before, after)
	}
}
