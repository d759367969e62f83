package testutil

import (
	"strings"
	"testing"
)

// AssertInOrder asserts that every fragment occurs in s, each after the previous one.
func AssertInOrder(t *testing.T, s string, fragments ...string) {
	t.Helper()
	pos := 0
	for _, f := range fragments {
		idx := strings.Index(s[pos:], f)
		if idx < 0 {
			t.Errorf("fragment %q not found after offset %d", f, pos)
			return
		}
		pos += idx + len(f)
	}
}

// AssertCount asserts that fragment occurs exactly n times in s.
func AssertCount(t *testing.T, s, fragment string, n int) {
	t.Helper()
	if got := strings.Count(s, fragment); got != n {
		t.Errorf("fragment %q occurs %d times, want %d", fragment, got, n)
	}
}
