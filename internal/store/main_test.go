package store

import (
	"testing"

	"go.uber.org/goleak"
)

// Every Store opened by a test must be closed; an unclosed *sql.DB leaks
// its connection opener goroutine.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
