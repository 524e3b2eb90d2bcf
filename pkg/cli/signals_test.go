package cli

import (
	"testing"
	"time"
)

func TestSetupSignalHandler(t *testing.T) {
	ctx := SetupSignalHandler()

	if ctx.Done() == nil {
		t.Fatal("context has no Done channel")
	}
	select {
	case <-ctx.Done():
		t.Error("context cancelled without a signal")
	case <-time.After(10 * time.Millisecond):
		// Expected: still active.
	}
}
