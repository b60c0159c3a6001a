//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "takeout-api"
	ConsumerName = "takeout-miniapp"

	StateMenuSeeded    = "a dish is on sale in category 1"
	StateReadyToSubmit = "the cart holds one dish and an address exists"
	StateOrderMissing  = "no order with id 404"
)

const (
	// UserToken is the bearer token the consumer sends; the provider maps it to UserID.
	UserToken       = "Bearer pact-user-token"
	UserID    int64 = 77

	CategoryID     int64 = 1
	AddressBookID  int64 = 1
	MissingOrderID int64 = 404

	DishName  = "Kung Pao Chicken"
	DishPrice = "38"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the mini app consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
