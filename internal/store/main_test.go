package store_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/AAWorks/atlas-infra/testutil"
)

// TestMain migrates the integration database once for the whole package.
// Without TEST_DATABASE_URL it is a no-op and the Postgres tests skip.
func TestMain(m *testing.M) {
	if err := testutil.MigrateForTestMain(context.Background()); err != nil {
		log.Fatalf("TestMain: %v", err)
	}
	os.Exit(m.Run())
}
