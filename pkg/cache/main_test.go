// pkg/cache/main_test.go
// TEST TYPE: Test Setup
// DEPENDENCIES: None
// PURPOSE: Keep log output out of test runs

package cache_test

import (
	"io"
	"os"
	"testing"

	"github.com/solitary-project/forge/pkg/logging"
)

func TestMain(m *testing.M) {
	logging.SetupWriter(0, io.Discard)
	os.Exit(m.Run())
}
