package testing

import (
	"os"
	"sync"
	stdtesting "testing"
)

var once sync.Once

func ensureTestMode() {
	once.Do(func() {
		_ = os.Setenv("VENDORA_TEST_MODE", "1")
		if os.Getenv("JWT_SECRET_KEY") == "" {
			_ = os.Setenv("JWT_SECRET_KEY", "test-secret")
		}
	})
}

func init() {
	ensureTestMode()
}

func TestMain(m *stdtesting.M) {
	ensureTestMode()
	os.Exit(m.Run())
}
