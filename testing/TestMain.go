package testing

import (
	"os"
	"sync"
	stdtesting "testing"
)

var once sync.Once

func ensureTestMode() {
	once.Do(func() {
		_ = os.Setenv("CASTING_TEST_MODE", "1")
		if os.Getenv("AUTH0_DOMAIN") == "" {
			_ = os.Setenv("AUTH0_DOMAIN", "casting.test")
		}
		if os.Getenv("API_AUDIENCE") == "" {
			_ = os.Setenv("API_AUDIENCE", "casting")
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
