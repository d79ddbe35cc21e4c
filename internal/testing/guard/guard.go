package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("MEDICORE_TEST_MODE") == "" {
			_ = os.Setenv("MEDICORE_TEST_MODE", "1")
		}
	})
}
