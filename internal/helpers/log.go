package helpers

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// SetLogLevel applies a level name such as "debug" or "warn" globally.
func SetLogLevel(level string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}
