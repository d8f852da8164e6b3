package thumbcache

import (
	"io"

	"lightcull/internal/logging"
)

func testLogger() logging.Logger {
	return logging.New(io.Discard, true)
}
