// Package logging configures the process-wide zerolog logger.
//
// The widget renders to the terminal, so logs go to a file instead of
// stderr. Without a file everything is discarded.
package logging

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup points the global logger at path and applies level. The returned
// func closes the log file and is safe to call when no file was opened.
func Setup(path, level string) (func(), error) {
	lvl := zerolog.InfoLevel
	if level != "" {
		parsed, err := zerolog.ParseLevel(level)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing log level %q", level)
		}
		lvl = parsed
	}

	var w io.Writer = io.Discard
	closer := func() {}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, errors.Wrapf(err, "opening log file %s", path)
		}
		w = f
		closer = func() { f.Close() }
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(w).With().Timestamp().Logger()

	return closer, nil
}
