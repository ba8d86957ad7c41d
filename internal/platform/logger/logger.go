package logger

import (
	"fmt"
	"io"
	"os"

	clog "github.com/charmbracelet/log"
)

// L is the process-wide logger. Setup replaces it at startup; tests may swap
// it for a buffer-backed logger.
var L = clog.New(os.Stderr)

// Setup configures L with the given level ("debug", "info", "warn", "error")
// writing to w.
func Setup(level string, w io.Writer) error {
	lvl, err := clog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	L = clog.NewWithOptions(w, clog.Options{
		ReportTimestamp: true,
		Level:           lvl,
		Prefix:          "car_rental",
	})
	return nil
}

func Debugf(format string, v ...any) {
	L.Debug(fmt.Sprintf(format, v...))
}

func Infof(format string, v ...any) {
	L.Info(fmt.Sprintf(format, v...))
}

func Warnf(format string, v ...any) {
	L.Warn(fmt.Sprintf(format, v...))
}

func Errorf(format string, v ...any) {
	L.Error(fmt.Sprintf(format, v...))
}
