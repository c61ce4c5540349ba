package ytsentiment

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Console receives human-readable status lines.
type Console interface {
	Append(line string)
}

// logConsole writes status lines to a logrus logger, attaching structured
// fields where the caller has them.
type logConsole struct {
	entry *logrus.Entry
}

// NewLogConsole returns a Console backed by logger. A nil logger discards
// everything.
func NewLogConsole(logger *logrus.Logger) Console {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &logConsole{entry: logrus.NewEntry(logger)}
}

func (lc *logConsole) Append(line string) {
	lc.entry.Info(line)
}

func (lc *logConsole) appendFields(fields logrus.Fields, line string) {
	lc.entry.WithFields(fields).Info(line)
}

// discardConsole is used when no console is supplied.
type discardConsole struct{}

func (discardConsole) Append(string) {}

func consoleOrDiscard(c Console) Console {
	if c == nil {
		return discardConsole{}
	}
	return c
}

// report formats a status line and sends it to console, with fields when
// the console supports them.
func report(console Console, fields logrus.Fields, format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)
	if fc, ok := console.(interface {
		appendFields(logrus.Fields, string)
	}); ok && len(fields) > 0 {
		fc.appendFields(fields, line)
		return
	}
	console.Append(line)
}
