package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultTimeFormatStr is the default time format string for log appenders.
const DefaultTimeFormatStr = "2006-01-02T15:04:05.000Z0700"

// Appender is an output for log entries. This is a subset of the `zapcore.Core` interface.
type Appender interface {
	// Write submits a structured log entry to the appender for logging.
	Write(zapcore.Entry, []zapcore.Field) error
	// Sync is for signaling that any buffered logs to `Write` should be flushed. E.g: at shutdown.
	Sync() error
}

// correlationKeys are the structured fields used to correlate log lines:
// RobotGrid.logger attaches run_id via With at construction and target_id on
// grid.AddTarget's rejected-assignment logging; robot_id is recognized as
// well when a caller attaches it. ConsoleAppender
// pulls these to the front of every printed line, ahead of the generic
// field blob, so a run's log can be grepped/sorted by them without parsing
// JSON -- the whole point of a RobotGrid carrying a RunID in the first
// place.
var correlationKeys = []string{"run_id", "robot_id", "target_id"}

// ConsoleAppender will create human readable lines from log events and write them to the desired
// output sync. E.g: stdout or a file.
type ConsoleAppender struct {
	io.Writer
}

// NewStdoutAppender creates a new appender that prints to stdout.
func NewStdoutAppender() ConsoleAppender {
	return ConsoleAppender{os.Stdout}
}

// NewWriterAppender creates a new appender that prints to the input writer.
func NewWriterAppender(writer io.Writer) ConsoleAppender {
	return ConsoleAppender{writer}
}

// NewFileAppender will create an Appender that writes output to a log file. Log rotation will be
// enabled such that restarts of the planning process with the same filename will move the old
// file out of the way. The `io.Closer` can be used to eventually close the opened log file.
func NewFileAppender(filename string) (Appender, io.Closer) {
	logger := &lumberjack.Logger{
		Filename: filename,
		// 1 Terabyte -- basically infinite. Don't rollover on size. Just restarts.
		MaxSize: 1024 * 1024,
	}

	// Explicitly call `Rotate` on restart so each run gets a fresh file rather than
	// silently appending to whatever was left over from the last process.
	if err := logger.Rotate(); err != nil {
		fmt.Fprintln(os.Stderr, "logging: error creating log file:", err) //nolint:errcheck
	}

	// We only have `NewFileAppender` return an io.Closer, rather than `NewWriterAppender` because
	// `NewWriterAppender` accepts stdout from `NewStdoutAppender`. And I'm not certain that it's a
	// good idea to be calling `stdout.Close`.
	return NewWriterAppender(logger), logger
}

// NewRunFileAppender is NewFileAppender specialized for one grid's RunID:
// it writes to "<dir>/run-<runID>.log", so a caller running many grids
// (e.g. via grid.PlanConcurrently) gets one log file per run without any
// risk of two concurrent runs interleaving into the same file or rotation
// fighting over the same name. Unlike NewFileAppender, this never rotates
// an existing file away -- a given RunID is only ever written once.
func NewRunFileAppender(dir string, runID uuid.UUID) (Appender, io.Closer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("logging: creating run log directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "run-"+runID.String()+".log"), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: creating run log file: %w", err)
	}
	return NewWriterAppender(f), f, nil
}

// ZapcoreFieldsToJSON will serialize the Field objects into a JSON map of key/value pairs. It's
// unclear what circumstances will result in an error being returned.
func ZapcoreFieldsToJSON(fields []zapcore.Field) (result string, err error) {
	// Use zap's json encoder which will encode our slice of fields in-order. As opposed to the
	// random iteration order of a map. Call it with an empty Entry object such that only the fields
	// become "map-ified".
	// The json encoder can panic if there is a mismatch between the value in zapcore.Field.Type and
	// the data in the other fields, so we recover here to avoid crashing the entire goroutine.
	defer func() {
		if r := recover(); r != nil {
			if perr, ok := r.(error); ok {
				err = fmt.Errorf("panic serializing log fields: %w", perr)
				return
			}
			err = fmt.Errorf("panic serializing log fields: %v", r)
		}
	}()
	jsonEncoder := zapcore.NewJSONEncoder(zapcore.EncoderConfig{SkipLineEnding: true})
	buf, err := jsonEncoder.EncodeEntry(zapcore.Entry{}, fields)
	if err != nil {
		return "", err
	}

	return string(buf.Bytes()), nil
}

// splitCorrelationFields pulls the fields in correlationKeys out of fields,
// in correlationKeys order, and returns them alongside whatever remains.
func splitCorrelationFields(fields []zapcore.Field) (correlated, rest []zapcore.Field) {
	byKey := make(map[string]zapcore.Field, len(fields))
	for _, f := range fields {
		byKey[f.Key] = f
	}
	for _, key := range correlationKeys {
		if f, ok := byKey[key]; ok {
			correlated = append(correlated, f)
		}
	}
	for _, f := range fields {
		isCorrelation := false
		for _, key := range correlationKeys {
			if f.Key == key {
				isCorrelation = true
				break
			}
		}
		if !isCorrelation {
			rest = append(rest, f)
		}
	}
	return correlated, rest
}

// Write outputs the log entry to the underlying stream. Run-correlation
// fields (run_id, robot_id, target_id -- see correlationKeys) are printed
// together as their own tab-separated JSON column ahead of the remaining
// fields' JSON blob, so a multi-grid run's log can be filtered to one grid or one
// robot with a plain text match instead of a JSON parse.
func (appender ConsoleAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	const maxLength = 13
	toPrint := make([]string, 0, maxLength)
	// We use UTC so that logs from grids planned on different machines can be compared
	// without needing them to be configured in the same timezone.
	toPrint = append(toPrint, entry.Time.UTC().Format(DefaultTimeFormatStr))
	toPrint = append(toPrint, strings.ToUpper(entry.Level.String()))
	toPrint = append(toPrint, entry.LoggerName)
	if entry.Caller.Defined {
		toPrint = append(toPrint, callerToString(&entry.Caller))
	}
	toPrint = append(toPrint, entry.Message)

	correlated, rest := splitCorrelationFields(fields)
	if len(correlated) > 0 {
		correlatedJSON, err := ZapcoreFieldsToJSON(correlated)
		if err == nil {
			toPrint = append(toPrint, correlatedJSON)
		}
	}

	if len(rest) == 0 {
		fmt.Fprintln(appender.Writer, strings.Join(toPrint, "\t")) //nolint:errcheck
		return nil
	}

	fieldsJSON, err := ZapcoreFieldsToJSON(rest)
	if err != nil {
		errJSON, err := json.Marshal(map[string]string{"logging_err": err.Error()})
		if err != nil {
			// This should never happen but append the raw sting as a last resort just in case.
			toPrint = append(toPrint, err.Error())
		} else {
			toPrint = append(toPrint, string(errJSON))
		}
	} else {
		toPrint = append(toPrint, fieldsJSON)
	}

	fmt.Fprintln(appender.Writer, strings.Join(toPrint, "\t")) //nolint:errcheck
	return nil
}

// Sync is a no-op.
func (appender ConsoleAppender) Sync() error {
	return nil
}

// The input `caller` must satisfy `caller.Defined == true`.
func callerToString(caller *zapcore.EntryCaller) string {
	// The file returned by `runtime.Caller` is a full path and always contains '/' to separate
	// directories. Including on windows. We only want to keep the `<package>/<file>` part of the
	// path. We use a stateful lambda to count back two '/' runes.
	cnt := 0
	idx := strings.LastIndexFunc(caller.File, func(rn rune) bool {
		if rn == '/' {
			cnt++
		}

		if cnt == 2 {
			return true
		}

		return false
	})

	// If idx >= 0, then we add 1 to trim the leading '/'.
	// If idx == -1 (not found), we add 1 to return the entire file.
	return fmt.Sprintf("%s:%d", caller.File[idx+1:], caller.Line)
}
