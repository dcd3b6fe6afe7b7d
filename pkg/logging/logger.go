package logging

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"log"

	"github.com/fatih/color"
)

// writer is an io.Writer that splits its input stream into lines and routes
// each complete line through a logging callback.
type writer struct {
	callback func(string)
	buffer   []byte
}

func trimCarriageReturn(buffer []byte) []byte {
	if len(buffer) > 0 && buffer[len(buffer)-1] == '\r' {
		return buffer[:len(buffer)-1]
	}
	return buffer
}

func (w *writer) Write(buffer []byte) (int, error) {
	w.buffer = append(w.buffer, buffer...)

	var processed int
	remaining := w.buffer
	for {
		index := bytes.IndexByte(remaining, '\n')
		if index == -1 {
			break
		}
		w.callback(string(trimCarriageReturn(remaining[:index])))
		processed += index + 1
		remaining = remaining[index+1:]
	}

	if processed > 0 {
		leftover := len(w.buffer) - processed
		if leftover > 0 {
			copy(w.buffer[:leftover], w.buffer[processed:])
		}
		w.buffer = w.buffer[:leftover]
	}

	return len(buffer), nil
}

// Logger is the package's logging type. A nil *Logger is valid and simply
// discards everything sent to it, so components can be handed a logger
// unconditionally and never need a nil check before using one.
type Logger struct {
	prefix string
}

// Root is the logger every sublogger ultimately derives from.
var Root = &Logger{}

// Sublogger creates a new logger that prefixes its output with name, nested
// under this logger's own prefix.
func (l *Logger) Sublogger(name string) *Logger {
	if l == nil {
		return nil
	}
	prefix := name
	if l.prefix != "" {
		prefix = l.prefix + "." + name
	}
	return &Logger{prefix: prefix}
}

func (l *Logger) output(calldepth int, line string) {
	if l.prefix != "" {
		line = fmt.Sprintf("[%s] %s", l.prefix, line)
	}
	log.Output(calldepth, line)
}

// Print logs with fmt.Print semantics.
func (l *Logger) Print(v ...interface{}) {
	if l != nil {
		l.output(3, fmt.Sprint(v...))
	}
}

// Printf logs with fmt.Printf semantics.
func (l *Logger) Printf(format string, v ...interface{}) {
	if l != nil {
		l.output(3, fmt.Sprintf(format, v...))
	}
}

// Println logs with fmt.Println semantics.
func (l *Logger) Println(v ...interface{}) {
	if l != nil {
		l.output(3, fmt.Sprintln(v...))
	}
}

// Writer returns an io.Writer that logs each line written to it with
// Println. Safe to use on a nil *Logger (writes are discarded).
func (l *Logger) Writer() io.Writer {
	if l == nil {
		return ioutil.Discard
	}
	return &writer{callback: l.Println}
}

// Warn logs a recoverable, traversal-local or hash-local failure: logged
// once, and the offending item is skipped by the caller.
func (l *Logger) Warn(err error) {
	if l != nil {
		l.output(3, color.YellowString("warning: %v", err))
	}
}

// Error logs a more serious failure that does not itself abort the run.
func (l *Logger) Error(err error) {
	if l != nil {
		l.output(3, color.RedString("error: %v", err))
	}
}
