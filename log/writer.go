package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
)

// Writer is an io.Writer that turns each complete line written to it into a
// log record. It is used to redirect script output such as fmt.Print calls
// into the host's log.
type Writer struct {
	logger *slog.Logger
	buf    bytes.Buffer
	mu     sync.Mutex
	level  slog.Level
}

var _ io.Writer = (*Writer)(nil)

// NewWriter returns a Writer that logs every line at level. A nil logger uses
// slog.Default().
func NewWriter(logger *slog.Logger, level slog.Level) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger, level: level}
}

// Write buffers p and emits one record per newline-terminated line.
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadBytes('\n')
		if err != nil {
			// Incomplete line; keep it for the next write.
			w.buf.Reset()
			w.buf.Write(line)
			break
		}
		w.emit(line[:len(line)-1])
	}
	return len(p), nil
}

// Flush logs any buffered partial line.
func (w *Writer) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf.Len() > 0 {
		w.emit(w.buf.Bytes())
		w.buf.Reset()
	}
}

func (w *Writer) emit(line []byte) {
	line = bytes.TrimSuffix(line, []byte{'\r'})
	if len(line) == 0 {
		return
	}
	w.logger.Log(context.Background(), w.level, string(line))
}
