package log

import (
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileLogger appends engine events to a file as a CBOR sequence. It is safe
// for concurrent use.
type FileLogger struct {
	mu          sync.Mutex
	file        *os.File
	encoder     *cbor.Encoder
	syncOnWrite bool
	closed      bool
}

var _ Logger = (*FileLogger)(nil)

// NewFileLogger opens path for appending, creating it with mode 0644 when it
// does not exist.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileLogger{
		file:    f,
		encoder: NewEncoder(f),
	}, nil
}

// SyncOnWrite makes every Log call flush the event to stable storage, so a
// reader tailing the file sees events as they happen. Off by default; at
// high dispatch rates the per-event fsync is noticeable.
func (l *FileLogger) SyncOnWrite(on bool) {
	l.mu.Lock()
	l.syncOnWrite = on
	l.mu.Unlock()
}

// Log appends an event to the file. Write errors are swallowed: logging
// must not disrupt dispatch.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	_ = l.encoder.Encode(event)
	if l.syncOnWrite {
		_ = l.file.Sync()
	}
}

// Sync flushes written events to stable storage.
func (l *FileLogger) Sync() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	return l.file.Sync()
}

// Close closes the underlying file. Close is idempotent; Log calls after
// Close are silently dropped.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	return l.file.Close()
}
