// Package memorylog is the append-only sink for prompt/response records.
// Records are written as JSON lines to a per-UTC-day file under the
// configured directory, via a bounded queue and a single background writer
// so that bursts cannot grow memory without bound and concurrent callers
// never interleave partial writes.
package memorylog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aetheroos/aethero-core/internal/domain"
	"github.com/aetheroos/aethero-core/internal/observability"
)

type item struct {
	rec   *domain.LogRecord
	flush chan struct{} // set on flush markers instead of rec
}

// FileSink implements domain.MemoryLog.
type FileSink struct {
	dir string
	now func() time.Time

	// queue is never closed: shutdown is signaled through stop, so a
	// caller racing Close can at worst drop a record, never panic.
	queue chan item
	stop  chan struct{}
	wg    sync.WaitGroup

	file   *os.File
	date   string
	closed atomic.Bool

	written atomic.Int64
	dropped atomic.Int64
}

// NewFileSink starts the background writer. queueSize bounds the number of
// in-flight records; a full queue drops new records.
func NewFileSink(dir string, queueSize int) (*FileSink, error) {
	if queueSize <= 0 {
		queueSize = 256
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	s := &FileSink{
		dir:   dir,
		now:   time.Now,
		queue: make(chan item, queueSize),
		stop:  make(chan struct{}),
	}

	s.wg.Add(1)
	go s.run()

	return s, nil
}

// Record enqueues without blocking. Fire-and-forget: the only signal for a
// full queue or a closed sink is the dropped counter.
func (s *FileSink) Record(rec *domain.LogRecord) {
	select {
	case <-s.stop:
		s.dropped.Add(1)
		return
	default:
	}

	if rec.Timestamp.IsZero() {
		rec.Timestamp = s.now()
	}
	select {
	case s.queue <- item{rec: rec}:
	default:
		s.dropped.Add(1)
	}
}

// Flush blocks until every record enqueued before the call is on disk, or
// returns early when the sink is shutting down.
func (s *FileSink) Flush() {
	done := make(chan struct{})
	select {
	case s.queue <- item{flush: done}:
	case <-s.stop:
		return
	}
	select {
	case <-done:
	case <-s.stop:
	}
}

// Close stops the writer, draining what is already queued, and closes the
// current file. Safe to call concurrently with Record and Flush.
func (s *FileSink) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	close(s.stop)
	s.wg.Wait()

	if s.file != nil {
		err := s.file.Close()
		s.file = nil
		return err
	}
	return nil
}

// Written reports how many records reached the file.
func (s *FileSink) Written() int64 { return s.written.Load() }

// Dropped reports how many records were lost to a full queue.
func (s *FileSink) Dropped() int64 { return s.dropped.Load() }

// QueueDepth reports how many records are waiting for the writer.
func (s *FileSink) QueueDepth() int { return len(s.queue) }

func (s *FileSink) run() {
	defer s.wg.Done()

	for {
		select {
		case it := <-s.queue:
			s.handle(it)
		case <-s.stop:
			// drain what made it into the queue, then exit
			for {
				select {
				case it := <-s.queue:
					s.handle(it)
				default:
					return
				}
			}
		}
	}
}

func (s *FileSink) handle(it item) {
	if it.flush != nil {
		close(it.flush)
		return
	}
	if err := s.write(it.rec); err != nil {
		observability.Logger().Error("memory log write failed", "error", err)
		return
	}
	s.written.Add(1)
}

// write appends one JSON line to the file for the record's UTC day,
// rolling to a new file when the day changes. Only the writer goroutine
// touches the file.
func (s *FileSink) write(rec *domain.LogRecord) error {
	date := rec.Timestamp.UTC().Format("2006-01-02")
	if s.file == nil || date != s.date {
		if s.file != nil {
			s.file.Close()
		}
		path := filepath.Join(s.dir, fmt.Sprintf("log_%s.json", date))
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		s.file = f
		s.date = date
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling log record: %w", err)
	}
	if _, err := s.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("appending log record: %w", err)
	}
	return nil
}
