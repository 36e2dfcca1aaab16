package logger

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"
)

const logQueueSize = 1000

// AsyncFileWriter decouples log writes from request handling: writes land in
// a buffered channel and a single goroutine drains them to disk, flushing on
// a ticker. When the queue is full the entry is counted as dropped instead of
// blocking the caller.
type AsyncFileWriter struct {
	writer  *bufio.Writer
	file    *os.File
	logChan chan []byte
	done    chan struct{}
	drained chan struct{}
	dropped atomic.Uint64
}

func NewAsyncFileWriter(logFile string, bufferSize int) (*AsyncFileWriter, error) {
	safeLogFile := filepath.Clean(logFile)
	file, err := os.OpenFile(safeLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, err
	}

	aw := &AsyncFileWriter{
		writer:  bufio.NewWriterSize(file, bufferSize),
		file:    file,
		logChan: make(chan []byte, logQueueSize),
		done:    make(chan struct{}),
		drained: make(chan struct{}),
	}

	go aw.processLogs()

	return aw, nil
}

func (aw *AsyncFileWriter) Write(p []byte) (n int, err error) {
	select {
	case aw.logChan <- append([]byte{}, p...):
		return len(p), nil
	default:
		aw.dropped.Add(1)
		return 0, nil
	}
}

// Dropped reports how many entries were discarded because the queue was full.
func (aw *AsyncFileWriter) Dropped() uint64 {
	return aw.dropped.Load()
}

// processLogs is the only goroutine touching the buffered writer.
func (aw *AsyncFileWriter) processLogs() {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case logData := <-aw.logChan:
			if _, err := aw.writer.Write(logData); err != nil {
				fmt.Println("error writing log data to file", err)
			}

		case <-ticker.C:
			_ = aw.writer.Flush()

		case <-aw.done:
			aw.drain()
			return
		}
	}
}

// drain empties whatever is still queued so shutdown does not lose entries.
func (aw *AsyncFileWriter) drain() {
	defer close(aw.drained)
	for {
		select {
		case logData := <-aw.logChan:
			_, _ = aw.writer.Write(logData)
		default:
			_ = aw.writer.Flush()
			return
		}
	}
}

func (aw *AsyncFileWriter) Close() {
	close(aw.done)
	<-aw.drained
	if d := aw.dropped.Load(); d > 0 {
		fmt.Printf("log writer dropped %d entries\n", d)
	}
	_ = aw.file.Close()
}
