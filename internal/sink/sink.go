// Package sink provides byte-stream destinations with an explicit lifecycle.
// Callers acquire a Sink once and Close it on exit; nothing here is global.
package sink

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Sink is a writable destination that must be closed by its owner.
type Sink interface {
	io.Writer
	Close() error
}

// nopCloser wraps a writer the sink does not own, such as os.Stdout.
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// Stdout writes to the process stdout. Closing it leaves stdout open.
func Stdout() Sink { return nopCloser{os.Stdout} }

// Stderr writes to the process stderr. Closing it leaves stderr open.
func Stderr() Sink { return nopCloser{os.Stderr} }

// Discard drops everything written to it.
func Discard() Sink { return nopCloser{io.Discard} }

// Writer adapts w without taking ownership of it.
func Writer(w io.Writer) Sink { return nopCloser{w} }

// File is an append-only sink backed by a file on disk.
type File struct {
	mu     sync.Mutex
	f      *os.File
	path   string
	closed bool
}

// OpenFile opens path for appending, creating it and its parent directory.
func OpenFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &File{f: f, path: path}, nil
}

func (s *File) Path() string { return s.path }

func (s *File) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, os.ErrClosed
	}
	return s.f.Write(p)
}

// Close syncs and closes the file. A second Close is a no-op.
func (s *File) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return errors.Join(s.f.Sync(), s.f.Close())
}

// Tee mirrors every write to all of its sinks.
type Tee struct {
	sinks []Sink
}

func NewTee(sinks ...Sink) *Tee {
	return &Tee{sinks: sinks}
}

// Write sends p to every sink. All sinks are attempted; the first short
// write or error is reported.
func (t *Tee) Write(p []byte) (int, error) {
	var errs []error
	for _, s := range t.sinks {
		n, err := s.Write(p)
		if err == nil && n != len(p) {
			err = io.ErrShortWrite
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return 0, errors.Join(errs...)
	}
	return len(p), nil
}

// Close closes every sink and joins their errors.
func (t *Tee) Close() error {
	var errs []error
	for _, s := range t.sinks {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
