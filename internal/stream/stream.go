// Package stream defines the byte-stream contract the filesystem adapter
// copies through: buffered reads and writes that report completion with a
// sentinel result code rather than a bare error.
package stream

import (
	"io"
	"os"
)

// Result is the completion code of a stream operation.
type Result int

const (
	// Success means the operation transferred at least one byte.
	Success Result = iota
	// EOS means the stream has no more data to read.
	EOS
	// Error means the operation failed; Err exposes the cause.
	Error
)

// Interface is a byte stream with sentinel completion codes.
type Interface interface {
	// Read fills buf and returns the byte count with a Result.
	Read(buf []byte) (int, Result)
	// Write drains buf and returns the byte count with a Result. A short
	// write reports Error.
	Write(buf []byte) (int, Result)
	// Err returns the error behind the most recent Error result, nil
	// otherwise.
	Err() error
	// Close releases the underlying handle.
	Close() error
}

// FileStream adapts an os.File to the stream contract.
type FileStream struct {
	file *os.File
	err  error
}

// Open opens the named file with the given flags as a stream. Files created
// through the write flags get mode 0644.
func Open(name string, flag int) (*FileStream, error) {
	f, err := os.OpenFile(name, flag, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileStream{file: f}, nil
}

// Read implements Interface.
func (s *FileStream) Read(buf []byte) (int, Result) {
	n, err := s.file.Read(buf)
	if n > 0 {
		return n, Success
	}
	if err == io.EOF {
		return 0, EOS
	}
	if err != nil {
		s.err = err
		return 0, Error
	}
	// Zero-byte read with no error only happens for empty buffers.
	return 0, Success
}

// Write implements Interface.
func (s *FileStream) Write(buf []byte) (int, Result) {
	n, err := s.file.Write(buf)
	if err != nil {
		s.err = err
		return n, Error
	}
	return n, Success
}

// Err implements Interface.
func (s *FileStream) Err() error {
	return s.err
}

// Close implements Interface.
func (s *FileStream) Close() error {
	return s.file.Close()
}

// Name returns the name of the underlying file.
func (s *FileStream) Name() string {
	return s.file.Name()
}
