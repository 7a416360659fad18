// Package pkg is a package that provides utilities for scopemv.
package pkg

import (
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
)

// Spill is an append-only, gob-backed store for items of type T. It lets a
// scan over a large tree accumulate per-record results without holding every
// one of them in memory.
type Spill[T any] interface {
	Len() uint64
	Append(item T) error
	Range(fn func(index uint64, item T) error) error
	Close() error
}

type spillImpl[T any] struct {
	path    string
	file    *os.File
	encoder *gob.Encoder
	length  uint64
}

// NewSpill creates a Spill backed by a temporary file, removed on Close.
func NewSpill[T any]() (Spill[T], error) {
	file, err := os.CreateTemp("", "scopemv-spill-*")
	if err != nil {
		slog.Error("failed to create spill file", "error", err)
		return nil, fmt.Errorf("failed to create spill file: %w", err)
	}

	return &spillImpl[T]{
		path:    file.Name(),
		file:    file,
		encoder: gob.NewEncoder(file),
	}, nil
}

// Append encodes item at the end of the spill.
func (s *spillImpl[T]) Append(item T) error {
	if err := s.encoder.Encode(item); err != nil {
		slog.Error("failed to encode spill item", "path", s.path, "index", s.length, "error", err)
		return fmt.Errorf("failed to encode item: %w", err)
	}

	s.length++

	return nil
}

// Len returns the number of appended items.
func (s *spillImpl[T]) Len() uint64 {
	return s.length
}

// Range replays every appended item in order, stopping at the first callback
// error.
func (s *spillImpl[T]) Range(fn func(index uint64, item T) error) error {
	file, err := os.Open(s.path)
	if err != nil {
		slog.Error("failed to open spill for range", "path", s.path, "error", err)
		return fmt.Errorf("failed to open spill: %w", err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("failed to close spill file", "path", s.path, "error", err)
		}
	}()

	decoder := gob.NewDecoder(file)

	for i := uint64(0); i < s.length; i++ {
		var item T
		if err := decoder.Decode(&item); err != nil {
			slog.Error("failed to decode spill item", "path", s.path, "index", i, "error", err)
			return fmt.Errorf("failed to decode item at index %d: %w", i, err)
		}

		if err := fn(i, item); err != nil {
			return err
		}
	}

	return nil
}

// Close releases the underlying temporary file.
func (s *spillImpl[T]) Close() error {
	if s.file != nil {
		if err := s.file.Close(); err != nil {
			slog.Error("failed to close spill file", "path", s.path, "error", err)
			return err
		}

		s.file = nil
	}

	return os.Remove(s.path)
}
