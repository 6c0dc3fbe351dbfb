// Package dirscope changes the process working directory for the duration
// of an operation and always restores it afterwards.
//
// The working directory is process-wide state. Only one scope may be open
// at a time; entering a second one, nested or from another goroutine,
// fails with ErrBusy instead of silently interleaving directory changes.
package dirscope

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrBusy is returned when a scope is already open.
var ErrBusy = errors.New("dirscope: another directory scope is active")

var active sync.Mutex

// Scope is an open directory change. Close restores the previous working
// directory.
type Scope struct {
	path string
	prev string
	once sync.Once
	err  error
}

// Enter switches the process into dir and returns the open scope.
func Enter(dir string) (*Scope, error) {
	if !active.TryLock() {
		return nil, ErrBusy
	}

	prev, err := os.Getwd()
	if err != nil {
		active.Unlock()
		return nil, fmt.Errorf("recording working directory: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		active.Unlock()
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}
	if err := os.Chdir(abs); err != nil {
		active.Unlock()
		return nil, fmt.Errorf("entering %s: %w", abs, err)
	}
	return &Scope{path: abs, prev: prev}, nil
}

// Path is the absolute directory the scope switched into.
func (s *Scope) Path() string { return s.path }

// Close returns to the directory that was current when the scope was
// entered. Calling Close more than once is a no-op.
func (s *Scope) Close() error {
	s.once.Do(func() {
		defer active.Unlock()
		if err := os.Chdir(s.prev); err != nil {
			s.err = fmt.Errorf("restoring working directory %s: %w", s.prev, err)
		}
	})
	return s.err
}

// Within runs fn inside dir. The previous working directory is restored
// whether fn returns normally, returns an error, or panics. A restore
// failure is reported only when fn itself succeeded.
func Within(dir string, fn func(path string) error) (err error) {
	s, err := Enter(dir)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(s.path)
}
