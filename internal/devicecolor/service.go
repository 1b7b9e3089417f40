// Package devicecolor converts device CMYK to sRGB through an ICC output
// profile.
//
// The profile is loaded once, in the background. Until it is ready, and
// after a failed load, the Service reports ErrUnavailable immediately so
// that callers can fall back to an analytic conversion without waiting.
package devicecolor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrUnavailable means no device transform is loaded.
var ErrUnavailable = errors.New("devicecolor: transform service unavailable")

// Transformer converts one CMYK color, components in [0,1], to 8-bit sRGB.
type Transformer interface {
	TransformCMYK(c, m, y, k float64) (r, g, b uint8, err error)
}

// LoadFunc performs the one-time backend initialization.
type LoadFunc func(ctx context.Context) (Transformer, error)

// Service is a Transformer that becomes usable once its LoadFunc finishes.
// All methods are safe for concurrent use.
type Service struct {
	tr    atomic.Pointer[loaded]
	err   atomic.Pointer[error]
	start sync.Once
	done  chan struct{}
}

type loaded struct {
	Transformer
}

// NewService returns a service with nothing loaded.
func NewService() *Service {
	return &Service{done: make(chan struct{})}
}

// Start runs load in a new goroutine. Only the first call has any effect.
func (s *Service) Start(ctx context.Context, load LoadFunc) {
	s.start.Do(func() {
		go func() {
			defer close(s.done)
			tr, err := load(ctx)
			if err == nil && tr == nil {
				err = ErrUnavailable
			}
			if err != nil {
				s.err.Store(&err)
				return
			}
			s.tr.Store(&loaded{tr})
		}()
	})
}

// TransformCMYK delegates to the loaded transform, or returns
// ErrUnavailable without blocking.
func (s *Service) TransformCMYK(c, m, y, k float64) (uint8, uint8, uint8, error) {
	tr := s.tr.Load()
	if tr == nil {
		return 0, 0, 0, ErrUnavailable
	}
	return tr.TransformCMYK(c, m, y, k)
}

// Ready reports whether a transform is loaded.
func (s *Service) Ready() bool {
	return s.tr.Load() != nil
}

// Err returns the load error, if loading has failed.
func (s *Service) Err() error {
	if p := s.err.Load(); p != nil {
		return *p
	}
	return nil
}

// Wait blocks until loading finishes or ctx is done. It returns the load
// error or the context error.
func (s *Service) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}
