package scanner

import (
	"context"
	"image"
	"sync"

	"frontdesk_kiosk/internal/domain"
)

// Camera opens a frame stream.
type Camera interface {
	Open(ctx context.Context) (Stream, error)
}

// Stream is an open camera. Frame returns the newest frame not yet returned.
type Stream interface {
	Frame() (image.Image, bool)
	Torch() (available, on bool)
	SetTorch(on bool) error
	Close() error
}

// Feed is a camera whose frames are pushed by the kiosk shell over HTTP.
// The shell attaches a device first; Open fails until it does.
type Feed struct {
	mu       sync.Mutex
	attached bool
	torch    bool
	stream   *feedStream
}

func NewFeed() *Feed { return &Feed{} }

// Attach records that the shell has a camera, and whether it has a torch.
func (f *Feed) Attach(torch bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attached = true
	f.torch = torch
}

// Detach forgets the device and closes any open stream.
func (f *Feed) Detach() {
	f.mu.Lock()
	s := f.stream
	f.attached = false
	f.torch = false
	f.stream = nil
	f.mu.Unlock()
	if s != nil {
		_ = s.Close()
	}
}

func (f *Feed) Attached() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attached
}

func (f *Feed) Open(ctx context.Context) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.attached {
		return nil, domain.ErrCameraUnavailable
	}
	if f.stream != nil {
		_ = f.stream.Close()
	}
	f.stream = &feedStream{torch: f.torch}
	return f.stream, nil
}

// Push hands a frame to the open stream.
func (f *Feed) Push(img image.Image) error {
	f.mu.Lock()
	s := f.stream
	f.mu.Unlock()
	if s == nil {
		return domain.ErrCameraStopped
	}
	return s.push(img)
}

type feedStream struct {
	mu      sync.Mutex
	frame   image.Image
	fresh   bool
	torch   bool
	torchOn bool
	closed  bool
}

func (s *feedStream) push(img image.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrCameraStopped
	}
	s.frame = img
	s.fresh = true
	return nil
}

func (s *feedStream) Frame() (image.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !s.fresh {
		return nil, false
	}
	s.fresh = false
	return s.frame, true
}

func (s *feedStream) Torch() (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.torch, s.torchOn
}

func (s *feedStream) SetTorch(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.closed:
		return domain.ErrCameraStopped
	case !s.torch:
		return domain.ErrTorchUnavailable
	}
	s.torchOn = on
	return nil
}

func (s *feedStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.frame = nil
	s.torchOn = false
	return nil
}
