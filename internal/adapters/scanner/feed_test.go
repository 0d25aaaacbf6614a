package scanner_test

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontdesk_kiosk/internal/adapters/scanner"
	"frontdesk_kiosk/internal/domain"
)

func frame(w int) image.Image { return image.NewGray(image.Rect(0, 0, w, w)) }

func TestFeed_OpenNeedsAttachedDevice(t *testing.T) {
	f := scanner.NewFeed()
	_, err := f.Open(context.Background())
	require.ErrorIs(t, err, domain.ErrCameraUnavailable)
	require.ErrorIs(t, f.Push(frame(4)), domain.ErrCameraStopped)

	f.Attach(false)
	assert.True(t, f.Attached())
	s, err := f.Open(context.Background())
	require.NoError(t, err)

	_, ok := s.Frame()
	assert.False(t, ok, "no frame pushed yet")

	require.NoError(t, f.Push(frame(4)))
	require.NoError(t, f.Push(frame(8)))
	img, ok := s.Frame()
	require.True(t, ok)
	assert.Equal(t, 8, img.Bounds().Dx(), "newest frame wins")
	_, ok = s.Frame()
	assert.False(t, ok, "a frame is returned once")
}

func TestFeed_CloseAndDetach(t *testing.T) {
	f := scanner.NewFeed()
	f.Attach(true)
	s, err := f.Open(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.SetTorch(true))
	avail, on := s.Torch()
	assert.True(t, avail)
	assert.True(t, on)

	require.NoError(t, s.Close())
	require.ErrorIs(t, f.Push(frame(4)), domain.ErrCameraStopped)
	require.ErrorIs(t, s.SetTorch(true), domain.ErrCameraStopped)
	_, on = s.Torch()
	assert.False(t, on)

	s2, err := f.Open(context.Background())
	require.NoError(t, err)
	f.Detach()
	assert.False(t, f.Attached())
	_, ok := s2.Frame()
	assert.False(t, ok)
	_, err = f.Open(context.Background())
	require.ErrorIs(t, err, domain.ErrCameraUnavailable)
}

func TestFeed_TorchlessDevice(t *testing.T) {
	f := scanner.NewFeed()
	f.Attach(false)
	s, err := f.Open(context.Background())
	require.NoError(t, err)
	require.ErrorIs(t, s.SetTorch(true), domain.ErrTorchUnavailable)
}

func TestFeed_OpenHonoursCancelledContext(t *testing.T) {
	f := scanner.NewFeed()
	f.Attach(false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.Open(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
