package scanner_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontdesk_kiosk/internal/adapters/scanner"
	"frontdesk_kiosk/internal/domain"
)

// sizeEngine "finds" a barcode in frames of one particular width.
type sizeEngine struct {
	width int
	text  string
}

func (e sizeEngine) Name() string { return "size" }

func (e sizeEngine) Decode(img image.Image) (string, error) {
	if img.Bounds().Dx() == e.width {
		return e.text, nil
	}
	return "", domain.ErrNoBarcode
}

type sink struct {
	mu    sync.Mutex
	texts []string
}

func (s *sink) publish(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append(s.texts, text)
}

func (s *sink) got() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.texts...)
}

func newPoller(torch bool) (*scanner.Poller, *scanner.Feed) {
	f := scanner.NewFeed()
	f.Attach(torch)
	eng := sizeEngine{width: 12, text: "DAQX1"}
	return scanner.NewPoller(f, eng, nil, time.Millisecond), f
}

func TestPoller_PublishesDecodedFrames(t *testing.T) {
	p, f := newPoller(false)
	var out sink
	require.NoError(t, p.Start(context.Background(), out.publish))
	defer p.Stop()

	require.NoError(t, f.Push(frame(5)))
	require.NoError(t, f.Push(frame(12)))
	require.Eventually(t, func() bool { return len(out.got()) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"DAQX1"}, out.got())

	st := p.Status()
	assert.Equal(t, "running", st.Camera)
	assert.Equal(t, "size", st.Engine)
}

func TestPoller_StopReleasesCamera(t *testing.T) {
	p, f := newPoller(false)
	var out sink
	require.NoError(t, p.Start(context.Background(), out.publish))

	p.Stop()
	assert.Equal(t, "idle", p.Status().Camera)
	require.ErrorIs(t, f.Push(frame(12)), domain.ErrCameraStopped)

	time.Sleep(10 * time.Millisecond)
	assert.Empty(t, out.got())

	p.Stop() // idempotent
}

func TestPoller_StartFailsWithoutDevice(t *testing.T) {
	f := scanner.NewFeed()
	p := scanner.NewPoller(f, sizeEngine{}, nil, time.Millisecond)
	err := p.Start(context.Background(), func(string) {})
	require.ErrorIs(t, err, domain.ErrCameraUnavailable)
	assert.Equal(t, "idle", p.Status().Camera)
}

func TestPoller_Torch(t *testing.T) {
	p, _ := newPoller(true)
	require.ErrorIs(t, p.ToggleTorch(), domain.ErrNoCamera)

	require.NoError(t, p.Start(context.Background(), func(string) {}))
	defer p.Stop()
	require.NoError(t, p.ToggleTorch())
	st := p.Status()
	assert.True(t, st.TorchAvailable)
	assert.True(t, st.TorchOn)
	require.NoError(t, p.ToggleTorch())
	assert.False(t, p.Status().TorchOn)

	p2, _ := newPoller(false)
	require.NoError(t, p2.Start(context.Background(), func(string) {}))
	defer p2.Stop()
	require.ErrorIs(t, p2.ToggleTorch(), domain.ErrTorchUnavailable)
}

func TestPoller_DecodeImage(t *testing.T) {
	p, _ := newPoller(false)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, frame(12)))
	text, err := p.DecodeImage(context.Background(), buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "DAQX1", text)

	buf.Reset()
	require.NoError(t, png.Encode(&buf, frame(3)))
	_, err = p.DecodeImage(context.Background(), buf.Bytes())
	require.ErrorIs(t, err, domain.ErrDecodeFailure)

	_, err = p.DecodeImage(context.Background(), []byte("not an image"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrDecodeFailure)
}

func TestPDF417_BlankFrameHasNoBarcode(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 200, 120))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	for _, crop := range []bool{true, false} {
		_, err := scanner.NewPDF417(crop).Decode(img)
		require.ErrorIs(t, err, domain.ErrNoBarcode)
	}
}
