package scanner

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"frontdesk_kiosk/internal/adapters/observability"
	"frontdesk_kiosk/internal/domain"
)

// Poller reads frames from a camera at a fixed pace and publishes every
// barcode the live engine finds. Uploaded stills go to the still engine.
type Poller struct {
	camera   Camera
	live     Engine
	still    Engine
	interval time.Duration

	mu     sync.Mutex
	stream Stream
	cancel context.CancelFunc
}

func NewPoller(camera Camera, live, still Engine, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 110 * time.Millisecond
	}
	if still == nil {
		still = live
	}
	return &Poller{camera: camera, live: live, still: still, interval: interval}
}

// Start opens the camera and begins polling. A running session is replaced.
func (p *Poller) Start(ctx context.Context, publish func(text string)) error {
	p.Stop()

	stream, err := p.camera.Open(ctx)
	if err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	loopCtx, cancel := context.WithCancel(ctx)

	p.mu.Lock()
	p.stream = stream
	p.cancel = cancel
	p.mu.Unlock()

	observability.SetCameraActive(true)
	log.Info().Str("engine", p.live.Name()).Dur("interval", p.interval).Msg("camera started")
	go p.loop(loopCtx, stream, publish)
	return nil
}

// Stop cancels the loop and closes the stream. It does not wait for the loop
// to exit; a decode in flight may still publish once.
func (p *Poller) Stop() {
	p.mu.Lock()
	stream, cancel := p.stream, p.cancel
	p.stream, p.cancel = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	if err := stream.Close(); err != nil {
		log.Warn().Err(err).Msg("camera close")
	}
	observability.SetCameraActive(false)
	log.Info().Msg("camera stopped")
}

func (p *Poller) loop(ctx context.Context, stream Stream, publish func(string)) {
	limiter := rate.NewLimiter(rate.Every(p.interval), 1)
	for {
		if err := limiter.Wait(ctx); err != nil {
			return
		}
		img, ok := stream.Frame()
		if !ok {
			continue
		}
		text, err := decodeWith(p.live, img)
		if err != nil {
			continue
		}
		if ctx.Err() != nil {
			return
		}
		publish(text)
	}
}

func decodeWith(e Engine, img image.Image) (string, error) {
	t0 := time.Now()
	text, err := e.Decode(img)
	observability.ObserveDecode(e.Name(), time.Since(t0))
	return text, err
}

func (p *Poller) ToggleTorch() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stream == nil {
		return domain.ErrNoCamera
	}
	avail, on := p.stream.Torch()
	if !avail {
		return domain.ErrTorchUnavailable
	}
	return p.stream.SetTorch(!on)
}

// DecodeImage decodes an uploaded JPEG or PNG.
func (p *Poller) DecodeImage(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	return decodeWith(p.still, img)
}

func (p *Poller) Status() domain.ScannerStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	st := domain.ScannerStatus{Engine: p.live.Name(), Camera: "idle"}
	if p.stream != nil {
		st.Camera = "running"
		st.TorchAvailable, st.TorchOn = p.stream.Torch()
	}
	return st
}
