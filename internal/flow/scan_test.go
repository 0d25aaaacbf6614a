package flow_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontdesk_kiosk/internal/domain"
	"frontdesk_kiosk/internal/flow"
)

// toScanner opens the scanner with the camera running.
func (r *rig) toScanner(t *testing.T) {
	t.Helper()
	r.do(t, flow.ActCheckIn, flow.ActScanID, flow.ActStartCamera)
	require.Equal(t, flow.ScreenScanner, r.m.Screen())
}

func TestScan_ReturningGuest(t *testing.T) {
	r := newRig(t)
	r.toScanner(t)
	assert.Equal(t, 1, r.notes.count("Scanning…"))
	assert.Equal(t, "running", r.m.View().Scanner.Camera)

	r.scan.emit(janePayload)

	v := r.m.View()
	assert.Equal(t, flow.ScreenReturningGuest, v.Screen)
	require.NotNil(t, v.Lookup)
	assert.True(t, v.Lookup.Found)
	assert.Equal(t, "G-10001", v.Lookup.Profile.GuestID)
	assert.Equal(t, "G-10001", v.GuestID)
	assert.Equal(t, "JANE SAMPLE", v.Form.FullName)
	assert.Equal(t, "33101", v.Form.Zip)
	assert.Equal(t, "1990-01-01", v.Form.DOB)
	assert.Equal(t, "36", v.Form.Age)
	assert.Equal(t, janePayload, v.Form.RawScanPayload)
	assert.Equal(t, 1, r.notes.count("Details auto-filled."))
	assert.False(t, r.scan.running, "camera must be released when leaving the scanner")

	r.do(t, flow.ActProceed)
	assert.Equal(t, flow.ScreenStayDetails, r.m.Screen())
}

func TestScan_NewGuestSaved(t *testing.T) {
	r := newRig(t)
	r.toScanner(t)
	r.scan.emit(johnPayload)

	v := r.m.View()
	require.Equal(t, flow.ScreenNewGuest, v.Screen)
	assert.False(t, v.Lookup.Found)

	r.do(t, flow.ActSave)
	v = r.m.View()
	assert.Equal(t, flow.ScreenStayDetails, v.Screen)
	assert.Regexp(t, `^G-[0-9A-F]{8}$`, v.GuestID)
	assert.Equal(t, 1, r.notes.count("Guest saved."))

	res, err := r.guests.Lookup(context.Background(), "DL", "D7654321")
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, "JOHN DOE", res.Profile.FullName)
}

func TestScan_DecodeFailureLeavesFormUntouched(t *testing.T) {
	r := newRig(t)
	r.do(t, flow.ActCheckIn)
	typed := domain.GuestForm{FullName: "Typed Name", City: "Reno"}
	require.NoError(t, r.m.UpdateGuestForm(typed))
	r.do(t, flow.ActScanID, flow.ActStartCamera)

	r.scan.emit("hello, this is not a license")

	v := r.m.View()
	assert.Equal(t, flow.ScreenScanner, v.Screen)
	assert.Equal(t, typed, v.Form)
	assert.Equal(t, 1, r.notes.count("Auto-fill failed. Please enter details manually."))
	assert.Equal(t, 0, r.notes.count("Details auto-filled."))
	assert.True(t, r.scan.running)
}

func TestScan_StateMismatchIsAdvisory(t *testing.T) {
	r := newRig(t)
	r.toScanner(t)
	r.scan.emit("DAQON123\nDCSTREMBLAY\nDACMARIE\nDAJON\nDAKK1A 0B1")

	v := r.m.View()
	assert.Equal(t, flow.ScreenNewGuest, v.Screen)
	assert.Equal(t, "", v.Form.State)
	assert.Equal(t, "K1A 0B1", v.Form.Zip)
	assert.Equal(t, "State value from scan doesn't match list.", v.FormErrors["state"])
}

func TestScan_DuplicateSuppressed(t *testing.T) {
	r := newRig(t)
	r.toScanner(t)
	r.scan.emit(johnPayload)
	require.Equal(t, flow.ScreenNewGuest, r.m.Screen())

	// back to the scanner within the window: same text is ignored
	r.do(t, flow.ActCancel, flow.ActScanID, flow.ActStartCamera)
	r.clock.Advance(500 * time.Millisecond)
	r.scan.emit(johnPayload)
	assert.Equal(t, flow.ScreenScanner, r.m.Screen())
	assert.Equal(t, 1, r.notes.count("Details auto-filled."))

	// different text inside the window is processed
	require.NoError(t, r.m.PublishScan(context.Background(), "not a license"))
	assert.Equal(t, 1, r.notes.count("Auto-fill failed. Please enter details manually."))

	r.clock.Advance(2 * time.Second)
	r.scan.emit(johnPayload)
	assert.Equal(t, flow.ScreenNewGuest, r.m.Screen())
	assert.Equal(t, 2, r.notes.count("Details auto-filled."))
}

func TestScan_RepeatAfterWindow(t *testing.T) {
	r := newRig(t)
	r.toScanner(t)
	r.scan.emit("garbage one")
	r.clock.Advance(1400 * time.Millisecond)
	r.scan.emit("garbage one")
	assert.Equal(t, 1, r.notes.count("Auto-fill failed. Please enter details manually."))

	r.clock.Advance(2 * time.Second)
	r.scan.emit("garbage one")
	assert.Equal(t, 2, r.notes.count("Auto-fill failed. Please enter details manually."))
}

func TestScan_StaleCallbackDropped(t *testing.T) {
	r := newRig(t)
	r.toScanner(t)
	tok := r.m.Token()
	oldPublish := r.scan.publish

	r.do(t, flow.ActClose)
	oldPublish(johnPayload)
	assert.Equal(t, flow.ScreenGuestRegistration, r.m.Screen())
	assert.Empty(t, r.m.View().Form.IDNumber)

	// re-entering the scanner does not revive the old callback
	r.do(t, flow.ActScanID)
	err := r.m.HandleScan(context.Background(), tok, johnPayload)
	assert.ErrorIs(t, err, domain.ErrStale)
	assert.Equal(t, flow.ScreenScanner, r.m.Screen())
}

func TestScan_CameraReleasedOnEveryExit(t *testing.T) {
	r := newRig(t)
	r.toScanner(t)
	r.do(t, flow.ActClose)
	assert.False(t, r.scan.running)
	assert.Equal(t, 1, r.scan.stops)

	r.do(t, flow.ActScanID, flow.ActStartCamera)
	r.scan.emit(janePayload)
	assert.False(t, r.scan.running)
	assert.Equal(t, 2, r.scan.stops)

	r.do(t, flow.ActCancel, flow.ActScanID, flow.ActStartCamera)
	r.clock.Advance(2 * time.Second)
	r.scan.emit(johnPayload)
	assert.False(t, r.scan.running)
	assert.Equal(t, 3, r.scan.stops)
}

func TestScan_OnlyOnScannerScreen(t *testing.T) {
	r := newRig(t)
	err := r.m.PublishScan(context.Background(), janePayload)
	assert.ErrorIs(t, err, domain.ErrActionNotAllowed)
	err = r.m.ScanImage(context.Background(), []byte{1, 2, 3})
	assert.ErrorIs(t, err, domain.ErrActionNotAllowed)
}

func TestScan_CameraControls(t *testing.T) {
	r := newRig(t)
	r.scan.startErr = fmt.Errorf("open: %w", domain.ErrCameraUnavailable)
	r.do(t, flow.ActCheckIn, flow.ActScanID, flow.ActStartCamera)
	assert.Equal(t, flow.ScreenScanner, r.m.Screen())
	assert.Equal(t, 1, r.notes.count("Camera blocked. Enable camera permissions for this site."))

	r.scan.torchErr = domain.ErrNoCamera
	r.do(t, flow.ActToggleTorch)
	assert.Equal(t, "Start the camera first.", r.notes.last())

	r.scan.startErr = nil
	r.scan.torchErr = domain.ErrTorchUnavailable
	r.do(t, flow.ActStartCamera, flow.ActToggleTorch)
	assert.Equal(t, "Torch not available on this device/browser.", r.notes.last())

	r.do(t, flow.ActStopCamera)
	assert.Equal(t, "Stopped.", r.notes.last())
	assert.Equal(t, flow.ScreenScanner, r.m.Screen())
}

func TestScanImage(t *testing.T) {
	r := newRig(t)
	r.toScanner(t)

	r.scan.decodeErr = domain.ErrNoBarcode
	require.NoError(t, r.m.ScanImage(context.Background(), []byte("png")))
	assert.Equal(t, "Auto-fill failed. Please enter details manually.", r.notes.last())

	r.scan.decodeErr = errors.New("image: unknown format")
	require.NoError(t, r.m.ScanImage(context.Background(), []byte("???")))
	assert.Equal(t, "Could not decode that image.", r.notes.last())

	r.scan.decodeErr = nil
	r.scan.decodeText = janePayload
	require.NoError(t, r.m.ScanImage(context.Background(), []byte("png")))
	assert.Equal(t, flow.ScreenReturningGuest, r.m.Screen())
}

type failingDirectory struct{}

func (failingDirectory) Lookup(context.Context, string, string) (domain.LookupResult, error) {
	return domain.LookupResult{}, errors.New("registry down")
}

func (failingDirectory) Register(context.Context, domain.GuestForm, time.Time) (domain.GuestProfile, error) {
	return domain.GuestProfile{}, errors.New("registry down")
}

func TestScan_LookupFailureRoutesToNewGuest(t *testing.T) {
	r := newRig(t)
	m := flow.New(flow.DefaultConfig(), flow.Deps{
		Guests: failingDirectory{}, Scanner: r.scan, Notifier: r.notes, Confirmer: r.confirm, Clock: r.clock,
	})
	ctx := context.Background()
	for _, a := range []flow.Action{flow.ActCheckIn, flow.ActScanID, flow.ActStartCamera} {
		require.NoError(t, m.Dispatch(ctx, a))
	}
	r.scan.emit(janePayload)
	assert.Equal(t, flow.ScreenNewGuest, m.Screen())
	assert.Equal(t, 1, r.notes.count("Guest lookup unavailable. Continuing as new guest."))

	err := m.Dispatch(ctx, flow.ActSave)
	assert.Error(t, err)
	assert.Equal(t, flow.ScreenNewGuest, m.Screen())
	assert.Equal(t, "Could not save guest. Try again or skip.", r.notes.last())

	require.NoError(t, m.Dispatch(ctx, flow.ActSkip))
	assert.Equal(t, flow.ScreenStayDetails, m.Screen())
}
