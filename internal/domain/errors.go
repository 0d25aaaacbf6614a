package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// Barcode decode failures. The operator completes the form manually.
var (
	ErrDecodeFailure       = errors.New("barcode decode failed")
	ErrEmptyPayload        = fmt.Errorf("%w: empty payload", ErrDecodeFailure)
	ErrUnrecognizedPayload = fmt.Errorf("%w: no identity fields", ErrDecodeFailure)
	ErrNoBarcode           = fmt.Errorf("%w: no barcode in image", ErrDecodeFailure)
)

// Scanner state mismatches are reported to the operator and never move the flow.
var (
	ErrScanState        = errors.New("scanner state mismatch")
	ErrNoCamera         = fmt.Errorf("%w: camera not started", ErrScanState)
	ErrTorchUnavailable = fmt.Errorf("%w: torch not available", ErrScanState)
)

var (
	ErrCameraUnavailable = errors.New("camera unavailable")
	ErrCameraStopped     = errors.New("camera stopped")
)

// Flow control.
var (
	ErrActionNotAllowed = errors.New("action not allowed on this screen")
	ErrStale            = errors.New("stale event")
	ErrDialogBusy       = errors.New("a dialog is already open")
	ErrNoDialog         = errors.New("no dialog open")
)

// ValidationError carries one message per offending form field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}
