package domain

import "context"

// GuestRegistry is the persisted store of known guest identities.
type GuestRegistry interface {
	// FindByIdentity returns ErrNotFound when no profile matches.
	FindByIdentity(ctx context.Context, idType, idNumber string) (GuestProfile, error)
	Upsert(ctx context.Context, p GuestProfile) error
	Count(ctx context.Context) (int, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Notifier shows transient, auto-expiring messages to the operator.
type Notifier interface {
	Notify(message string)
}

// Confirmer asks the operator a yes/no question and blocks until answered.
type Confirmer interface {
	Confirm(ctx context.Context, title, body, okLabel string) (bool, error)
}

// ScannerStatus is what the scanner screen shows about barcode acquisition.
type ScannerStatus struct {
	Engine         string `json:"engine"`
	Camera         string `json:"camera"` // idle|running
	TorchAvailable bool   `json:"torchAvailable"`
	TorchOn        bool   `json:"torchOn"`
}
