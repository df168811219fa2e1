package kernel

import (
	"context"
	"sync"

	"github.com/vk/fogplace/internal/coordinator"
	"github.com/vk/fogplace/internal/ctxlog"
)

// Recorder is an in-memory kernel that keeps every accepted bundle. It is
// safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	bundles []*coordinator.Bundle
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Name implements coordinator.Kernel.
func (r *Recorder) Name() string { return "recorder" }

// SubmitApplication implements coordinator.Kernel.
func (r *Recorder) SubmitApplication(ctx context.Context, b *coordinator.Bundle) error {
	if err := Validate(b); err != nil {
		return err
	}
	r.mu.Lock()
	r.bundles = append(r.bundles, b)
	n := len(r.bundles)
	r.mu.Unlock()
	ctxlog.FromContext(ctx).Debug("Recorder: Bundle recorded.", "bundle", b.ID, "total", n)
	return nil
}

// Bundles returns the accepted bundles in submission order.
func (r *Recorder) Bundles() []*coordinator.Bundle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*coordinator.Bundle(nil), r.bundles...)
}
