package kernel

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/vk/fogplace/internal/coordinator"
	"github.com/vk/fogplace/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Events exchanged with a remote kernel.
const (
	EventSubmit   = "submit_application"
	EventAccepted = "application_accepted"
	EventRejected = "application_rejected"
)

const defaultRemoteTimeout = 15 * time.Second

// SocketIOConfig configures the connection to a remote kernel.
type SocketIOConfig struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
	// Timeout bounds both the connection and the wait for a verdict.
	Timeout time.Duration
}

// RejectedError carries the reason a remote kernel gave for refusing a bundle.
type RejectedError struct {
	BundleID string
	Reason   string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("remote kernel rejected bundle %s: %s", e.BundleID, e.Reason)
}

// SocketIO submits bundles to a remote kernel over socket.io. Each submission
// opens its own connection, emits the manifest and waits for the verdict.
type SocketIO struct {
	cfg SocketIOConfig
}

// NewSocketIO returns a SocketIO kernel.
func NewSocketIO(cfg SocketIOConfig) *SocketIO {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultRemoteTimeout
	}
	return &SocketIO{cfg: cfg}
}

// Name implements coordinator.Kernel.
func (s *SocketIO) Name() string { return "socketio" }

// SubmitApplication implements coordinator.Kernel.
func (s *SocketIO) SubmitApplication(ctx context.Context, b *coordinator.Bundle) error {
	logger := ctxlog.FromContext(ctx).With("kernel", "socketio", "url", s.cfg.URL, "bundle", b.ID)
	ctx = ctxlog.WithLogger(ctx, logger)

	payload, err := manifestPayload(b)
	if err != nil {
		return err
	}

	client, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer client.Disconnect()

	done := make(chan error, 2)
	client.Once(types.EventName(EventAccepted), func(...any) {
		logger.Debug("EVENT HANDLER: acceptance received")
		done <- nil
	})
	client.Once(types.EventName(EventRejected), func(data ...any) {
		reason := "no reason given"
		if len(data) > 0 {
			reason = fmt.Sprint(data[0])
		}
		logger.Debug("EVENT HANDLER: rejection received", "reason", reason)
		done <- &RejectedError{BundleID: b.ID, Reason: reason}
	})

	logger.Info("Emitting bundle manifest.", "event", EventSubmit)
	client.Emit(EventSubmit, payload)

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("context cancelled while waiting for verdict on bundle %s: %w", b.ID, ctx.Err())
	case <-time.After(s.cfg.Timeout):
		return fmt.Errorf("timed out after %v waiting for verdict on bundle %s", s.cfg.Timeout, b.ID)
	}
}

// connect opens a websocket-only socket.io connection and waits for it to be
// established.
func (s *SocketIO) connect(ctx context.Context) (*socket.Socket, error) {
	logger := ctxlog.FromContext(ctx)

	parsedURL, err := url.Parse(s.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("kernel URL %q must include scheme and host", s.cfg.URL)
	}

	opts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		opts.SetPath(parsedURL.Path)
	}
	if s.cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(s.cfg.Namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Debug("Connected to remote kernel", "sid", io.Id())
		select {
		case connectChan <- nil:
		default:
		}
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case connectChan <- err:
		default:
		}
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return io, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(s.cfg.Timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %v waiting for socket.io connection", s.cfg.Timeout)
	}
}

// manifestPayload renders the manifest as plain JSON-compatible values so the
// socket.io encoder does not depend on Go struct tags.
func manifestPayload(b *coordinator.Bundle) (map[string]any, error) {
	raw, err := json.Marshal(b.Manifest())
	if err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	return payload, nil
}
