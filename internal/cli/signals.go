package cli

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
)

// SignalHandler cancels a session's context on SIGINT or SIGTERM so the
// in-flight product is discarded while saved reviews stay on disk.
type SignalHandler struct {
	signals    chan os.Signal
	shutdown   chan struct{}
	stopCh     chan struct{} // closed by Stop to end the listener
	done       chan struct{} // closed when the listener exits
	stopOnce   sync.Once
	cancel     context.CancelFunc
	mu         sync.Mutex
	onShutdown []func()
	received   os.Signal
}

// NewSignalHandler creates a signal handler with the given context cancel
func NewSignalHandler(cancel context.CancelFunc) *SignalHandler {
	return &SignalHandler{
		signals:    make(chan os.Signal, 1),
		shutdown:   make(chan struct{}),
		stopCh:     make(chan struct{}),
		done:       make(chan struct{}),
		cancel:     cancel,
		onShutdown: make([]func(), 0),
	}
}

// Start begins listening for signals
func (h *SignalHandler) Start() {
	h.StartWithNotify(true)
}

// StartWithNotify begins listening, registering with the OS only when
// notify is true. Tests pass false and write to h.signals directly.
func (h *SignalHandler) StartWithNotify(notify bool) {
	if notify {
		signal.Notify(h.signals, syscall.SIGINT, syscall.SIGTERM)
	}

	started := make(chan struct{})
	go func() {
		defer close(h.done)
		close(started)

		select {
		case sig := <-h.signals:
			h.handle(sig)
		case <-h.stopCh:
		}
	}()

	<-started
}

func (h *SignalHandler) handle(sig os.Signal) {
	log.WithField("signal", sig.String()).Debug("Received signal")

	h.mu.Lock()
	h.received = sig
	callbacks := make([]func(), len(h.onShutdown))
	copy(callbacks, h.onShutdown)
	h.mu.Unlock()

	if h.cancel != nil {
		h.cancel()
	}

	// Callbacks run in registration order
	for _, fn := range callbacks {
		fn()
	}

	close(h.shutdown)
}

// OnShutdown registers a callback to run on shutdown
func (h *SignalHandler) OnShutdown(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onShutdown = append(h.onShutdown, fn)
}

// Received returns the signal that triggered shutdown, or nil
func (h *SignalHandler) Received() os.Signal {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.received
}

// Wait blocks until shutdown is triggered
func (h *SignalHandler) Wait() {
	<-h.shutdown
}

// Stop unregisters from the OS and ends the listener
func (h *SignalHandler) Stop() {
	signal.Stop(h.signals)
	h.stopOnce.Do(func() {
		close(h.stopCh)
	})
	select {
	case <-h.done:
	case <-time.After(100 * time.Millisecond):
	}
}
