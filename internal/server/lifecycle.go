// Package server runs the long-lived parts of a process and tears them down
// on SIGINT, SIGTERM, context cancellation or the first service failure.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service is a component whose Start blocks until Stop is called or the
// component fails.
type Service interface {
	Start() error
	Stop()
}

// FuncService adapts a start/stop function pair into a Service.
type FuncService struct {
	StartFn func() error
	StopFn  func()
}

// Start calls StartFn.
func (f *FuncService) Start() error { return f.StartFn() }

// Stop calls StopFn.
func (f *FuncService) Stop() { f.StopFn() }

// Lifecycle starts services in registration order and stops them in reverse.
type Lifecycle struct {
	logger      *zap.Logger
	stopTimeout time.Duration
	signals     []os.Signal

	mu       sync.Mutex
	services []namedService
}

type namedService struct {
	name    string
	service Service
}

// LifecycleOption configures a Lifecycle.
type LifecycleOption func(*Lifecycle)

// WithStopTimeout bounds how long Run waits for each service's Stop. Zero
// waits indefinitely.
func WithStopTimeout(d time.Duration) LifecycleOption {
	return func(l *Lifecycle) { l.stopTimeout = d }
}

// WithSignals replaces the signals that trigger shutdown.
func WithSignals(sigs ...os.Signal) LifecycleOption {
	return func(l *Lifecycle) { l.signals = sigs }
}

// NewLifecycle creates a Lifecycle that shuts down on SIGINT and SIGTERM.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger, opts ...LifecycleOption) *Lifecycle {
	l := &Lifecycle{
		logger:  logger,
		signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Add registers a named service.
//
// Precondition: name must be non-empty; svc must be non-nil; Run has not
// been called.
func (l *Lifecycle) Add(name string, svc Service) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.services = append(l.services, namedService{name: name, service: svc})
}

// ErrStopTimeout is joined into Run's result when a service's Stop outlives
// the stop timeout.
var ErrStopTimeout = errors.New("service did not stop in time")

// Run starts every service and blocks until a signal arrives, ctx is done or
// a service's Start returns. A Start that returns before shutdown began,
// even with a nil error, triggers shutdown.
//
// Postcondition: Stop has been called on every service. Returns the first
// service failure and any stop timeouts, or nil on a clean shutdown.
func (l *Lifecycle) Run(ctx context.Context) error {
	l.mu.Lock()
	services := append([]namedService(nil), l.services...)
	l.mu.Unlock()

	start := time.Now()
	ctx, stop := signal.NotifyContext(ctx, l.signals...)
	defer stop()

	exited := make(chan error, len(services))
	for _, ns := range services {
		l.logger.Info("starting service", zap.String("service", ns.name))
		go func(ns namedService) {
			err := ns.service.Start()
			if err != nil {
				err = fmt.Errorf("service %s: %w", ns.name, err)
			}
			exited <- err
		}(ns)
	}

	l.logger.Info("all services started",
		zap.Int("count", len(services)),
		zap.Duration("startup", time.Since(start)),
	)

	var runErr error
	if len(services) > 0 {
		select {
		case err := <-exited:
			runErr = err
			if err != nil {
				l.logger.Error("service failed, shutting down", zap.Error(err))
			} else {
				l.logger.Info("service exited, shutting down")
			}
		case <-ctx.Done():
			l.logger.Info("shutdown requested", zap.Error(context.Cause(ctx)))
		}
	} else {
		<-ctx.Done()
	}

	stopErr := l.shutdown(services)
	l.logger.Info("shutdown complete",
		zap.Duration("uptime", time.Since(start)),
	)
	return errors.Join(runErr, stopErr)
}

func (l *Lifecycle) shutdown(services []namedService) error {
	var errs []error
	for i := len(services) - 1; i >= 0; i-- {
		ns := services[i]
		began := time.Now()
		if err := l.stopOne(ns); err != nil {
			l.logger.Warn("service stop timed out",
				zap.String("service", ns.name),
				zap.Duration("timeout", l.stopTimeout),
			)
			errs = append(errs, err)
			continue
		}
		l.logger.Info("service stopped",
			zap.String("service", ns.name),
			zap.Duration("elapsed", time.Since(began)),
		)
	}
	return errors.Join(errs...)
}

func (l *Lifecycle) stopOne(ns namedService) error {
	if l.stopTimeout <= 0 {
		ns.service.Stop()
		return nil
	}
	done := make(chan struct{})
	go func() {
		ns.service.Stop()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-time.After(l.stopTimeout):
		return fmt.Errorf("service %s: %w", ns.name, ErrStopTimeout)
	}
}
