package daemon

import (
	"context"
	"errors"
	"log/slog"

	"github.com/thejerf/suture/v4"
)

// Service is a suture service that names itself in supervisor events.
type Service interface {
	String() string
	suture.Service
}

func newSupervisor(logger *slog.Logger) *suture.Supervisor {
	return suture.New("wlmaker", suture.Spec{
		EventHook: eventHook(logger),
	})
}

func eventHook(logger *slog.Logger) suture.EventHook {
	return func(ei suture.Event) {
		switch e := ei.(type) {
		case suture.EventStopTimeout:
			logger.Warn("service failed to terminate in time", "supervisor", e.SupervisorName, "service", e.ServiceName)
		case suture.EventServicePanic:
			logger.Error("service panicked", "service", e.ServiceName, "panic", e.PanicMsg, "restarting", e.Restarting)
			logger.Debug(e.Stacktrace)
		case suture.EventServiceTerminate:
			logger.Error("service failed", "service", e.ServiceName, "error", e.Err, "restarting", e.Restarting)
		case suture.EventBackoff:
			logger.Warn("too many service failures, backing off", "supervisor", e.SupervisorName)
		case suture.EventResume:
			logger.Info("resuming after backoff", "supervisor", e.SupervisorName)
		default:
			logger.Warn("unknown supervisor event", "event", ei.String())
		}
	}
}

func addService(super *suture.Supervisor, service Service) suture.ServiceToken {
	return super.Add(sanitizeService{Service: service})
}

type sanitizeService struct {
	Service
}

func (s sanitizeService) Serve(ctx context.Context) error {
	return sanitizeError(ctx, s.Service.Serve(ctx))
}

// sanitizeError keeps a service's own context errors from being taken as
// a supervisor shutdown, which would stop the service for good.
func sanitizeError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var errs []error
	if errors.Is(err, suture.ErrDoNotRestart) {
		errs = append(errs, suture.ErrDoNotRestart)
	}
	if errors.Is(err, suture.ErrTerminateSupervisorTree) {
		errs = append(errs, suture.ErrTerminateSupervisorTree)
	}
	errs = append(errs, errors.New(err.Error()))
	return errors.Join(errs...)
}

// serviceFunc adapts a function to Service.
type serviceFunc struct {
	name string
	fn   func(ctx context.Context) error
}

func newServiceFunc(name string, fn func(ctx context.Context) error) serviceFunc {
	return serviceFunc{name: name, fn: fn}
}

func (s serviceFunc) String() string { return s.name }

func (s serviceFunc) Serve(ctx context.Context) error { return s.fn(ctx) }
