package fixtures

import (
	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-recipemd/internal/commands"
)

// RecordingRegistry captures registered command handlers.
type RecordingRegistry struct {
	Handlers []any
	Err      error
}

// NewRecordingRegistry constructs an empty registry recorder.
func NewRecordingRegistry() *RecordingRegistry {
	return &RecordingRegistry{Handlers: make([]any, 0)}
}

// RegisterCommand satisfies commands.CommandRegistry.
func (r *RecordingRegistry) RegisterCommand(handler any) error {
	if r.Err != nil {
		return r.Err
	}
	r.Handlers = append(r.Handlers, handler)
	return nil
}

// CronRegistration captures a single cron wiring invocation.
type CronRegistration struct {
	Config  command.HandlerConfig
	Handler func() error
}

// CronRecorder records calls to a CronRegistrar function.
type CronRecorder struct {
	Registrations []CronRegistration
	err           error
}

// NewCronRecorder constructs a cron recorder.
func NewCronRecorder() *CronRecorder {
	return &CronRecorder{Registrations: make([]CronRegistration, 0)}
}

// Fail configures the recorder to return err on registration.
func (c *CronRecorder) Fail(err error) {
	c.err = err
}

// Registrar returns a commands.CronRegistrar that records invocations.
func (c *CronRecorder) Registrar() commands.CronRegistrar {
	return func(cfg command.HandlerConfig, handler any) error {
		if c.err != nil {
			return c.err
		}
		fn, _ := handler.(func() error)
		c.Registrations = append(c.Registrations, CronRegistration{Config: cfg, Handler: fn})
		return nil
	}
}
