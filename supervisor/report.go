package supervisor

import (
	"github.com/rs/zerolog"
)

// ReportContext names the situation that produced an error report.
type ReportContext string

const (
	ReportChildTerminated ReportContext = "child_terminated"
	ReportStartError      ReportContext = "start_error"
	ReportShutdownError   ReportContext = "shutdown_error"
	ReportRestartLimit    ReportContext = "reached_max_restart_intensity"
)

// ChildDescriptor identifies the offending child in a report.
type ChildDescriptor struct {
	// Handle is the task id, empty when the instance never started.
	Handle   string
	Args     []interface{}
	Restart  RestartPolicy
	Shutdown ShutdownPolicy
	Role     Role
	Modules  []string
}

// Report is one supervision event.
type Report struct {
	// Supervisor is the registered name of the reporting supervisor.
	Supervisor string
	Context    ReportContext
	// Reason is the termination reason or start error.
	Reason interface{}
	Child  ChildDescriptor
}

// Reporter is the injected error sink. Implementations must not block:
// reports are emitted from the supervisor's control loop.
type Reporter interface {
	Report(r Report)
}

// NewLogReporter returns the default Reporter, writing structured
// events through the given zerolog logger.
func NewLogReporter(logger zerolog.Logger) Reporter {
	return &logReporter{log: logger}
}

type logReporter struct {
	log zerolog.Logger
}

func (r *logReporter) Report(rep Report) {
	r.log.Error().
		Str("supervisor", rep.Supervisor).
		Str("context", string(rep.Context)).
		Interface("reason", rep.Reason).
		Str("child", rep.Child.Handle).
		Str("restart", rep.Child.Restart.String()).
		Str("shutdown", rep.Child.Shutdown.String()).
		Str("role", rep.Child.Role.String()).
		Strs("modules", rep.Child.Modules).
		Msg("supervision report")
}
