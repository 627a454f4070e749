package supervisor

import (
	"fmt"
	"os"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
)

// Strategy selects the supervision strategy. Only OneForOne — restart
// the one child that died, nothing else — is supported; the zero value
// is invalid so a forgotten strategy is a configuration error, not a
// silent default.
type Strategy int32

const (
	strategyUnset Strategy = iota
	// OneForOne restarts only the terminated child.
	OneForOne
)

const (
	// DefaultMaxRestarts is the restart budget within the window.
	DefaultMaxRestarts = 3
	// DefaultMaxSeconds is the width of the sliding restart window.
	DefaultMaxSeconds = 5
)

// Options configure a supervisor. Use NewOptions for the documented
// defaults; a hand-built Options must set every field it cares about.
type Options struct {
	Strategy Strategy
	// MaxRestarts restarts within MaxSeconds seconds are tolerated;
	// one more shuts the supervisor down.
	MaxRestarts int
	MaxSeconds  int
	// Name registers the supervisor for SendNamed/WhereIs lookup.
	Name string
	// Reporter receives supervision error reports. Defaults to a
	// zerolog-backed reporter writing to stderr.
	Reporter Reporter
	// Logger is used for the supervisor's own diagnostics (unknown
	// messages and the like), not for error reports.
	Logger *zerolog.Logger
}

// NewOptions returns Options with the default restart intensity
// (3 restarts in 5 seconds) and a generated registration name.
func NewOptions(strategy Strategy) Options {
	return Options{
		Strategy:    strategy,
		MaxRestarts: DefaultMaxRestarts,
		MaxSeconds:  DefaultMaxSeconds,
		Name:        xid.New().String(),
	}
}

func (o Options) SetName(name string) Options {
	o.Name = name
	return o
}

func (o Options) SetIntensity(maxRestarts, maxSeconds int) Options {
	o.MaxRestarts = maxRestarts
	o.MaxSeconds = maxSeconds
	return o
}

func (o Options) SetReporter(r Reporter) Options {
	o.Reporter = r
	return o
}

func (o Options) SetLogger(l zerolog.Logger) Options {
	o.Logger = &l
	return o
}

func (o *Options) normalize() {
	if o.Name == "" {
		o.Name = xid.New().String()
	}
	if o.Logger == nil {
		l := zerolog.New(os.Stderr).With().Timestamp().Str("component", "supervisor").Logger()
		o.Logger = &l
	}
	if o.Reporter == nil {
		o.Reporter = NewLogReporter(*o.Logger)
	}
}

func (o *Options) validate() error {
	if o.Strategy != OneForOne {
		return fmt.Errorf("invalid strategy: %d (only OneForOne is supported)", o.Strategy)
	}
	if o.MaxRestarts < 0 {
		return fmt.Errorf("invalid max restarts: %d", o.MaxRestarts)
	}
	if o.MaxSeconds < 0 {
		return fmt.Errorf("invalid max seconds: %d", o.MaxSeconds)
	}
	return nil
}
