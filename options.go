package task

import (
	"time"

	"github.com/joeycumines/logiface"

	"github.com/ChristophGaukel/thread-task/internal/tasklog"
)

// Option configures a task, either at construction time (passed to Once,
// Repeated, Periodic, or Sleep) or later via Task.Configure, which accepts
// the same set while the task is CREATED, STOPPED, or FINISHED.
//
// An interface wrapping an apply function that can fail, so malformed
// configuration (a negative duration, say) is reported synchronously to
// the caller instead of silently clamped.
type Option interface {
	apply(t *Task) error
}

type optionFunc func(t *Task) error

func (f optionFunc) apply(t *Task) error { return f(t) }

// WithArgs binds positional arguments, delivered on every invocation of
// the head link's action.
func WithArgs(args ...any) Option {
	return optionFunc(func(t *Task) error {
		t.link.args = append(Args(nil), args...)
		return nil
	})
}

// WithKWArgs binds keyword arguments, delivered on every invocation.
func WithKWArgs(kwargs KWArgs) Option {
	return optionFunc(func(t *Task) error {
		t.link.kwargs = copyKWArgs(kwargs)
		return nil
	})
}

// WithDuration sets the head link's post-action delay. Negative durations
// are rejected as caller misuse.
func WithDuration(d time.Duration) Option {
	return optionFunc(func(t *Task) error {
		if d < 0 {
			return invalidArgument("WithDuration", "duration must be >= 0")
		}
		t.link.duration = d
		return nil
	})
}

// WithOnStart sets the hook fired on first entry of STARTED.
func WithOnStart(fn HookFunc, args ...any) Option {
	return optionFunc(func(t *Task) error {
		t.link.hooks.onStart.Fn = fn
		t.link.hooks.onStart.Args = args
		return nil
	})
}

// WithOnStartKW sets the keyword arguments delivered to the onStart hook,
// independent of (and composable with) WithOnStart.
func WithOnStartKW(kwargs KWArgs) Option {
	return optionFunc(func(t *Task) error {
		t.link.hooks.onStart.KWArgs = copyKWArgs(kwargs)
		return nil
	})
}

// WithOnStop sets the hook fired exactly once per stop cycle, before
// STOPPED becomes visible.
func WithOnStop(fn HookFunc, args ...any) Option {
	return optionFunc(func(t *Task) error {
		t.link.hooks.onStop.Fn = fn
		t.link.hooks.onStop.Args = args
		return nil
	})
}

// WithOnStopKW sets the keyword arguments delivered to the onStop hook,
// independent of (and composable with) WithOnStop.
func WithOnStopKW(kwargs KWArgs) Option {
	return optionFunc(func(t *Task) error {
		t.link.hooks.onStop.KWArgs = copyKWArgs(kwargs)
		return nil
	})
}

// WithOnCont sets the hook fired exactly once per continue cycle, before
// any further action runs.
func WithOnCont(fn HookFunc, args ...any) Option {
	return optionFunc(func(t *Task) error {
		t.link.hooks.onCont.Fn = fn
		t.link.hooks.onCont.Args = args
		return nil
	})
}

// WithOnContKW sets the keyword arguments delivered to the onCont hook,
// independent of (and composable with) WithOnCont.
func WithOnContKW(kwargs KWArgs) Option {
	return optionFunc(func(t *Task) error {
		t.link.hooks.onCont.KWArgs = copyKWArgs(kwargs)
		return nil
	})
}

// WithOnFinal sets the hook fired exactly once when the task reaches
// FINISHED naturally (not via Stop).
func WithOnFinal(fn HookFunc, args ...any) Option {
	return optionFunc(func(t *Task) error {
		t.link.hooks.onFinal.Fn = fn
		t.link.hooks.onFinal.Args = args
		return nil
	})
}

// WithOnFinalKW sets the keyword arguments delivered to the onFinal hook,
// independent of (and composable with) WithOnFinal.
func WithOnFinalKW(kwargs KWArgs) Option {
	return optionFunc(func(t *Task) error {
		t.link.hooks.onFinal.KWArgs = copyKWArgs(kwargs)
		return nil
	})
}

// WithExcHandler sets the head link's exception handler, consulted by the
// climbing algorithm before moving to the parent task.
func WithExcHandler(fn ExcHandlerFunc, args ...any) Option {
	return optionFunc(func(t *Task) error {
		t.link.hooks.excHandler.Fn = fn
		t.link.hooks.excHandler.Args = args
		return nil
	})
}

// WithExcHandlerKW sets the keyword arguments delivered to the exception
// handler, independent of (and composable with) WithExcHandler.
func WithExcHandlerKW(kwargs KWArgs) Option {
	return optionFunc(func(t *Task) error {
		t.link.hooks.excHandler.KWArgs = copyKWArgs(kwargs)
		return nil
	})
}

func copyKWArgs(kwargs KWArgs) KWArgs {
	cp := make(KWArgs, len(kwargs))
	for k, v := range kwargs {
		cp[k] = v
	}
	return cp
}

// WithName sets a human-readable identifier, used in log output and in
// ActionError's rendering. Purely cosmetic; has no effect on scheduling.
func WithName(name string) Option {
	return optionFunc(func(t *Task) error {
		t.name = name
		return nil
	})
}

// WithLogger attaches a structured logger (see internal/tasklog) that
// receives the task's lifecycle events. Without this option, a task logs
// nothing.
func WithLogger(l *logiface.Logger[logiface.Event]) Option {
	return optionFunc(func(t *Task) error {
		if l == nil {
			l = tasklog.Discard()
		}
		t.logger = l
		return nil
	})
}

// WithRepeat caps a Repeated or Periodic task at num invocations; num <= 0
// means uncapped. Ignored (a no-op) on Once and Sleep tasks.
func WithRepeat(num int) Option {
	return optionFunc(func(t *Task) error {
		t.link.repeatNum = num
		t.link.initialRepeatNum = num
		return nil
	})
}

// WithInterval sets a Periodic task's fixed inter-invocation delay.
// Negative intervals are rejected.
func WithInterval(d time.Duration) Option {
	return optionFunc(func(t *Task) error {
		if d < 0 {
			return invalidArgument("WithInterval", "interval must be >= 0")
		}
		t.link.periodicIval = d
		return nil
	})
}
