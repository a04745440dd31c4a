package browser

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/MonikaTammineni/fsadproject/notify"
)

// Option configures a Browser during construction in New.
type Option func(*Browser) error

// WithUpdater enables inline editing. Without it the browser is read-only
// and BeginEdit returns ErrReadOnly.
func WithUpdater(u Updater) Option {
	return func(b *Browser) error {
		if u == nil {
			return errors.New("updater must not be nil")
		}
		b.updater = u
		return nil
	}
}

// WithDeleter enables deletion of the selected record.
func WithDeleter(d Deleter) Option {
	return func(b *Browser) error {
		if d == nil {
			return errors.New("deleter must not be nil")
		}
		b.deleter = d
		return nil
	}
}

// WithNotifier sets the sink that receives user-facing messages. The default
// discards them.
func WithNotifier(s notify.Sink) Option {
	return func(b *Browser) error {
		if s == nil {
			return errors.New("notifier must not be nil")
		}
		b.notifier = s
		return nil
	}
}

// WithLogger sets the logger used for diagnostic output.
func WithLogger(l zerolog.Logger) Option {
	return func(b *Browser) error {
		b.log = l
		return nil
	}
}

// WithClock overrides the reference time used for validation and derived
// columns.
func WithClock(now func() time.Time) Option {
	return func(b *Browser) error {
		if now == nil {
			return errors.New("clock must not be nil")
		}
		b.now = now
		return nil
	}
}
