package job

import (
	"context"
	"errors"
	"fmt"
)

// ErrNilJobFunc is returned when a job was built from a nil closure.
var ErrNilJobFunc = errors.New("nil JobFunc")

// jobFunc lets plain closures run on the mutation executor.
type jobFunc func(context.Context) error

func (f jobFunc) Run(ctx context.Context) error {
	if f == nil {
		return fmt.Errorf("jobfunc: %w", ErrNilJobFunc)
	}
	return f(ctx)
}

// New wraps fn as an executor job.
func New(fn func(context.Context) error) jobFunc {
	return jobFunc(fn)
}
