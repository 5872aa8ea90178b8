package framework

import (
	"context"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background tasks.
type Runnable interface {
	Run(context.Context) error
}

// RunFunc is the func form of Runnable.
type RunFunc func(context.Context) error

// Run implements Runnable.
func (f RunFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Waiter blocks until something happens or the context is done.
type Waiter interface {
	Wait(context.Context) error
}

// Notifier wakes up a Waiter.
type Notifier interface {
	Notify()
}
