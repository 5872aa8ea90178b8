// Package rover runs the command pipeline of the rover: a receiver task
// publishing link bytes into a mailbox, and a dispatcher task turning
// them into motion and light.
package rover

import (
	"context"
	"io"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/rover/pkg/framework"
	"github.com/robotalks/rover/pkg/rover/color"
	"github.com/robotalks/rover/pkg/rover/drive"
	"github.com/robotalks/rover/pkg/rover/mailbox"
	"github.com/robotalks/rover/pkg/rover/toggle"
)

// DefaultPollInterval is the pause of the receiver after each byte.
const DefaultPollInterval = 50 * time.Millisecond

// Report describes the outputs asserted by one phase.
type Report struct {
	Command byte
	Phase   toggle.Phase
	Duty    color.Duty
	Latch   bool
}

// Status returns the status line of the phase.
func (r Report) Status() string {
	return r.Phase.Direction.Status()
}

// Observer is notified after every phase, on the dispatcher.
// It must not block.
type Observer interface {
	PhaseAsserted(Report)
}

// ObserveFunc is the func form of Observer.
type ObserveFunc func(Report)

// PhaseAsserted implements Observer.
func (f ObserveFunc) PhaseAsserted(r Report) {
	f(r)
}

// Receiver reads command bytes from the link into the mailbox.
type Receiver struct {
	Source       io.ByteReader
	Mailbox      *mailbox.Mailbox
	Wakeup       fx.Notifier
	PollInterval time.Duration
}

// Name implements Named.
func (r *Receiver) Name() string {
	return "receiver"
}

// Run implements Runnable. A source which is also an io.Closer is
// closed on cancellation to unblock the pending read.
func (r *Receiver) Run(ctx context.Context) error {
	if closer, ok := r.Source.(io.Closer); ok {
		return fx.RunWithContextCloser(ctx, closer, func() error {
			return r.receive(ctx)
		})
	}
	return r.receive(ctx)
}

func (r *Receiver) receive(ctx context.Context) error {
	for {
		b, err := r.Source.ReadByte()
		if err != nil {
			return err
		}
		glog.V(2).Infof("RCV %q", b)
		r.Mailbox.Put(b)
		r.Wakeup.Notify()
		if err = fx.Sleep(ctx, r.PollInterval); err != nil {
			return err
		}
	}
}

// Dispatcher is the sole owner of the toggle machine and the hardware
// outputs once started.
type Dispatcher struct {
	Mailbox   *mailbox.Mailbox
	Wakeup    fx.Waiter
	Machine   *toggle.Machine
	Actuator  *drive.Actuator
	Light     *color.Light
	Sink      io.Writer
	Observers []Observer
}

// Name implements Named.
func (d *Dispatcher) Name() string {
	return "dispatcher"
}

// Run implements Runnable.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		if err := d.Wakeup.Wait(ctx); err != nil {
			return err
		}
		if err := d.Dispatch(ctx); err != nil {
			return err
		}
	}
}

// Dispatch drains the mailbox once and acts on the command, if any.
// The only error is from ctx during a turn delay, in which case the
// turn is cut short but its Stop phase is still asserted.
func (d *Dispatcher) Dispatch(ctx context.Context) (err error) {
	cmd, ok := d.Mailbox.Take()
	if !ok {
		return nil
	}
	effect := d.Machine.Handle(cmd)
	if !effect.Valid {
		glog.V(2).Infof("ignored %q", cmd)
		return nil
	}
	for n, phase := range effect.Phases() {
		if n > 0 && err == nil {
			err = fx.Sleep(ctx, effect.StopAfter)
		}
		d.assert(Report{Command: cmd, Phase: phase, Latch: effect.Latch})
	}
	return err
}

func (d *Dispatcher) assert(r Report) {
	d.Actuator.Set(r.Phase.Direction)
	r.Duty = d.Light.Set(r.Phase.Color)
	glog.V(2).Infof("%q: %s %s latch=%v", r.Command, r.Phase.Direction, r.Phase.Color, r.Latch)
	if d.Sink != nil {
		if _, err := io.WriteString(d.Sink, r.Status()+drive.LineTerminator); err != nil {
			glog.Warningf("write status error: %v", err)
		}
	}
	for _, o := range d.Observers {
		o.PhaseAsserted(r)
	}
}
