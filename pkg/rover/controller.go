package rover

import (
	"context"
	"fmt"
	"io"

	"github.com/golang/glog"

	"github.com/robotalks/rover/pkg/board"
	fx "github.com/robotalks/rover/pkg/framework"
	"github.com/robotalks/rover/pkg/rover/color"
	"github.com/robotalks/rover/pkg/rover/drive"
	"github.com/robotalks/rover/pkg/rover/mailbox"
	"github.com/robotalks/rover/pkg/rover/toggle"
)

// Terminal control sequences sent before the banner.
const (
	clearScreen = "\033[2J"
	cursorHome  = "\033[H"
)

// Controller wires the receiver and the dispatcher to the board.
type Controller struct {
	Config     *Config
	Board      board.Board
	Receiver   *Receiver
	Dispatcher *Dispatcher
}

// NewController creates a Controller reading commands from src and
// writing status lines to sink, which may be nil.
func (c *Config) NewController(b board.Board, src io.ByteReader, sink io.Writer) (*Controller, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	box, signal := &mailbox.Mailbox{}, fx.NewSignal()
	machine := toggle.New()
	machine.TurnDelay = c.TurnDelay
	light := color.NewLight(b)
	light.Calibration = c.Light
	return &Controller{
		Config: c,
		Board:  b,
		Receiver: &Receiver{
			Source:       src,
			Mailbox:      box,
			Wakeup:       signal,
			PollInterval: c.PollInterval,
		},
		Dispatcher: &Dispatcher{
			Mailbox:  box,
			Wakeup:   signal,
			Machine:  machine,
			Actuator: drive.NewActuator(b),
			Light:    light,
			Sink:     sink,
		},
	}, nil
}

// Observe adds observers notified after each phase.
// It must be called before Run.
func (c *Controller) Observe(observers ...Observer) *Controller {
	c.Dispatcher.Observers = append(c.Dispatcher.Observers, observers...)
	return c
}

// Name implements Named.
func (c *Controller) Name() string {
	return "rover"
}

// Start runs the startup sequence: banner, idle light and motor speed
// with all direction lines neutral. Observers receive the startup state
// as a report with no command.
func (c *Controller) Start() error {
	d := c.Dispatcher
	if d.Sink != nil && c.Config.Banner != "" {
		if _, err := io.WriteString(d.Sink, clearScreen+cursorHome+c.Config.Banner); err != nil {
			return fmt.Errorf("write banner error: %v", err)
		}
	}
	report := Report{
		Phase: toggle.Phase{Direction: drive.Stop, Color: c.Config.StartupColor},
		Latch: d.Machine.Latch(),
	}
	report.Duty = d.Light.Set(report.Phase.Color)
	drive.Start(c.Board, c.Config.Speed)
	for _, o := range d.Observers {
		o.PhaseAsserted(report)
	}
	return nil
}

// Run implements Runnable. Both tasks run until ctx is done or one of
// them fails; the chassis is stopped before returning.
func (c *Controller) Run(ctx context.Context) error {
	if err := c.Start(); err != nil {
		return err
	}
	glog.Infof("rover started, latch=%v", c.Dispatcher.Machine.Latch())
	err := fx.NewRunnerWith(ctx).Go(c.Receiver, c.Dispatcher).Wait()
	c.Dispatcher.Actuator.Set(drive.Stop)
	glog.Infof("rover stopped: %v", err)
	if err == io.EOF {
		return nil
	}
	return err
}
