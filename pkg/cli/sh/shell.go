// Package sh provides the interactive rover console.
package sh

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"sync"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"github.com/robotalks/rover/pkg/link/mqtt"
	"github.com/robotalks/rover/pkg/msgs"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoConnect bool

	Shell  *ishell.Shell
	Config *Config
	Queue  *mqtt.Queue
	Rover  *RoverConn
}

// RoverConn tracks the status of the connected rover.
type RoverConn struct {
	ID string

	sub      *mqtt.Subscription
	cmdTopic string
	lock     sync.Mutex
	watch    bool
	last     *msgs.RoverStatus
	waiters  []chan *msgs.RoverStatus
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&DiscoverCmd,
		&ConnectCmd,
		&DisconnectCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *Config, q *mqtt.Queue) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
		Queue:  q,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Rover == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// FormatStatus prints a status into friendly string for display.
func FormatStatus(st *msgs.RoverStatus) string {
	return fmt.Sprintf("%-8s #%06x latch=%v duty=%d/%d/%d %s",
		st.Direction, st.Color, st.Latch,
		st.DutyRed, st.DutyGreen, st.DutyBlue, st.Status)
}

// PrintStatus prints a status as text or JSON.
func (s *Shell) PrintStatus(st *msgs.RoverStatus) {
	if s.OutputJSON {
		out, err := json.Marshal(st)
		if err != nil {
			s.Shell.Println(err)
			return
		}
		s.Shell.Println(string(out))
		return
	}
	s.Shell.Println(FormatStatus(st))
}

// Connect starts tracking the rover with id.
func (s *Shell) Connect(id string) error {
	s.Disconnect()
	cmdTopic, statusTopic, _ := mqtt.Topics(id)
	conn := &RoverConn{ID: id, cmdTopic: cmdTopic}
	conn.sub = s.Queue.Sub(statusTopic, func(_ string, payload []byte) {
		st, err := msgs.DecodeRoverStatus(payload)
		if err != nil {
			glog.Warningf("rover %s: bad status: %v", id, err)
			return
		}
		if conn.update(st) {
			s.PrintStatus(st)
		}
	})
	conn.sub.Token.Wait()
	if err := conn.sub.Token.Error(); err != nil {
		conn.sub.Close()
		return err
	}
	s.Rover = conn
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", id))
	return nil
}

// Disconnect stops tracking the current rover.
func (s *Shell) Disconnect() {
	if s.Rover != nil {
		s.Rover.sub.Close()
		s.Rover = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

// update records st, wakes up waiters and reports whether st should
// be printed.
func (r *RoverConn) update(st *msgs.RoverStatus) bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.last = st
	for _, ch := range r.waiters {
		ch <- st
	}
	r.waiters = nil
	return r.watch
}

// Watching reports whether every status is printed.
func (r *RoverConn) Watching() bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.watch
}

// SetWatch enables or disables printing every status.
func (r *RoverConn) SetWatch(watch bool) {
	r.lock.Lock()
	r.watch = watch
	r.lock.Unlock()
}

// Last returns the latest status received.
func (r *RoverConn) Last() *msgs.RoverStatus {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.last
}

func (r *RoverConn) next() <-chan *msgs.RoverStatus {
	ch := make(chan *msgs.RoverStatus, 1)
	r.lock.Lock()
	r.waiters = append(r.waiters, ch)
	r.lock.Unlock()
	return ch
}

// Send publishes command bytes to the rover. When wait is set, it
// returns the next status reported, or an error after the reply timeout.
func (s *Shell) Send(cmds []byte, wait bool) (*msgs.RoverStatus, error) {
	if s.Rover == nil {
		return nil, fmt.Errorf("not connected")
	}
	var reply <-chan *msgs.RoverStatus
	if wait {
		reply = s.Rover.next()
	}
	token := s.Queue.Pub(s.Rover.cmdTopic, cmds)
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, err
	}
	if !wait {
		return nil, nil
	}
	select {
	case st := <-reply:
		return st, nil
	case <-time.After(s.Config.ReplyTimeout):
		return nil, fmt.Errorf("no status from %s: %v", s.Rover.ID, context.DeadlineExceeded)
	}
}

// DoCommand sends a single command and prints the status reported.
func DoCommand(c *ishell.Context, cmd byte) error {
	s := ShellFrom(c)
	st, err := s.Send([]byte{cmd}, !s.Rover.Watching())
	if err != nil {
		c.Err(err)
		return err
	}
	if st != nil {
		s.PrintStatus(st)
	}
	return nil
}

// Run runs the shell.
func (s *Shell) Run(args ...string) error {
	if s.AutoConnect && s.Config.ID != "" {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", s.Config.ID)
		}
		if err := s.Connect(s.Config.ID); err != nil {
			return fmt.Errorf("connect %q failed: %v", s.Config.ID, err)
		}
	}
	if len(args) > 0 {
		return s.Shell.Process(args...)
	}
	if !s.Interactive {
		return fmt.Errorf("command expected")
	}
	s.Shell.Run()
	return nil
}

var (
	// DiscoverCmd lists rovers.
	DiscoverCmd = ishell.Cmd{
		Name:    "discover",
		Aliases: []string{"list", "l"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			ids, err := mqtt.Discover(context.Background(), s.Queue, s.Config.DiscoverTimeout)
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				out, _ := json.Marshal(ids)
				c.Println(string(out))
				return
			}
			if len(ids) == 0 {
				c.Println("No rovers found")
				return
			}
			for _, id := range ids {
				c.Println(id)
			}
		},
	}

	// ConnectCmd connects a rover.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "[ID]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			var id string
			if len(c.Args) > 0 {
				id = c.Args[0]
			} else {
				ids, err := mqtt.Discover(context.Background(), s.Queue, s.Config.DiscoverTimeout)
				if err != nil {
					c.Err(err)
					return
				}
				switch {
				case len(ids) == 0:
					c.Err(fmt.Errorf("no rover discovered"))
					return
				case len(ids) > 1 && !s.Interactive:
					c.Err(fmt.Errorf("more than 1 rovers discovered in non-interactive mode"))
					return
				case len(ids) > 1:
					id = ids[s.Shell.MultiChoice(ids, "Which one to connect?")]
				default:
					id = ids[0]
				}
			}
			if err := s.Connect(id); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd disconnects current rover.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	conf := NewConfig()
	q, err := conf.NewQueue()
	if err != nil {
		glog.Exitf("mqtt connect error: %v", err)
	}
	defer q.Close()
	if err = New(conf, q).WithAutoConnect(true).Run(flag.Args()...); err != nil {
		glog.Exit(err)
	}
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}
