// Package rover provides console commands driving a rover.
package rover

import (
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/rover/pkg/cli/sh"
	"github.com/robotalks/rover/pkg/rover/toggle"
)

func commandCmd(name, alias string, cmd byte, help string) ishell.Cmd {
	return ishell.Cmd{
		Name:    name,
		Aliases: []string{alias},
		Help:    help,
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, cmd)
		}),
	}
}

// ParseBytes converts arguments to command bytes. An argument is either
// a literal string or a number prefixed with '#', e.g. #0x33.
func ParseBytes(args []string) ([]byte, error) {
	var out []byte
	for _, arg := range args {
		if len(arg) > 1 && arg[0] == '#' {
			val, err := strconv.ParseUint(arg[1:], 0, 8)
			if err != nil {
				return nil, fmt.Errorf("Invalid byte %q: %v", arg, err)
			}
			out = append(out, byte(val))
			continue
		}
		out = append(out, arg...)
	}
	return out, nil
}

var (
	// ForwardCmd sends '1'.
	ForwardCmd = commandCmd("forward", "f", toggle.CmdForward, "Drive forward")
	// ToggleCmd sends '2'.
	ToggleCmd = commandCmd("toggle", "t", toggle.CmdToggle, "Stop, or backward when stopped")
	// RightCmd sends '3'.
	RightCmd = commandCmd("right", "r", toggle.CmdRight, "Turn right briefly")
	// LeftCmd sends '4'.
	LeftCmd = commandCmd("left", "lt", toggle.CmdLeft, "Turn left briefly")

	// SendCmd sends raw command bytes.
	SendCmd = ishell.Cmd{
		Name:    "send",
		Aliases: []string{"s"},
		Help:    "BYTES... (#N for a numeric byte)",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			cmds, err := ParseBytes(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			if len(cmds) == 0 {
				c.Err(fmt.Errorf("BYTES required"))
				return
			}
			if _, err = sh.ShellFrom(c).Send(cmds, false); err != nil {
				c.Err(err)
			}
		}),
	}

	// StatusCmd prints the latest status.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"st"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			st := s.Rover.Last()
			if st == nil {
				c.Println("No status received")
				return
			}
			s.PrintStatus(st)
		}),
	}

	// WatchCmd toggles printing every status received.
	WatchCmd = ishell.Cmd{
		Name:    "watch",
		Aliases: []string{"w"},
		Help:    "[on|off]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			watch := !s.Rover.Watching()
			if len(c.Args) > 0 {
				switch c.Args[0] {
				case "on":
					watch = true
				case "off":
					watch = false
				default:
					c.Err(fmt.Errorf("on or off expected"))
					return
				}
			}
			s.Rover.SetWatch(watch)
			c.Printf("watch %v\n", watch)
		}),
	}
)

func init() {
	sh.AddCmds(
		&ForwardCmd,
		&ToggleCmd,
		&RightCmd,
		&LeftCmd,
		&SendCmd,
		&StatusCmd,
		&WatchCmd,
	)
}
