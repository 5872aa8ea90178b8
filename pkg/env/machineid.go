// Package env provides host environment facts.
package env

import (
	"os"
	"sync"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

var (
	machineID     string
	machineIDOnce sync.Once
)

// MachineID retrieves the unique ID identifying the machine.
// The host name is used when the machine ID is unavailable.
func MachineID() string {
	machineIDOnce.Do(func() {
		id, err := machineid.ID()
		if err == nil && id != "" {
			machineID = id
			return
		}
		glog.Warningf("machine ID unavailable: %v", err)
		if machineID, err = os.Hostname(); err != nil || machineID == "" {
			machineID = "rover"
		}
	})
	return machineID
}
