package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/rover/pkg/env"
	fx "github.com/robotalks/rover/pkg/framework"
	"github.com/robotalks/rover/pkg/link"
	"github.com/robotalks/rover/pkg/link/mqtt"
	"github.com/robotalks/rover/pkg/rover"
	"github.com/robotalks/rover/pkg/sim/chassis"
)

var configFile = os.Getenv("ROVER_CONFIG")

func init() {
	rover.SetupFlags()
	flag.StringVar(&configFile, "config", configFile, "YAML config file, overridden by flags.")
}

func main() {
	flag.Parse()
	if configFile != "" {
		if err := rover.LoadFile(configFile); err != nil {
			glog.Exit(err)
		}
		// explicit flags win over the file
		flag.Parse()
	}
	defer glog.Flush()

	conf := rover.NewConfig()
	if conf.ID == "" {
		conf.ID = env.MachineID()
	}

	lnk, err := link.Open(conf.LinkURL, conf.ID)
	if err != nil {
		glog.Exitf("open link %s error: %v", conf.LinkURL, err)
	}
	defer lnk.Close()

	board := chassis.New()
	ctrl, err := conf.NewController(board, lnk, lnk)
	if err != nil {
		glog.Exit(err)
	}

	if conf.MQTTURL != "" {
		q, err := mqtt.NewQueueFromURL(conf.MQTTURL)
		if err != nil {
			glog.Exit(err)
		}
		if err = q.Connect(); err != nil {
			glog.Exitf("mqtt connect error: %v", err)
		}
		defer q.Close()
		ctrl.Observe(mqtt.NewPublisher(q, conf.ID))
		glog.Infof("publishing status of rover %s", conf.ID)
	}

	err = fx.NewRunner().HandleSignals().Go(ctrl).Wait()
	pose := board.Pose()
	glog.Infof("final pose: x=%.1f y=%.1f heading=%.1f", pose.X, pose.Y, pose.Orientation.Degrees())
	if err != nil {
		glog.Error(err)
		glog.Flush()
		os.Exit(1)
	}
}
