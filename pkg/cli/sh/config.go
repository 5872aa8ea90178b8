package sh

import (
	"flag"
	"os"
	"time"

	"github.com/robotalks/rover/pkg/link/mqtt"
)

// Config defines the console configuration.
type Config struct {
	MQTTURL         string
	ID              string
	DiscoverTimeout time.Duration
	ReplyTimeout    time.Duration
}

var defaultConfig = Config{
	MQTTURL:         "mqtt://localhost:1883/",
	DiscoverTimeout: mqtt.DefaultDiscoverTimeout,
	ReplyTimeout:    time.Second,
}

func init() {
	if val := os.Getenv("ROVER_MQTT_URL"); val != "" {
		defaultConfig.MQTTURL = val
	}
	if val := os.Getenv("ROVER_ID"); val != "" {
		defaultConfig.ID = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.MQTTURL, "mqtt", defaultConfig.MQTTURL, "MQTT broker URL.")
	flag.StringVar(&defaultConfig.ID, "id", defaultConfig.ID, "Rover ID to connect on start.")
	flag.DurationVar(&defaultConfig.DiscoverTimeout, "discover-timeout", defaultConfig.DiscoverTimeout, "Time to wait for rovers during discovery.")
	flag.DurationVar(&defaultConfig.ReplyTimeout, "reply-timeout", defaultConfig.ReplyTimeout, "Time to wait for a status after a command.")
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewQueue creates a connected MQTT queue.
func (c *Config) NewQueue() (*mqtt.Queue, error) {
	q, err := mqtt.NewQueueFromURL(c.MQTTURL)
	if err != nil {
		return nil, err
	}
	if err = q.Connect(); err != nil {
		return nil, err
	}
	return q, nil
}
