package rover

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"time"

	"github.com/golang/glog"
	"gopkg.in/yaml.v2"

	"github.com/robotalks/rover/pkg/rover/color"
	"github.com/robotalks/rover/pkg/rover/drive"
	"github.com/robotalks/rover/pkg/rover/toggle"
)

// Config defines the configurations for the rover.
type Config struct {
	// LinkURL selects the command link, e.g. serial:///dev/rfcomm0?baud=9600.
	LinkURL string `yaml:"link"`
	// MQTTURL enables telemetry and remote commands when not empty,
	// e.g. mqtt://host:port/topic-prefix
	MQTTURL string `yaml:"mqtt"`
	// ID identifies the rover in MQTT topics.
	ID string `yaml:"id"`

	PollInterval time.Duration     `yaml:"poll_interval"`
	TurnDelay    time.Duration     `yaml:"turn_delay"`
	Speed        drive.Speed       `yaml:"speed"`
	Light        color.Calibration `yaml:"light"`
	StartupColor color.Color       `yaml:"startup_color"`
	Banner       string            `yaml:"banner"`
}

// DefaultBanner is printed on the link at startup.
const DefaultBanner = "Initiating Wheels On The Go (BT Edition)....."

var defaultConfig = Config{
	LinkURL:      "stdio:",
	PollInterval: DefaultPollInterval,
	TurnDelay:    toggle.DefaultTurnDelay,
	Speed:        drive.DefaultSpeed,
	Light:        color.DefaultCalibration,
	StartupColor: color.Idle,
	Banner:       DefaultBanner,
}

func init() {
	if val := os.Getenv("ROVER_LINK"); val != "" {
		defaultConfig.LinkURL = val
	}
	if val := os.Getenv("ROVER_MQTT_URL"); val != "" {
		defaultConfig.MQTTURL = val
	}
	if val := os.Getenv("ROVER_ID"); val != "" {
		defaultConfig.ID = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.LinkURL, "link", defaultConfig.LinkURL, "Command link URL (stdio:, serial://DEVICE?baud=N, ws://..., mqtt://...).")
	flag.StringVar(&defaultConfig.MQTTURL, "mqtt", defaultConfig.MQTTURL, "MQTT broker URL for telemetry, empty to disable.")
	flag.StringVar(&defaultConfig.ID, "id", defaultConfig.ID, "Rover ID, machine ID if empty.")
	flag.DurationVar(&defaultConfig.PollInterval, "poll-interval", defaultConfig.PollInterval, "Receiver pause after each command.")
	flag.DurationVar(&defaultConfig.TurnDelay, "turn-delay", defaultConfig.TurnDelay, "Duration of a turn before stopping.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// LoadFile loads a YAML file over the default config. It must be
// called before flag.Parse so flags take precedence.
func LoadFile(path string) error {
	glog.Infof("loading config file: %s", path)
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not open config file: %v", err)
	}
	return defaultConfig.parse(data)
}

func (c *Config) parse(data []byte) error {
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return fmt.Errorf("could not parse config file: %v", err)
	}
	return c.Validate()
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.LinkURL == "" {
		return fmt.Errorf("link URL must be specified")
	}
	if c.PollInterval < 0 || c.TurnDelay < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	return c.Light.Validate()
}
