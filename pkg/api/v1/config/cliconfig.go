package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/koding/multiconfig"
	"github.com/nergy-se/boilerreport/pkg/api/v1/types"
)

const EnvPrefix = "BOILERREPORT"

type CliConfig struct {
	// Dir is scanned (not recursively) for boiler text files.
	Dir          string `required:"true"`
	FileMarker   string `default:"КОТ"`
	DeviceMarker string `default:"DevID"`
	MakeupMarker string `default:"Подпитка"`
	UnitMarker   string `default:"м3"`
	Encoding     string `default:"utf-8"`

	Driver  string `default:"mysql"`
	DSN     string
	DSNFile string
	Schema  string

	DeviceNameMarker  string `default:"КОТ"`
	StartOfDayAdapter string `default:"Энергия на начало суток"`
	ArchiveAdapter    string `default:"Суточный архив"`
	EnergyParameter   string `default:"A+ (активная суммарная)"`
	// QueryTimeout in seconds for each individual query.
	QueryTimeout int `default:"30"`

	Format     string `default:"json"`
	Align      string `default:"position"`
	OutputDir  string `default:"."`
	ReportName string `default:"отчет_подпитка"`

	DailyAt  string `default:"06:00"`
	Once     bool
	LockFile string

	PushgatewayURL string
	MQTTAddress    string
	MQTTTopic      string `default:"boilerreport/summary"`

	LogLevel string `default:"info"`
	LogFile  string

	mutex sync.RWMutex
}

// Load fills a CliConfig from struct defaults, BOILERREPORT_* environment variables and flags.
func Load() (*CliConfig, error) {
	c := &CliConfig{}
	loader := &multiconfig.DefaultLoader{
		Loader: multiconfig.MultiLoader(
			&multiconfig.TagLoader{},
			&multiconfig.EnvironmentLoader{Prefix: EnvPrefix, CamelCase: true},
			&multiconfig.FlagLoader{CamelCase: true},
		),
		Validator: multiconfig.MultiValidator(&multiconfig.RequiredValidator{}),
	}
	if err := loader.Load(c); err != nil {
		return nil, err
	}
	if err := c.LoadDSN(); err != nil {
		return nil, err
	}
	if err := loader.Validate(c); err != nil {
		return nil, err
	}
	return c, c.Validate()
}

func (c *CliConfig) Validate() error {
	switch types.OutputFormat(c.Format) {
	case types.OutputFormatJSON, types.OutputFormatXLSX, types.OutputFormatYAML:
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
	switch types.Alignment(c.Align) {
	case types.AlignPosition, types.AlignDevice:
	default:
		return fmt.Errorf("unknown align %q", c.Align)
	}
	if _, _, err := c.DailyTime(); err != nil {
		return err
	}
	if c.QueryTimeout <= 0 {
		return fmt.Errorf("query timeout must be positive, got %d", c.QueryTimeout)
	}
	return nil
}

// DailyTime returns hour and minute of DailyAt.
func (c *CliConfig) DailyTime() (int, int, error) {
	t, err := time.Parse("15:04", c.DailyAt)
	if err != nil {
		return 0, 0, fmt.Errorf("error parsing DailyAt %q: %w", c.DailyAt, err)
	}
	return t.Hour(), t.Minute(), nil
}

func (c *CliConfig) QueryTimeoutDuration() time.Duration {
	return time.Duration(c.QueryTimeout) * time.Second
}

func (c *CliConfig) Secret() string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.DSN
}

func (c *CliConfig) SetSecret(dsn string) {
	c.mutex.Lock()
	c.DSN = strings.TrimSpace(dsn)
	c.mutex.Unlock()
}

// LoadDSN reads the DSN from DSNFile unless it was given directly.
func (c *CliConfig) LoadDSN() error {
	if c.DSNFile == "" || c.Secret() != "" {
		return nil
	}
	b, err := os.ReadFile(c.DSNFile)
	if err != nil {
		return fmt.Errorf("error reading dsn file: %w", err)
	}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil // dont load empty dsn
	}
	c.SetSecret(string(b))
	return nil
}
