package marketdata

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/fedfunds/internal/version"
	"github.com/rxtech-lab/fedfunds/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML config file accepted by the fetch command.
// Every field is optional; command line flags that are set explicitly take precedence.
type FileConfig struct {
	Version         string `yaml:"version" json:"version,omitempty" jsonschema:"title=Version,description=Config file layout version (semver)"`
	Series          string `yaml:"series" json:"series,omitempty" jsonschema:"title=Series,description=FRED series identifier (e.g. FEDFUNDS)"`
	Alias           string `yaml:"alias" json:"alias,omitempty" jsonschema:"title=Alias,description=Name of the value column in the output files"`
	Provider        string `yaml:"provider" json:"provider,omitempty" jsonschema:"title=Provider,description=Series data provider,enum=fredgraph,enum=fred" validate:"omitempty,oneof=fredgraph fred"`
	Writer          string `yaml:"writer" json:"writer,omitempty" jsonschema:"title=Writer,description=Output format,enum=csv,enum=duckdb" validate:"omitempty,oneof=csv duckdb"`
	DataPath        string `yaml:"data_path" json:"data_path,omitempty" jsonschema:"title=Data Path,description=Directory receiving the output files"`
	APIKey          string `yaml:"api_key" json:"api_key,omitempty" jsonschema:"title=API Key,description=FRED API key used by the fred provider"`
	Timeout         string `yaml:"timeout" json:"timeout,omitempty" jsonschema:"title=Timeout,description=HTTP timeout as a Go duration (e.g. 30s)"`
	QuarterlyMethod string `yaml:"quarterly_method" json:"quarterly_method,omitempty" jsonschema:"title=Quarterly Method,description=Aggregation policy,enum=mean,enum=last" validate:"omitempty,oneof=mean last"`
	Start           string `yaml:"start" json:"start,omitempty" jsonschema:"title=Start Date,description=First date of the requested interval,format=date"`
	End             string `yaml:"end" json:"end,omitempty" jsonschema:"title=End Date,description=Last date of the requested interval,format=date"`
	MonthlyFile     string `yaml:"monthly_file" json:"monthly_file,omitempty" jsonschema:"title=Monthly File,description=File name of the monthly output inside data_path"`
	QuarterlyFile   string `yaml:"quarterly_file" json:"quarterly_file,omitempty" jsonschema:"title=Quarterly File,description=File name of the quarterly output inside data_path"`
}

// LoadConfigFile reads and validates the YAML config file at path.
func LoadConfigFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
	}

	return ParseConfig(data)
}

// ParseConfig decodes a YAML config document. Unknown keys are rejected.
func ParseConfig(data []byte) (*FileConfig, error) {
	var config FileConfig

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config file", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks field formats and the layout version.
func (c *FileConfig) Validate() error {
	if c.Version != "" {
		if err := version.CheckConfigCompatibility(version.ConfigVersion, c.Version); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidVersion, "unsupported config file version", err)
		}
	}

	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	if _, err := c.StartDate(); err != nil {
		return err
	}

	if _, err := c.EndDate(); err != nil {
		return err
	}

	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}

	return nil
}

// StartDate returns the configured start date, if any.
func (c *FileConfig) StartDate() (optional.Option[civil.Date], error) {
	return parseOptionalDate("start", c.Start)
}

// EndDate returns the configured end date, if any.
func (c *FileConfig) EndDate() (optional.Option[civil.Date], error) {
	return parseOptionalDate("end", c.End)
}

// TimeoutDuration returns the configured HTTP timeout, if any.
func (c *FileConfig) TimeoutDuration() (optional.Option[time.Duration], error) {
	if c.Timeout == "" {
		return optional.None[time.Duration](), nil
	}

	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return optional.None[time.Duration](), errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid timeout %q", c.Timeout)
	}

	if d < 0 {
		return optional.None[time.Duration](), errors.Newf(errors.ErrCodeInvalidConfiguration, "timeout must not be negative, got %s", c.Timeout)
	}

	return optional.Some(d), nil
}

// ParseDate parses a YYYY-MM-DD date, reporting failures as an invalid range.
func ParseDate(field string, value string) (civil.Date, error) {
	date, err := civil.ParseDate(value)
	if err != nil {
		return civil.Date{}, errors.Wrapf(errors.ErrCodeInvalidRange, err, "invalid %s date %q (expected YYYY-MM-DD)", field, value)
	}

	return date, nil
}

func parseOptionalDate(field string, value string) (optional.Option[civil.Date], error) {
	if value == "" {
		return optional.None[civil.Date](), nil
	}

	date, err := ParseDate(field, value)
	if err != nil {
		return optional.None[civil.Date](), err
	}

	return optional.Some(date), nil
}

// String renders the config without its API key.
func (c FileConfig) String() string {
	if c.APIKey != "" {
		c.APIKey = "***"
	}

	type plain FileConfig

	return fmt.Sprintf("%+v", plain(c))
}
