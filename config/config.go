package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Input   InputConfig   `mapstructure:"input"`
	Output  OutputConfig  `mapstructure:"output"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Reports ReportsConfig `mapstructure:"reports"`
	Store   StoreConfig   `mapstructure:"store"`
	Log     LogConfig     `mapstructure:"log"`
}

// InputConfig locates the project dataset.
type InputConfig struct {
	Path  string `mapstructure:"path" validate:"required"`
	Sheet string `mapstructure:"sheet"`
}

// OutputConfig controls where and what the run writes.
type OutputConfig struct {
	Dir         string `mapstructure:"dir" validate:"required"`
	PreviewRows int    `mapstructure:"preview_rows" validate:"gte=0"`
	XLSX        bool   `mapstructure:"xlsx"`
	GeoJSON     bool   `mapstructure:"geojson"`
	Manifest    bool   `mapstructure:"manifest"`
	Metrics     bool   `mapstructure:"metrics"`
}

// FilterConfig bounds the funding years kept for reporting (inclusive).
type FilterConfig struct {
	StartYear int `mapstructure:"start_year" validate:"gt=0"`
	EndYear   int `mapstructure:"end_year" validate:"gtefield=StartYear"`
}

// ReportsConfig tunes the report generators.
type ReportsConfig struct {
	BaselineYear          int  `mapstructure:"baseline_year" validate:"gt=0"`
	MinContractorProjects int  `mapstructure:"min_contractor_projects" validate:"gte=1"`
	TopContractors        int  `mapstructure:"top_contractors" validate:"gte=1"`
	Parallel              bool `mapstructure:"parallel"`
}

// StoreConfig selects the optional database sink.
type StoreConfig struct {
	Driver     string `mapstructure:"driver" validate:"oneof=none sqlite postgres"`
	DSN        string `mapstructure:"dsn" validate:"required_unless=Driver none"`
	MaxRetries int    `mapstructure:"max_retries" validate:"gte=1"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// Load reads the .env file, a YAML config file and FLOOD_* environment
// variables, in increasing order of precedence over the defaults. With an
// empty path an optional config.yaml in the working directory is used; a
// named file must exist.
func Load(path string) (*Config, error) {
	// A missing .env is normal; everything has a default.
	_ = godotenv.Load()

	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("FLOOD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input.path", "data/dpwh_flood_control_projects.csv")
	v.SetDefault("input.sheet", "")
	v.SetDefault("output.dir", "output")
	v.SetDefault("output.preview_rows", 5)
	v.SetDefault("output.xlsx", true)
	v.SetDefault("output.geojson", true)
	v.SetDefault("output.manifest", true)
	v.SetDefault("output.metrics", true)
	v.SetDefault("filter.start_year", 2021)
	v.SetDefault("filter.end_year", 2023)
	v.SetDefault("reports.baseline_year", 2021)
	v.SetDefault("reports.min_contractor_projects", 5)
	v.SetDefault("reports.top_contractors", 15)
	v.SetDefault("reports.parallel", true)
	v.SetDefault("store.driver", "none")
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.max_retries", 3)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Validate checks field constraints after flags have been applied.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return eris.Wrap(err, "config: invalid")
	}
	return nil
}
