package config

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeyDatabasePath      = "database.path"
	KeyImportStrictDates = "import.strict_dates"
	KeyImportYearCodes   = "import.year_codes"
	KeyServerPort        = "server.port"
	KeyLogLevel          = "log.level"
	KeyCompanies         = "companies"
)

type Config struct {
	Database  DatabaseConfig `mapstructure:"database" yaml:"database"`
	Import    ImportConfig   `mapstructure:"import" yaml:"import"`
	Server    ServerConfig   `mapstructure:"server" yaml:"server"`
	Log       LogConfig      `mapstructure:"log" yaml:"log"`
	Companies []CompanySeed  `mapstructure:"companies" yaml:"companies" validate:"dive"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path" validate:"required"`
}

type ImportConfig struct {
	StrictDates bool `mapstructure:"strict_dates" yaml:"strict_dates"`
	// YearCodes maps a four-digit year to the letter used in RE codes.
	YearCodes map[string]string `mapstructure:"year_codes" yaml:"year_codes"`
}

type ServerConfig struct {
	Port int `mapstructure:"port" yaml:"port" validate:"gte=1,lte=65535"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
}

// CompanySeed is inserted when the database has no companies yet.
type CompanySeed struct {
	Name string `mapstructure:"name" yaml:"name" validate:"required"`
	Key  string `mapstructure:"key" yaml:"key" validate:"required"`
}

var (
	companyKeyPattern = regexp.MustCompile(`^[a-z_]+$`)
	yearCodePattern   = regexp.MustCompile(`^[A-Z]$`)
)

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# salereport configuration
database:
  path: "./sales_report.db"

import:
  strict_dates: false
  year_codes:
    "2021": "N"
    "2022": "O"
    "2023": "P"
    "2024": "Q"
    "2025": "R"
    "2026": "S"

server:
  port: 8080

log:
  level: "info"

companies:
  - name: "Company A"
    key: "company_a"
  - name: "Company B"
    key: "company_b"
`
}

// YearCodeLookup converts the configured year codes to an int-keyed map.
// Invalid entries are rejected by validation, so they are skipped here.
func (c Config) YearCodeLookup() map[int]string {
	lookup := make(map[int]string, len(c.Import.YearCodes))
	for rawYear, code := range c.Import.YearCodes {
		year, err := strconv.Atoi(strings.TrimSpace(rawYear))
		if err != nil {
			continue
		}
		lookup[year] = strings.TrimSpace(code)
	}
	return lookup
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validateCompanies(cfg.Companies); err != nil {
		return nil, err
	}
	if err := validateYearCodes(cfg.Import.YearCodes); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, "./sales_report.db")
	v.SetDefault(KeyImportStrictDates, false)
	v.SetDefault(KeyImportYearCodes, map[string]string{
		"2021": "N",
		"2022": "O",
		"2023": "P",
		"2024": "Q",
		"2025": "R",
	})
	v.SetDefault(KeyServerPort, 8080)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyCompanies, []map[string]any{
		{"name": "Company A", "key": "company_a"},
		{"name": "Company B", "key": "company_b"},
	})
}

func validateCompanies(companies []CompanySeed) error {
	seen := make(map[string]struct{}, len(companies))
	for i, company := range companies {
		key := strings.TrimSpace(company.Key)
		if !companyKeyPattern.MatchString(key) {
			return fmt.Errorf("validation failed: companies[%d].key %q must be lowercase letters and underscores", i, company.Key)
		}
		if _, exists := seen[key]; exists {
			return fmt.Errorf("validation failed: duplicate company key %q", key)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func validateYearCodes(codes map[string]string) error {
	for rawYear, code := range codes {
		year, err := strconv.Atoi(strings.TrimSpace(rawYear))
		if err != nil || year < 1900 || year > 2100 {
			return fmt.Errorf("validation failed: import.year_codes key %q must be a year between 1900 and 2100", rawYear)
		}
		if !yearCodePattern.MatchString(strings.TrimSpace(code)) {
			return fmt.Errorf("validation failed: import.year_codes[%s] %q must be one uppercase letter", rawYear, code)
		}
	}
	return nil
}
