package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"QuantInvest/pkg/util"
)

var validate = validator.New()

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required,oneof=development production test"`
	Log         struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=json console"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Questrade struct {
		LoginURL   string        `yaml:"login_url" default:"https://login.questrade.com" validate:"required,url"`
		AccessCode string        `yaml:"access_code"`
		TokenFile  string        `yaml:"token_file" default:"token.yaml" validate:"required"`
		Timeout    time.Duration `yaml:"timeout" default:"30s" validate:"gt=0"`
		RateLimit  int           `yaml:"rate_limit" default:"10" validate:"gte=1"`
	} `yaml:"questrade"`
	// Accounts maps a friendly alias to an account number.
	Accounts       map[string]string `yaml:"accounts" validate:"dive,keys,required,endkeys,required"`
	DefaultAccount string            `yaml:"default_account"`
	Reports        struct {
		DividendStartDate string  `yaml:"dividend_start_date" default:"2016-01-01" validate:"datetime=2006-01-02"`
		TargetCashRate    float64 `yaml:"target_cash_rate" default:"30" validate:"gte=0,lte=100"`
		Timezone          string  `yaml:"timezone" default:"America/Toronto" validate:"timezone"`
	} `yaml:"reports"`
	Cache struct {
		Enabled bool          `yaml:"enabled"`
		Backend string        `yaml:"backend" default:"memory" validate:"oneof=memory redis layered"`
		TTL     time.Duration `yaml:"ttl" default:"24h"`
		MaxSize int           `yaml:"max_size" default:"1000"`
		Redis   struct {
			Host     string `yaml:"host" default:"localhost"`
			Port     int    `yaml:"port" default:"6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"quantinvest:"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Metrics struct {
		Enabled      bool   `yaml:"enabled"`
		TextfilePath string `yaml:"textfile_path" default:"quantinvest.prom"`
	} `yaml:"metrics"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML bytes, fills defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// A .env file in the working directory is read first when present.
func LoadWithEnv(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	c.ApplyEnv()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// ApplyEnv overrides config values from the process environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("QUESTRADE_API_KEY"); v != "" {
		c.Questrade.AccessCode = strings.TrimSpace(v)
	}
	if v := os.Getenv("QUESTRADE_TOKEN_FILE"); v != "" {
		c.Questrade.TokenFile = v
	}
	c.Questrade.RateLimit = util.ParseIntDefault(os.Getenv("QUESTRADE_RATE_LIMIT"), c.Questrade.RateLimit)
	if v := os.Getenv("QUANT_ACCOUNT_NUM"); v != "" {
		c.setAccount("quant", v)
	}
	if v := os.Getenv("STANDARD_ACCOUNT_NUM"); v != "" {
		c.setAccount("standard", v)
	}
	if v := os.Getenv("DEFAULT_ACCOUNT"); v != "" {
		c.DefaultAccount = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	c.Reports.TargetCashRate = util.ParseFloatDefault(os.Getenv("TARGET_CASH_RATE"), c.Reports.TargetCashRate)
}

func (c *Config) setAccount(alias, number string) {
	if c.Accounts == nil {
		c.Accounts = make(map[string]string)
	}
	c.Accounts[alias] = strings.TrimSpace(number)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%s failed on %q", verrs[0].Namespace(), verrs[0].Tag())
		}
		return err
	}
	if c.DefaultAccount != "" {
		if _, ok := c.Accounts[c.DefaultAccount]; !ok {
			return fmt.Errorf("default_account %q is not a configured account alias", c.DefaultAccount)
		}
	}
	return nil
}

// Location returns the report timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Reports.Timezone)
}

// DividendStart returns the first day of the dividend history in the report
// timezone.
func (c *Config) DividendStart() (time.Time, error) {
	loc, err := c.Location()
	if err != nil {
		return time.Time{}, err
	}
	return util.ParseDate(c.Reports.DividendStartDate, loc)
}

// ResolveAccount maps an alias (or a raw account number) to an account
// number. An empty name selects the default account.
func (c *Config) ResolveAccount(name string) (string, error) {
	if name == "" {
		name = c.DefaultAccount
	}
	if name == "" {
		return "", errors.New("no account given and no default_account configured")
	}
	if num, ok := c.Accounts[name]; ok {
		return num, nil
	}
	for _, num := range c.Accounts {
		if num == name {
			return num, nil
		}
	}
	if _, err := fmt.Sscanf(name, "%d", new(int)); err == nil {
		return name, nil
	}
	return "", fmt.Errorf("unknown account %q", name)
}
