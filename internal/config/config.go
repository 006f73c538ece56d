package config

import (
	"errors"
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
)

const defaultCommissionRate = "0.10"

type Config struct {
	RunAddress     string `env:"RUN_ADDRESS"`
	DatabaseDSN    string `env:"DATABASE_URI"`
	MigrationsDir  string `env:"MIGRATIONS_DIR"`
	JWTUserSecret  string `env:"JWT_USER_SECRET"`
	CommissionRate string `env:"COMMISSION_RATE"`
}

func LoadConfig() (*Config, error) {
	var flagsConfig, envConfig Config

	if envParseErr := env.Parse(&envConfig); envParseErr != nil {
		return nil, fmt.Errorf("parse env config: %s", envParseErr.Error())
	}

	loadFlags(&flagsConfig)

	conf := mergeConfig(&envConfig, &flagsConfig)
	if conf.DatabaseDSN == "" {
		return nil, errors.New("database DSN is not set")
	}
	if conf.JWTUserSecret == "" {
		return nil, errors.New("JWT user secret is not set")
	}
	if _, rateErr := conf.Commission(); rateErr != nil {
		return nil, rateErr
	}
	return conf, nil
}

func MustLoadConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return config
}

// Commission возвращает долю комиссии платформы от цены заказа.
func (c *Config) Commission() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(c.CommissionRate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse commission rate %q: %s", c.CommissionRate, err.Error())
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Zero, fmt.Errorf("commission rate %s is out of [0, 1]", rate)
	}
	return rate, nil
}

func loadFlags(flagConfig *Config) {
	flag.StringVar(&flagConfig.RunAddress, "a", "localhost:8080", "Run address in format host:port")
	flag.StringVar(&flagConfig.DatabaseDSN, "d", "", "Database DSN")
	flag.StringVar(&flagConfig.MigrationsDir, "m", "internal/db/migrations", "Database migrations directory")
	flag.StringVar(&flagConfig.JWTUserSecret, "s", "", "JWT signing secret")
	flag.StringVar(&flagConfig.CommissionRate, "c", defaultCommissionRate, "Platform commission rate, e.g. 0.10")

	flag.Parse()
}

func mergeConfig(envConfig, flagsConfig *Config) *Config {
	return &Config{
		RunAddress:     defaultIfBlank(envConfig.RunAddress, flagsConfig.RunAddress),
		DatabaseDSN:    defaultIfBlank(envConfig.DatabaseDSN, flagsConfig.DatabaseDSN),
		MigrationsDir:  defaultIfBlank(envConfig.MigrationsDir, flagsConfig.MigrationsDir),
		JWTUserSecret:  defaultIfBlank(envConfig.JWTUserSecret, flagsConfig.JWTUserSecret),
		CommissionRate: defaultIfBlank(envConfig.CommissionRate, flagsConfig.CommissionRate),
	}
}

func defaultIfBlank(value string, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
