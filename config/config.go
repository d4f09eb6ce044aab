package config

import (
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config defines the app configuration.
type Config struct {
	Server struct {
		Port int    `yaml:"port" env:"PORT" env-default:"4000"`
		Env  string `yaml:"env" env:"ENV" env-default:"development"`
	} `yaml:"server"`
	Database struct {
		DSN          string `yaml:"dsn" env:"DSN"`
		MaxOpenConns int    `yaml:"max_open_conns" env:"MAXOPENCONNS" env-default:"25"`
		MaxIdleConns int    `yaml:"max_idle_conns" env:"MAXIDLECONNS" env-default:"25"`
		MaxIdleTime  string `yaml:"max_idle_time" env:"MAXIDLETIME" env-default:"15m"`
	} `yaml:"database"`
	Redis struct {
		URL     string `yaml:"url" env:"REDISURL"`
		Enabled bool   `yaml:"enabled" env:"REDISENABLED" env-default:"true"`
	} `yaml:"redis"`
	Identity struct {
		URL    string `yaml:"url" env:"IDENTITYURL"`
		APIKey string `yaml:"api_key" env:"IDENTITYAPIKEY"`
	} `yaml:"identity"`
	Limiter struct {
		RPS     float64 `yaml:"rps" env:"RPS" env-default:"4"`
		Burst   int     `yaml:"burst" env:"BURST" env-default:"8"`
		Enabled bool    `yaml:"enabled" env:"LENABLED" env-default:"true"`
	} `yaml:"limiter"`
	Cors struct {
		TrustedOrigins []string `yaml:"trusted_origins" env:"TRUSTEDORIGINS"`
	} `yaml:"cors"`
	Metrics struct {
		Enabled bool `yaml:"enabled" env:"MENABLED"`
	} `yaml:"metrics"`
	BasicAuth struct {
		Username string `yaml:"username" env:"USERNAME"`
		Password string `yaml:"password" env:"PASSWORD"`
	} `yaml:"basic_auth"`
}

// Decode reads the configuration from config.yml when one is present, with
// environment variables taking over otherwise.
func Decode() (Config, error) {
	var cfg Config
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yml"
	}
	if _, err := os.Stat(path); err == nil {
		err = cleanenv.ReadConfig(path, &cfg)
		if err != nil {
			return Config{}, err
		}
		return cfg, nil
	}
	err := cleanenv.ReadEnv(&cfg)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}
