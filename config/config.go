package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const envPrefix = "ROOMCAST"

type HTTP struct {
	Addr           string        `yaml:"addr"`           // ":8080"
	ReadTimeout    time.Duration `yaml:"readTimeout"`    // "10s"
	WriteTimeout   time.Duration `yaml:"writeTimeout"`   // "15s"
	IdleTimeout    time.Duration `yaml:"idleTimeout"`    // "60s"
	AllowedOrigins []string      `yaml:"allowedOrigins"` // empty = any origin
}

type WS struct {
	PingEvery  time.Duration `yaml:"pingEvery"`  // "15s"
	SendBuffer int           `yaml:"sendBuffer"` // queued frames per connection
}

type GRPC struct {
	Addr string `yaml:"addr"` // empty disables the gRPC listener
}

type Logging struct {
	Env       string `yaml:"env"`       // dev|stage|prod
	Service   string `yaml:"service"`   // roomcast
	Version   string `yaml:"version"`   // v0.1.0
	Backend   string `yaml:"backend"`   // std|zap
	Level     string `yaml:"level"`     // debug|info|warn|error
	AddSource bool   `yaml:"addSource"` // false|true
	Debug     bool   `yaml:"debug"`     // false|true
}

type Auth struct {
	APIKeys []string `yaml:"apiKeys"`
}

type SeedRoom struct {
	Name       string `yaml:"name"`
	StartDate  string `yaml:"startDate"`
	MaxMembers *int   `yaml:"maxMembers"`
}

type Config struct {
	HTTP      HTTP       `yaml:"http"`
	WS        WS         `yaml:"ws"`
	GRPC      GRPC       `yaml:"grpc"`
	Logging   Logging    `yaml:"logging"`
	Auth      Auth       `yaml:"auth"`
	SeedRooms []SeedRoom `yaml:"seedRooms"`
}

// overrides are read from ROOMCAST_* variables and win over the file.
type overrides struct {
	APIKeys        []string `envconfig:"API_KEYS"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS"`
	HTTPAddr       string   `envconfig:"HTTP_ADDR"`
	GRPCAddr       string   `envconfig:"GRPC_ADDR"`
	LogLevel       string   `envconfig:"LOG_LEVEL"`
}

// Load reads an optional .env, then the YAML file at CONFIG_PATH
// (./config/config.yaml by default), then ROOMCAST_* overrides.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}
	return LoadFile(path)
}

func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	var o overrides
	if err := envconfig.Process(envPrefix, &o); err != nil {
		return fmt.Errorf("env overrides: %w", err)
	}
	if len(o.APIKeys) > 0 {
		c.Auth.APIKeys = o.APIKeys
	}
	if len(o.AllowedOrigins) > 0 {
		c.HTTP.AllowedOrigins = o.AllowedOrigins
	}
	if o.HTTPAddr != "" {
		c.HTTP.Addr = o.HTTPAddr
	}
	if o.GRPCAddr != "" {
		c.GRPC.Addr = o.GRPCAddr
	}
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	return nil
}

func (c *Config) validate() error {
	if len(c.Auth.APIKeys) == 0 {
		return errors.New("auth.apiKeys is required")
	}
	for i, r := range c.SeedRooms {
		if r.Name == "" {
			return fmt.Errorf("seedRooms[%d].name is required", i)
		}
	}

	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = 10 * time.Second
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = 15 * time.Second
	}
	if c.HTTP.IdleTimeout == 0 {
		c.HTTP.IdleTimeout = 60 * time.Second
	}
	if c.WS.PingEvery <= 0 {
		c.WS.PingEvery = 15 * time.Second
	}
	if c.WS.SendBuffer <= 0 {
		c.WS.SendBuffer = 256
	}
	if c.Logging.Service == "" {
		c.Logging.Service = "roomcast"
	}
	if c.Logging.Env == "" {
		c.Logging.Env = "dev"
	}
	if c.Logging.Version == "" {
		c.Logging.Version = "v0.1.0"
	}
	if c.Logging.Backend == "" {
		c.Logging.Backend = "std"
	}
	return nil
}
