package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Server struct {
	Addr         string `yaml:"addr"`
	ReadTimeout  int    `yaml:"read_timeout"`  // 秒
	WriteTimeout int    `yaml:"write_timeout"` // 秒
}

type Storage struct {
	Driver string `yaml:"driver"` // file 或 sqlite
	Path   string `yaml:"path"`
}

type Import struct {
	// Tolerance 文字、尺寸标注与直线的匹配距离
	Tolerance float64 `yaml:"tolerance"`
}

type Assemble struct {
	Gap float64 `yaml:"gap"`
}

type Config struct {
	Server   Server   `yaml:"server"`
	Storage  Storage  `yaml:"storage"`
	Import   Import   `yaml:"import"`
	Assemble Assemble `yaml:"assemble"`
}

const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

func Default() *Config {
	return &Config{
		Server: Server{
			Addr:         ":3000",
			ReadTimeout:  10,
			WriteTimeout: 10,
		},
		Storage: Storage{
			Driver: DriverFile,
			Path:   "data/cads.json",
		},
		Import:   Import{Tolerance: 20},
		Assemble: Assemble{Gap: 15},
	}
}

// Load 读取 YAML 配置（文件不存在时使用默认值），再用环境变量覆盖
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err = yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	cfg.Server.Addr = getEnv("CAD_ADDR", cfg.Server.Addr)
	cfg.Server.ReadTimeout = getEnvAsInt("CAD_READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = getEnvAsInt("CAD_WRITE_TIMEOUT", cfg.Server.WriteTimeout)
	cfg.Storage.Driver = getEnv("CAD_STORE", cfg.Storage.Driver)
	cfg.Storage.Path = getEnv("CAD_DB_PATH", cfg.Storage.Path)

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverFile, DriverSQLite:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storage.Path == "" {
		return errors.New("storage path required")
	}
	if c.Import.Tolerance <= 0 {
		return fmt.Errorf("invalid import tolerance %v", c.Import.Tolerance)
	}
	if c.Assemble.Gap < 0 {
		return fmt.Errorf("invalid assemble gap %v", c.Assemble.Gap)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}
