package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yourname/static_lite/pkg/staticproto"
)

const (
	DefaultConfigPath      = "./config.yaml"
	DefaultListenAddr      = ":8080"
	DefaultChunkSize       = 32 << 10
	DefaultShutdownTimeout = 15 * time.Second
)

type Config struct {
	ListenAddr      string            `yaml:"listen_addr" json:"listen_addr"`
	Root            string            `yaml:"root" json:"root"`
	MountPrefix     string            `yaml:"mount_prefix" json:"mount_prefix"`
	IndexFile       string            `yaml:"index_file" json:"index_file"`
	DefaultMimeType string            `yaml:"default_mime_type" json:"default_mime_type"`
	MimeOverrides   map[string]string `yaml:"mime_overrides" json:"mime_overrides"`
	AllowDotfiles   bool              `yaml:"allow_dotfiles" json:"allow_dotfiles"`
	ChunkSize       int               `yaml:"chunk_size" json:"chunk_size"`
	AllowedOrigins  []string          `yaml:"allowed_origins" json:"allowed_origins"`
	MaxInFlight     int               `yaml:"max_in_flight" json:"max_in_flight"`
	LogLevel        string            `yaml:"log_level" json:"log_level"`
	LogFormat       string            `yaml:"log_format" json:"log_format"`
	ShutdownTimeout time.Duration     `yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// Load читает YAML-конфигурацию из CONFIG_PATH, применяет ENV-переопределения и значения по умолчанию.
func Load() (*Config, error) {
	path, explicit := os.LookupEnv("CONFIG_PATH")
	if !explicit || path == "" {
		path = DefaultConfigPath
	}
	return LoadFile(path, explicit)
}

// LoadFile читает конфигурацию из path. Отсутствие файла допустимо, только если путь
// не был задан явно: тогда всё берётся из ENV и значений по умолчанию.
func LoadFile(path string, required bool) (*Config, error) {
	var c Config

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !required:
	default:
		return nil, err
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	c.applyDefaults()

	return &c, nil
}

// applyEnv применяет ENV-переопределения поверх YAML.
func (c *Config) applyEnv() error {
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("SERVE_ROOT"); v != "" {
		c.Root = v
	}
	if v := os.Getenv("MOUNT_PREFIX"); v != "" {
		c.MountPrefix = v
	}
	if v := os.Getenv("INDEX_FILE"); v != "" {
		c.IndexFile = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitComma(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("MAX_IN_FLIGHT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MAX_IN_FLIGHT: %w", err)
		}
		c.MaxInFlight = n
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.MountPrefix == "" {
		c.MountPrefix = staticproto.DefaultMountPrefix
	}
	if !strings.HasSuffix(c.MountPrefix, "/") {
		c.MountPrefix += "/"
	}
	if c.DefaultMimeType == "" {
		c.DefaultMimeType = staticproto.DefaultMimeType
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "json"
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
}

// Validate проверяет то, что должно быть верно до приёма первого запроса.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Root) == "" {
		return fmt.Errorf("root is not configured")
	}
	if !filepath.IsAbs(c.Root) {
		return fmt.Errorf("root %q must be an absolute path", c.Root)
	}

	info, err := os.Stat(c.Root)
	if err != nil {
		return fmt.Errorf("root %q: %w", c.Root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root %q is not a directory", c.Root)
	}

	if !strings.HasPrefix(c.MountPrefix, "/") {
		return fmt.Errorf("mount_prefix %q must start with '/'", c.MountPrefix)
	}
	if strings.ContainsAny(c.IndexFile, `/\`) {
		return fmt.Errorf("index_file %q must be a plain file name", c.IndexFile)
	}
	if c.MaxInFlight < 0 {
		return fmt.Errorf("max_in_flight must be >= 0")
	}

	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("log_format %q: want json or console", c.LogFormat)
	}

	return nil
}

func splitComma(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}
