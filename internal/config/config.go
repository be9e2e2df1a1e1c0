// Package config loads CLI settings from a YAML file, optional .env files
// and MEANSHIFT_* environment variables, in that order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/meanshift"
	"github.com/hupe1980/meanshift/imaging"
	"github.com/hupe1980/meanshift/internal/merge"
	"github.com/hupe1980/meanshift/persistence"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MEANSHIFT_"

// Storage backends.
const (
	BackendNone  = "none"
	BackendLocal = "local"
	BackendS3    = "s3"
	BackendMinIO = "minio"
)

// Config is the full CLI configuration.
type Config struct {
	Segmentation Segmentation `yaml:"segmentation"`
	Image        Image        `yaml:"image"`
	Storage      Storage      `yaml:"storage"`
	Log          Log          `yaml:"log"`
}

// Segmentation holds the engine parameters.
type Segmentation struct {
	Radius                float32 `yaml:"radius"`
	ModeDistanceThreshold float32 `yaml:"mode_distance_threshold"`
	ChangeTolerance       float32 `yaml:"change_tolerance"`
	MaxIterations         int     `yaml:"max_iterations"`
	Workers               int     `yaml:"workers"`
	ChunkSize             int     `yaml:"chunk_size"`
	CentroidUpdate        string  `yaml:"centroid_update"`
}

// Image controls feature extraction.
type Image struct {
	MaxPixels int `yaml:"max_pixels"`
	Dimension int `yaml:"dimension"`
}

// Storage selects where snapshots and rendered images are written.
type Storage struct {
	Backend     string `yaml:"backend"`
	Root        string `yaml:"root"`
	Bucket      string `yaml:"bucket"`
	Prefix      string `yaml:"prefix"`
	Region      string `yaml:"region"`
	Endpoint    string `yaml:"endpoint"`
	AccessKey   string `yaml:"access_key"`
	SecretKey   string `yaml:"secret_key"`
	Secure      bool   `yaml:"secure"`
	Compression string `yaml:"compression"`
}

// Log configures the slog handler.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Segmentation: Segmentation{
			Radius:                meanshift.DefaultRadius,
			ModeDistanceThreshold: meanshift.DefaultModeDistanceThreshold,
			ChangeTolerance:       meanshift.DefaultChangeTolerance,
			MaxIterations:         meanshift.DefaultMaxIterations,
			CentroidUpdate:        merge.UpdateReference.String(),
		},
		Image: Image{
			MaxPixels: imaging.DefaultMaxPixels,
			Dimension: 5,
		},
		Storage: Storage{
			Backend:     BackendNone,
			Root:        ".",
			Compression: persistence.CompressionZSTD.String(),
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadEnvFiles loads .env files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// Load reads the YAML file at path on top of Default, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("config file not found: %s", path)
			}
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := decode(data, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing config YAML: %w", err)
	}
	return nil
}

// Save writes cfg as YAML.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	var errs []error
	integer := func(name string, dst *int) {
		if v, ok := lookup(EnvPrefix + name); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}
	float := func(name string, dst *float32) {
		if v, ok := lookup(EnvPrefix + name); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 32)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = float32(f)
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := lookup(EnvPrefix + name); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = b
		}
	}

	s := &c.Segmentation
	float("RADIUS", &s.Radius)
	float("MODE_DISTANCE_THRESHOLD", &s.ModeDistanceThreshold)
	float("CHANGE_TOLERANCE", &s.ChangeTolerance)
	integer("MAX_ITERATIONS", &s.MaxIterations)
	integer("WORKERS", &s.Workers)
	integer("CHUNK_SIZE", &s.ChunkSize)
	str("CENTROID_UPDATE", &s.CentroidUpdate)

	integer("MAX_PIXELS", &c.Image.MaxPixels)
	integer("DIMENSION", &c.Image.Dimension)

	st := &c.Storage
	str("STORAGE_BACKEND", &st.Backend)
	str("STORAGE_ROOT", &st.Root)
	str("STORAGE_BUCKET", &st.Bucket)
	str("STORAGE_PREFIX", &st.Prefix)
	str("STORAGE_REGION", &st.Region)
	str("STORAGE_ENDPOINT", &st.Endpoint)
	str("STORAGE_ACCESS_KEY", &st.AccessKey)
	str("STORAGE_SECRET_KEY", &st.SecretKey)
	boolean("STORAGE_SECURE", &st.Secure)
	str("COMPRESSION", &st.Compression)

	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	return errors.Join(errs...)
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	s := c.Segmentation
	if s.Radius <= 0 {
		add("segmentation.radius must be > 0, got %v", s.Radius)
	}
	if s.ModeDistanceThreshold <= 0 {
		add("segmentation.mode_distance_threshold must be > 0, got %v", s.ModeDistanceThreshold)
	}
	if s.ChangeTolerance <= 0 {
		add("segmentation.change_tolerance must be > 0, got %v", s.ChangeTolerance)
	}
	if s.MaxIterations <= 0 {
		add("segmentation.max_iterations must be > 0, got %d", s.MaxIterations)
	}
	if s.Workers < 0 {
		add("segmentation.workers must be >= 0, got %d", s.Workers)
	}
	if s.ChunkSize < 0 {
		add("segmentation.chunk_size must be >= 0, got %d", s.ChunkSize)
	}
	if _, err := merge.ParseCentroidUpdate(s.CentroidUpdate); err != nil {
		add("segmentation.centroid_update: %w", err)
	}

	if c.Image.MaxPixels < 0 {
		add("image.max_pixels must be >= 0, got %d", c.Image.MaxPixels)
	}
	if c.Image.Dimension != 3 && c.Image.Dimension != 5 {
		add("image.dimension must be 3 or 5, got %d", c.Image.Dimension)
	}

	st := c.Storage
	switch st.Backend {
	case BackendNone, BackendLocal:
	case BackendS3:
		if st.Bucket == "" {
			add("storage.bucket is required for backend %s", st.Backend)
		}
	case BackendMinIO:
		if st.Bucket == "" {
			add("storage.bucket is required for backend %s", st.Backend)
		}
		if st.Endpoint == "" {
			add("storage.endpoint is required for backend %s", st.Backend)
		}
	default:
		add("storage.backend must be one of none, local, s3, minio, got %q", st.Backend)
	}
	if _, err := persistence.ParseCompression(st.Compression); err != nil {
		add("storage.compression: %w", err)
	}

	if _, err := c.Log.level(); err != nil {
		add("log.level: %w", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		add("log.format must be text or json, got %q", c.Log.Format)
	}

	return errors.Join(errs...)
}

func (l Log) level() (slog.Level, error) {
	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(l.Level))
	return lvl, err
}

// Logger builds the configured logger.
func (c Config) Logger() *meanshift.Logger {
	lvl, err := c.Log.level()
	if err != nil {
		lvl = slog.LevelInfo
	}
	if c.Log.Format == "json" {
		return meanshift.NewJSONLogger(lvl)
	}
	return meanshift.NewTextLogger(lvl)
}

// Options maps the segmentation section to engine options.
func (c Config) Options() ([]meanshift.Option, error) {
	s := c.Segmentation
	update, err := merge.ParseCentroidUpdate(s.CentroidUpdate)
	if err != nil {
		return nil, err
	}
	return []meanshift.Option{
		meanshift.WithRadius(s.Radius),
		meanshift.WithModeDistanceThreshold(s.ModeDistanceThreshold),
		meanshift.WithChangeTolerance(s.ChangeTolerance),
		meanshift.WithMaxIterations(s.MaxIterations),
		meanshift.WithWorkers(s.Workers),
		meanshift.WithChunkSize(s.ChunkSize),
		meanshift.WithCentroidUpdate(update),
		meanshift.WithLogger(c.Logger()),
	}, nil
}

// Compression returns the parsed snapshot compression.
func (c Config) Compression() persistence.CompressionType {
	ct, err := persistence.ParseCompression(c.Storage.Compression)
	if err != nil {
		return persistence.CompressionNone
	}
	return ct
}
