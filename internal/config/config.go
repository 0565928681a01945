package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root application configuration.
type Config struct {
	// Backend services the dashboard reads from and writes to.
	TaskServiceURL string `yaml:"task_service_url" env:"TASKDECK_TASK_SERVICE" env-default:"http://localhost:5001"`
	UserServiceURL string `yaml:"user_service_url" env:"TASKDECK_USER_SERVICE" env-default:"http://localhost:5000"`
	HTTPTimeout    time.Duration `yaml:"http_timeout" env:"TASKDECK_HTTP_TIMEOUT" env-default:"30s"`

	// Operator identity: whose assignments the Assignments tab loads.
	UserID   int64  `yaml:"user_id"  env:"TASKDECK_USER_ID"`
	Username string `yaml:"username" env:"TASKDECK_USERNAME"`

	// Local paths. Empty means the platform default.
	DBPath    string `yaml:"db_path"    env:"TASKDECK_DB_PATH"`
	ExportDir string `yaml:"export_dir" env:"TASKDECK_EXPORT_DIR"`

	LogFile  string `yaml:"log_file"  env:"TASKDECK_LOG_FILE"`
	LogLevel string `yaml:"log_level" env:"TASKDECK_LOG_LEVEL" env-default:"info"`
}

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
// The YAML file path is determined by CONFIG_PATH env (fallback
// "./taskdeck.yaml"). If the file does not exist and CONFIG_PATH was not
// set explicitly, configuration is loaded from ENV + defaults only.
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = "./taskdeck.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		// No file, load from ENV + defaults only.
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	for name, raw := range map[string]string{
		"task service": c.TaskServiceURL,
		"user service": c.UserServiceURL,
	} {
		if raw == "" {
			return fmt.Errorf("%s URL is empty", name)
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s URL %q is not a valid http(s) URL", name, raw)
		}
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive, got %s", c.HTTPTimeout)
	}
	return nil
}
