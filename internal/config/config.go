package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort          = 8007
	defaultEnv           = "development"
	defaultMongoURI      = "mongodb://localhost:27017"
	defaultMongoDatabase = "subtitleApp"
	defaultUploadDir     = "uploads"
	defaultDownloadDir   = "downloads"
	defaultScriptsDir    = "python_scripts"
	defaultInterpreter   = "python"
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int          `yaml:"port"`
	Env            string       `yaml:"env"` // "development" | "production"
	MongoURI       string       `yaml:"mongo_uri"`
	MongoDatabase  string       `yaml:"mongo_database"`
	RedisURL       string       `yaml:"redis_url"` // optional; enables rate limiting
	JWTSecret      string       `yaml:"jwt_secret"`
	AllowedOrigins []string     `yaml:"allowed_origins"`
	Paths          PathsConfig  `yaml:"paths"`
	Worker         WorkerConfig `yaml:"worker"`
}

// PathsConfig locates the upload and download directories.
type PathsConfig struct {
	Uploads   string `yaml:"uploads"`
	Downloads string `yaml:"downloads"`
}

// WorkerConfig describes how external worker scripts are launched.
type WorkerConfig struct {
	Interpreter      string `yaml:"interpreter"`
	ScriptsDir       string `yaml:"scripts_dir"`
	TranslateScript  string `yaml:"translate_script"`
	SimilarityScript string `yaml:"similarity_script"`
	// TimeoutSeconds bounds a single worker run. Zero disables the timeout.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Load reads configuration from a YAML file, fills defaults, and applies
// environment overrides. A missing file is not an error; the defaults plus
// environment are used.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := &AppConfig{}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *AppConfig) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	if v := strings.TrimSpace(os.Getenv("NODE_ENV")); v != "" {
		c.Env = v
	}
	if v := strings.TrimSpace(os.Getenv("MONGO_URI")); v != "" {
		c.MongoURI = v
	}
	if v := strings.TrimSpace(os.Getenv("MONGO_DB")); v != "" {
		c.MongoDatabase = v
	}
	if v := strings.TrimSpace(os.Getenv("REDIS_URL")); v != "" {
		c.RedisURL = v
	}
	if v := strings.TrimSpace(os.Getenv("SECRET_KEY")); v != "" {
		c.JWTSecret = v
	}
	if v := strings.TrimSpace(os.Getenv("PYTHON_PATH")); v != "" {
		c.Worker.Interpreter = v
	}
	if v := strings.TrimSpace(os.Getenv("UPLOAD_DIR")); v != "" {
		c.Paths.Uploads = v
	}
	if v := strings.TrimSpace(os.Getenv("DOWNLOAD_DIR")); v != "" {
		c.Paths.Downloads = v
	}
	if v := strings.TrimSpace(os.Getenv("WORKER_TIMEOUT_SECONDS")); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.Worker.TimeoutSeconds = secs
		}
	}
}

func (c *AppConfig) applyDefaults() {
	if c.Port <= 0 {
		c.Port = defaultPort
	}
	if strings.TrimSpace(c.Env) == "" {
		c.Env = defaultEnv
	}
	if strings.TrimSpace(c.MongoURI) == "" {
		c.MongoURI = defaultMongoURI
	}
	if strings.TrimSpace(c.MongoDatabase) == "" {
		c.MongoDatabase = defaultMongoDatabase
	}
	if strings.TrimSpace(c.Paths.Uploads) == "" {
		c.Paths.Uploads = defaultUploadDir
	}
	if strings.TrimSpace(c.Paths.Downloads) == "" {
		c.Paths.Downloads = defaultDownloadDir
	}
	if strings.TrimSpace(c.Worker.Interpreter) == "" {
		c.Worker.Interpreter = defaultInterpreter
	}
	if strings.TrimSpace(c.Worker.ScriptsDir) == "" {
		c.Worker.ScriptsDir = defaultScriptsDir
	}
	if strings.TrimSpace(c.Worker.TranslateScript) == "" {
		c.Worker.TranslateScript = "translate.py"
	}
	if strings.TrimSpace(c.Worker.SimilarityScript) == "" {
		c.Worker.SimilarityScript = "similarity.py"
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return !strings.EqualFold(strings.TrimSpace(c.Env), "production")
}

// UploadDir returns the absolute upload directory path.
func (c *AppConfig) UploadDir() string { return absPath(c.Paths.Uploads) }

// DownloadDir returns the absolute download directory path.
func (c *AppConfig) DownloadDir() string { return absPath(c.Paths.Downloads) }

// TranslateScriptPath returns the absolute path of the translation worker.
func (c *AppConfig) TranslateScriptPath() string {
	return absPath(filepath.Join(c.Worker.ScriptsDir, c.Worker.TranslateScript))
}

// SimilarityScriptPath returns the absolute path of the similarity worker.
func (c *AppConfig) SimilarityScriptPath() string {
	return absPath(filepath.Join(c.Worker.ScriptsDir, c.Worker.SimilarityScript))
}

func absPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
