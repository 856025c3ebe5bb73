package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DirName is the state directory created in the workdir by init.
const DirName = ".scrumban"

// Store backends
const (
	StoreText   = "text"
	StoreSQLite = "sqlite"
)

// Defaults for a fresh board
const (
	CurrentVersion       = "1"
	DefaultTaskLimit     = 4
	DefaultTodoLimit     = 4
	DefaultTodoFile      = "todo_backlog.txt"
	DefaultCompletedFile = "completed_tasks.csv"
)

// ErrNotInitialized is returned by LoadConfig when the workdir has no board.
var ErrNotInitialized = errors.New("no board initialized in this directory (run 'scrumban init')")

// Config represents .scrumban/config.json. Relative paths are resolved
// against the workdir.
type Config struct {
	Version       string `json:"version"`
	TaskLimit     int    `json:"task_limit"`
	TodoLimit     int    `json:"todo_limit"`
	BacklogPath   string `json:"backlog_path"`
	MembersPath   string `json:"members_path"`
	TodoPath      string `json:"todo_path,omitempty"`
	CompletedPath string `json:"completed_path,omitempty"`
	Store         string `json:"store,omitempty"`   // "text" or "sqlite"
	DBPath        string `json:"db_path,omitempty"` // sqlite only
}

// Default returns a config with every optional field filled in.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Version == "" {
		c.Version = CurrentVersion
	}
	if c.TaskLimit == 0 {
		c.TaskLimit = DefaultTaskLimit
	}
	if c.TodoLimit == 0 {
		c.TodoLimit = DefaultTodoLimit
	}
	if c.TodoPath == "" {
		c.TodoPath = DefaultTodoFile
	}
	if c.CompletedPath == "" {
		c.CompletedPath = DefaultCompletedFile
	}
	if c.Store == "" {
		c.Store = StoreText
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if c.TaskLimit < 1 {
		return fmt.Errorf("task_limit must be at least 1, got %d", c.TaskLimit)
	}
	if c.TodoLimit < 1 {
		return fmt.Errorf("todo_limit must be at least 1, got %d", c.TodoLimit)
	}
	if c.BacklogPath == "" {
		return errors.New("backlog_path is required")
	}
	if c.MembersPath == "" {
		return errors.New("members_path is required")
	}
	if c.Store != StoreText && c.Store != StoreSQLite {
		return fmt.Errorf("store must be %q or %q, got %q", StoreText, StoreSQLite, c.Store)
	}
	return nil
}

// StateDir returns the state directory inside dir.
func StateDir(dir string) string {
	return filepath.Join(dir, DirName)
}

// ResolvePath returns path unchanged when absolute, otherwise joined to dir.
func ResolvePath(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// Exists reports whether dir holds a config file.
func Exists(dir string) bool {
	_, err := os.Stat(configPath(dir))
	return err == nil
}

// LoadConfig reads .scrumban/config.json from the specified directory and
// fills in defaults for omitted fields.
func LoadConfig(dir string) (*Config, error) {
	data, err := os.ReadFile(configPath(dir))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotInitialized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	stateDir := StateDir(dir)
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s dir: %w", DirName, err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath(dir), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Reset removes config.json so the next run starts from init.
func Reset(dir string) error {
	if err := os.Remove(configPath(dir)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove config: %w", err)
	}
	return nil
}

func configPath(dir string) string {
	return filepath.Join(StateDir(dir), "config.json")
}
