package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/stellarlinkco/daybook/internal/memory"
)

const (
	DefaultSearchLimit     = 20
	DefaultRecentLimit     = 10
	DefaultBackupSchedule  = "0 3 * * *"
	DefaultArchiveSchedule = "0 4 * * 0"
)

type Config struct {
	Memory MemoryConfig `json:"memory"`
	Backup BackupConfig `json:"backup"`
	Daemon DaemonConfig `json:"daemon"`
}

type MemoryConfig struct {
	Dir         string `json:"dir"`
	ArchiveDays int    `json:"archiveDays"`
}

type BackupConfig struct {
	Dir string `json:"dir"`
}

type DaemonConfig struct {
	BackupSchedule  string `json:"backupSchedule"`
	ArchiveSchedule string `json:"archiveSchedule"`
	ArchiveEnabled  bool   `json:"archiveEnabled"`
	StatePath       string `json:"statePath,omitempty"`
}

func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	base := filepath.Join(home, ".daybook")
	return &Config{
		Memory: MemoryConfig{
			Dir:         filepath.Join(base, "memory"),
			ArchiveDays: memory.DefaultArchiveDays,
		},
		Backup: BackupConfig{
			Dir: filepath.Join(base, "backups"),
		},
		Daemon: DaemonConfig{
			BackupSchedule:  DefaultBackupSchedule,
			ArchiveSchedule: DefaultArchiveSchedule,
		},
	}
}

func ConfigDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return filepath.Join(home, ".daybook")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if dir := os.Getenv("DAYBOOK_MEMORY_DIR"); dir != "" {
		cfg.Memory.Dir = dir
	}
	if dir := os.Getenv("DAYBOOK_BACKUP_DIR"); dir != "" {
		cfg.Backup.Dir = dir
	}
	if days := os.Getenv("DAYBOOK_ARCHIVE_DAYS"); days != "" {
		if parsed, err := strconv.Atoi(days); err == nil {
			cfg.Memory.ArchiveDays = parsed
		}
	}

	if cfg.Memory.Dir == "" {
		cfg.Memory.Dir = DefaultConfig().Memory.Dir
	}
	if cfg.Memory.ArchiveDays <= 0 {
		cfg.Memory.ArchiveDays = memory.DefaultArchiveDays
	}
	if cfg.Backup.Dir == "" {
		cfg.Backup.Dir = DefaultConfig().Backup.Dir
	}
	if cfg.Daemon.BackupSchedule == "" {
		cfg.Daemon.BackupSchedule = DefaultBackupSchedule
	}
	if cfg.Daemon.ArchiveSchedule == "" {
		cfg.Daemon.ArchiveSchedule = DefaultArchiveSchedule
	}
	if cfg.Daemon.StatePath == "" {
		cfg.Daemon.StatePath = filepath.Join(ConfigDir(), "daemon-state.json")
	}

	return cfg, nil
}

func SaveConfig(cfg *Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(ConfigPath(), data, 0644)
}
