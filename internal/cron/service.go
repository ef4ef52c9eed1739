// Package cron schedules store maintenance: periodic backups and
// archival of old daily files.
package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	rcron "github.com/robfig/cron/v3"

	"github.com/stellarlinkco/daybook/internal/backup"
	"github.com/stellarlinkco/daybook/internal/memory"
)

// Options configures the maintenance schedules. Empty schedules disable
// the corresponding job.
type Options struct {
	BackupDir       string
	BackupSchedule  string
	ArchiveSchedule string
	ArchiveEnabled  bool
	ArchiveDays     int
	StatePath       string
}

// State records the outcome of the most recent maintenance runs. It is
// persisted as JSON so restarts keep history.
type State struct {
	LastBackupAtMs    int64  `json:"lastBackupAtMs"`
	LastBackupStatus  string `json:"lastBackupStatus,omitempty"`
	LastBackupError   string `json:"lastBackupError,omitempty"`
	LastBackupPath    string `json:"lastBackupPath,omitempty"`
	LastArchiveAtMs   int64  `json:"lastArchiveAtMs"`
	LastArchiveStatus string `json:"lastArchiveStatus,omitempty"`
	LastArchiveError  string `json:"lastArchiveError,omitempty"`
	LastArchiveCount  int    `json:"lastArchiveCount"`
}

type Service struct {
	store   *memory.Store
	backups *backup.Service
	opts    Options

	mu     sync.Mutex
	state  State
	cron   *rcron.Cron
	cancel context.CancelFunc
}

func NewService(store *memory.Store, backups *backup.Service, opts Options) *Service {
	return &Service{store: store, backups: backups, opts: opts}
}

func (s *Service) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	if err := s.load(); err != nil {
		log.Printf("[cron] warning: failed to load state: %v", err)
	}

	s.cron = rcron.New()

	if s.opts.BackupSchedule != "" {
		if _, err := s.cron.AddFunc(s.opts.BackupSchedule, s.runBackup); err != nil {
			return fmt.Errorf("register backup schedule %q: %w", s.opts.BackupSchedule, err)
		}
	}
	if s.opts.ArchiveEnabled && s.opts.ArchiveSchedule != "" {
		if _, err := s.cron.AddFunc(s.opts.ArchiveSchedule, s.runArchive); err != nil {
			return fmt.Errorf("register archive schedule %q: %w", s.opts.ArchiveSchedule, err)
		}
	}

	s.cron.Start()
	log.Printf("[cron] started (backup %q, archive %q enabled=%v)",
		s.opts.BackupSchedule, s.opts.ArchiveSchedule, s.opts.ArchiveEnabled)

	go func() {
		<-runCtx.Done()
		s.Stop()
	}()

	return nil
}

func (s *Service) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}

	if s.cron != nil {
		stopCtx := s.cron.Stop()
		select {
		case <-stopCtx.Done():
		case <-time.After(5 * time.Second):
			log.Printf("[cron] stop timeout waiting for running jobs")
		}
	}
	log.Printf("[cron] stopped")
}

// LastState returns a copy of the persisted run state.
func (s *Service) LastState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Service) runBackup() {
	dest := ""
	if s.opts.BackupDir != "" {
		name := fmt.Sprintf("memory-%s.tar.gz", time.Now().Format("20060102-150405"))
		dest = filepath.Join(s.opts.BackupDir, name)
	}

	rep, err := s.backups.Run(s.store.Dir(), dest)

	s.mu.Lock()
	s.state.LastBackupAtMs = time.Now().UnixMilli()
	if err != nil {
		s.state.LastBackupStatus = "error"
		s.state.LastBackupError = err.Error()
		log.Printf("[cron] backup error: %v", err)
	} else {
		s.state.LastBackupStatus = "ok"
		s.state.LastBackupError = ""
		s.state.LastBackupPath = rep.Path
		log.Printf("[cron] backup written: %s (%d bytes)", rep.Path, rep.Size)
	}
	s.mu.Unlock()

	if err := s.save(); err != nil {
		log.Printf("[cron] warning: failed to save state: %v", err)
	}
}

func (s *Service) runArchive() {
	rep, err := s.store.Archive(memory.ArchiveOptions{OlderThanDays: s.opts.ArchiveDays})

	s.mu.Lock()
	s.state.LastArchiveAtMs = time.Now().UnixMilli()
	if err != nil {
		s.state.LastArchiveStatus = "error"
		s.state.LastArchiveError = err.Error()
		log.Printf("[cron] archive error: %v", err)
	} else {
		s.state.LastArchiveStatus = "ok"
		s.state.LastArchiveError = ""
		s.state.LastArchiveCount = rep.Archived
		if rep.Archived == 0 {
			log.Printf("[cron] archive: nothing older than %s", rep.Cutoff)
		} else {
			log.Printf("[cron] archived %d files to %s", rep.Archived, rep.ExportPath)
		}
	}
	s.mu.Unlock()

	if err := s.save(); err != nil {
		log.Printf("[cron] warning: failed to save state: %v", err)
	}
}

func (s *Service) load() error {
	if s.opts.StatePath == "" {
		return nil
	}
	data, err := os.ReadFile(s.opts.StatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.Unmarshal(data, &s.state)
}

func (s *Service) save() error {
	if s.opts.StatePath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.opts.StatePath), 0755); err != nil {
		return err
	}
	s.mu.Lock()
	data, err := json.MarshalIndent(s.state, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return os.WriteFile(s.opts.StatePath, data, 0644)
}
