// Package backup produces compressed archives of the memory store
// directory.
package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Compressor turns a source directory into a single compressed archive and
// reports its size.
type Compressor interface {
	Compress(srcDir, destPath string) (int64, error)
}

// Service backs up a store directory through a pluggable compressor.
type Service struct {
	compressor Compressor
	now        func() time.Time
}

// NewService creates a backup service using in-process tar.gz compression.
func NewService() *Service {
	return &Service{compressor: TarGzip{}, now: time.Now}
}

// NewServiceWith creates a backup service with an injected compressor and
// clock.
func NewServiceWith(c Compressor, now func() time.Time) *Service {
	return &Service{compressor: c, now: now}
}

// Report describes a completed backup.
type Report struct {
	Path string
	Size int64
}

// Run compresses srcDir into destPath. An empty destPath selects a
// timestamped archive next to the source directory. A compression failure
// is surfaced as a single wrapped error; no partial archive is trusted.
func (s *Service) Run(srcDir, destPath string) (*Report, error) {
	if _, err := os.Stat(srcDir); err != nil {
		return nil, fmt.Errorf("backup source: %w", err)
	}
	if destPath == "" {
		stamp := s.now().Format("20060102-150405")
		name := fmt.Sprintf("%s-backup-%s.tar.gz", filepath.Base(srcDir), stamp)
		destPath = filepath.Join(filepath.Dir(srcDir), name)
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return nil, fmt.Errorf("backup dest dir: %w", err)
	}
	size, err := s.compressor.Compress(srcDir, destPath)
	if err != nil {
		return nil, fmt.Errorf("backup failed: %w", err)
	}
	return &Report{Path: destPath, Size: size}, nil
}
