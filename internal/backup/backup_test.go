package backup

import (
	"archive/tar"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
)

func writeSource(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "memory")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "2026-08-23.md"), []byte("# 2026-08-23\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestTarGzip_Compress(t *testing.T) {
	src := writeSource(t)
	dest := filepath.Join(t.TempDir(), "out.tar.gz")

	size, err := TarGzip{}.Compress(src, dest)
	if err != nil {
		t.Fatalf("Compress error: %v", err)
	}
	if size <= 0 {
		t.Errorf("size = %d, want > 0", size)
	}

	f, err := os.Open(dest)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	tr := tar.NewReader(gz)

	found := false
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("tar next: %v", err)
		}
		if hdr.Name == "2026-08-23.md" {
			found = true
			data, err := io.ReadAll(tr)
			if err != nil {
				t.Fatalf("read member: %v", err)
			}
			if string(data) != "# 2026-08-23\n" {
				t.Errorf("member content = %q", data)
			}
		}
	}
	if !found {
		t.Error("daily file missing from archive")
	}
}

func TestRun_DefaultTimestampedPath(t *testing.T) {
	src := writeSource(t)
	fixed := time.Date(2026, 8, 23, 3, 0, 0, 0, time.Local)
	svc := NewServiceWith(TarGzip{}, func() time.Time { return fixed })

	rep, err := svc.Run(src, "")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !strings.HasSuffix(rep.Path, "memory-backup-20260823-030000.tar.gz") {
		t.Errorf("path = %q, want timestamped default", rep.Path)
	}
	if rep.Size <= 0 {
		t.Errorf("size = %d, want > 0", rep.Size)
	}
	if _, err := os.Stat(rep.Path); err != nil {
		t.Errorf("archive missing: %v", err)
	}
}

func TestRun_MissingSource(t *testing.T) {
	svc := NewService()
	if _, err := svc.Run(filepath.Join(t.TempDir(), "nope"), ""); err == nil {
		t.Error("expected error for missing source")
	}
}

type failingCompressor struct{}

func (failingCompressor) Compress(string, string) (int64, error) {
	return 0, errors.New("gzip exploded")
}

func TestRun_CompressorFailure(t *testing.T) {
	src := writeSource(t)
	svc := NewServiceWith(failingCompressor{}, time.Now)

	_, err := svc.Run(src, filepath.Join(t.TempDir(), "out.tar.gz"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "backup failed") {
		t.Errorf("err = %v, want backup context", err)
	}
}
