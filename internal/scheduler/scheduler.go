// Package scheduler runs the recurring position file sweep. The custodian
// drops daily snapshot CSVs into a directory; the sweep imports each file and
// moves it aside so a failed import can be inspected and retried.
package scheduler

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/ndewijer/Fund-Trading-Backend/internal/service"
)

// Scheduler owns the cron runner and the drop directory configuration.
type Scheduler struct {
	cron          *cron.Cron
	importService *service.ImportService
	dropDir       string
}

// New creates a Scheduler that sweeps dropDir on the given cron expression.
// An empty dropDir disables the sweep.
func New(importService *service.ImportService, dropDir, cronSpec string) (*Scheduler, error) {
	s := &Scheduler{
		cron:          cron.New(),
		importService: importService,
		dropDir:       dropDir,
	}

	if dropDir == "" {
		return s, nil
	}

	if _, err := s.cron.AddFunc(cronSpec, s.Sweep); err != nil {
		return nil, fmt.Errorf("invalid position import cron expression %q: %w", cronSpec, err)
	}

	return s, nil
}

// Start begins running scheduled sweeps in the background.
func (s *Scheduler) Start() {
	if s.dropDir == "" {
		log.Printf("position drop directory not configured, sweep disabled")
		return
	}
	log.Printf("position file sweep enabled for %s", s.dropDir)
	s.cron.Start()
}

// Stop stops the cron runner and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Sweep imports every CSV file in the drop directory. Imported files move to
// a processed/ subdirectory; files that fail stay in place with a .failed
// marker next to them.
func (s *Scheduler) Sweep() {
	entries, err := os.ReadDir(s.dropDir)
	if err != nil {
		log.Printf("failed to read drop directory %s: %v", s.dropDir, err)
		return
	}

	processedDir := filepath.Join(s.dropDir, "processed")
	if err := os.MkdirAll(processedDir, 0o755); err != nil {
		log.Printf("failed to create processed directory: %v", err)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}

		path := filepath.Join(s.dropDir, entry.Name())
		if err := s.importFile(path); err != nil {
			log.Printf("position file %s failed: %v", entry.Name(), err)
			s.markFailed(path, err)
			continue
		}

		if err := os.Rename(path, filepath.Join(processedDir, entry.Name())); err != nil {
			log.Printf("failed to move processed file %s: %v", entry.Name(), err)
		}
	}
}

func (s *Scheduler) importFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	count, err := s.importService.ImportPositions(f)
	if err != nil {
		return err
	}

	log.Printf("swept %s: %d positions", filepath.Base(path), count)
	return nil
}

// markFailed writes the import error next to the file so operations can see
// why it was skipped. The file itself is left untouched for a retry after
// the data is fixed.
func (s *Scheduler) markFailed(path string, importErr error) {
	marker := path + ".failed"
	if err := os.WriteFile(marker, []byte(importErr.Error()+"\n"), 0o644); err != nil {
		log.Printf("failed to write failure marker for %s: %v", path, err)
	}
}
