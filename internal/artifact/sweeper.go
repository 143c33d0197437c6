package artifact

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/event-report-manager/backend/internal/storage"
	"github.com/event-report-manager/backend/internal/websocket"
)

// sweepGracePeriod protects files that were written very recently. A render
// in flight may produce a file for an event whose dates changed mid-sweep.
const sweepGracePeriod = time.Hour

// Sweeper periodically removes orphaned report PDFs: files in the artifact
// directory whose name no longer matches any report's canonical key, which
// happens when an event is renamed or deleted after rendering.
type Sweeper struct {
	cron        *cron.Cron
	reportRepo  *storage.ReportRepository
	broadcaster *websocket.EventBroadcaster
	pdfDir      string
	spec        string
}

// NewSweeper creates a sweeper running on the given cron spec. The
// broadcaster may be nil; sweep results are then only logged.
func NewSweeper(reportRepo *storage.ReportRepository, broadcaster *websocket.EventBroadcaster, pdfDir, spec string) *Sweeper {
	return &Sweeper{
		cron:        cron.New(),
		reportRepo:  reportRepo,
		broadcaster: broadcaster,
		pdfDir:      pdfDir,
		spec:        spec,
	}
}

// Start begins the sweep schedule.
func (s *Sweeper) Start() error {
	if s.spec == "" {
		log.Println("Artifact sweeper disabled (no schedule configured)")
		return nil
	}

	if _, err := s.cron.AddFunc(s.spec, func() {
		if n, err := s.Sweep(context.Background()); err != nil {
			log.Printf("Artifact sweep failed: %v", err)
		} else if n > 0 {
			log.Printf("Artifact sweep removed %d orphaned file(s)", n)
			s.broadcaster.BroadcastNotification("info", "Artifact sweep",
				fmt.Sprintf("Removed %d stale report document(s)", n))
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("Artifact sweeper started (schedule: %s)", s.spec)
	return nil
}

// Stop gracefully shuts down the sweeper.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Sweep removes orphaned PDFs and returns how many files were deleted.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	keys, err := s.reportRepo.ListArtifactKeys(ctx)
	if err != nil {
		return 0, err
	}

	reachable := make(map[string]bool, len(keys))
	for _, k := range keys {
		reachable[PDFFilename(k.EventName, k.Start)] = true
	}

	entries, err := os.ReadDir(s.pdfDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".pdf") {
			continue
		}
		if reachable[e.Name()] {
			continue
		}

		info, err := e.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) < sweepGracePeriod {
			continue
		}

		if err := os.Remove(filepath.Join(s.pdfDir, e.Name())); err != nil {
			log.Printf("Failed to remove orphaned artifact %s: %v", e.Name(), err)
			continue
		}
		removed++
	}

	return removed, nil
}
