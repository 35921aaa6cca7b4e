package ingest

import (
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/expenseledger/receipt-extract/constants"
)

// Stats summarizes one directory scan.
type Stats struct {
	Scanned uint32
	Matched uint32
	Skipped uint32
}

// Scan walks root and returns the receipt images under it, in walk order.
// Hidden files and directories are skipped, as are files whose extension is
// not an accepted image type. Unreadable entries are counted and skipped
// rather than aborting the scan.
func Scan(root string, logger *slog.Logger) ([]string, Stats, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(root) == "" {
		return nil, Stats{}, errors.New("root directory is required")
	}

	var (
		files []string
		stats Stats
	)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			logger.Warn("ingest.scan.entry_failed", "path", path, "error", walkErr)
			stats.Skipped++
			return nil
		}
		if isHidden(path) && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			stats.Skipped++
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !constants.IsAllowedExt(filepath.Ext(path)) {
			stats.Skipped++
			return nil
		}
		stats.Matched++
		files = append(files, path)
		return nil
	})
	if err != nil {
		return files, stats, err
	}

	logger.Info("ingest.scan.done",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"skipped", stats.Skipped,
	)
	return files, stats, nil
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
