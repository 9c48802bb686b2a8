package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/goalpost/internal/ledger"
	"github.com/theirongolddev/goalpost/internal/logging"
	"github.com/theirongolddev/goalpost/internal/store"
)

// ImportResult extends LoadResult with file-tracker metadata.
// Transactions holds only the records parsed in this run.
type ImportResult struct {
	LoadResult
	Unchanged int
	Reparsed  int
	Removed   int
}

// LoadWithStore discovers ledger files under dir, diffs them against the store's
// file tracker, parses only changed files and writes them back. Files that were
// tracked under dir but have since disappeared are forgotten.
func LoadWithStore(dir string, st *store.Store, log logging.Logger, progressFn ProgressFunc) (*ImportResult, error) {
	if log == nil {
		log = logging.Nop()
	}

	files, err := ledger.ScanDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	result := &ImportResult{
		LoadResult: LoadResult{
			TotalFiles:   len(files),
			AccountCount: ledger.CountAccounts(files),
		},
	}

	tracked, err := st.GetTrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading file tracker: %w", err)
	}

	var toReparse []ledger.DiscoveredFile
	var infos []store.FileInfo
	seen := make(map[string]struct{}, len(files))

	for _, f := range files {
		seen[f.Path] = struct{}{}
		info, err := os.Stat(f.Path)
		if err != nil {
			result.FileErrors++
			continue
		}

		fi := store.FileInfo{MtimeNs: info.ModTime().UnixNano(), SizeBytes: info.Size()}
		if cached, ok := tracked[f.Path]; ok && cached == fi {
			result.Unchanged++
			continue
		}
		toReparse = append(toReparse, f)
		infos = append(infos, fi)
	}
	result.Reparsed = len(toReparse)

	if len(toReparse) > 0 {
		for i, pr := range parseFiles(toReparse, result.Unchanged, result.TotalFiles, progressFn) {
			flog := log.WithField(logging.FieldFile, pr.Path)
			if pr.Err != nil {
				result.FileErrors++
				flog.WithError(pr.Err).Warn("ledger file skipped")
				continue
			}
			result.ParsedFiles++
			result.ParseErrors += pr.ParseErrors
			if pr.ParseErrors > 0 {
				flog.Warn("ledger rows skipped", logging.F(logging.FieldCount, pr.ParseErrors))
			}

			if err := st.ReplaceFile(pr.Path, infos[i], pr.Transactions); err != nil {
				return nil, fmt.Errorf("saving %s: %w", pr.Path, err)
			}
			result.Transactions = append(result.Transactions, pr.Transactions...)
		}
	}

	// Forget files that vanished from dir
	absDir, _ := filepath.Abs(dir)
	for path := range tracked {
		if _, ok := seen[path]; ok {
			continue
		}
		if !underDir(path, dir) && !underDir(path, absDir) {
			continue
		}
		if err := st.ForgetFile(path); err != nil {
			return nil, fmt.Errorf("forgetting %s: %w", path, err)
		}
		result.Removed++
	}

	log.Info("ledger import finished",
		logging.F(logging.FieldCount, len(result.Transactions)),
		logging.F("reparsed", result.Reparsed),
		logging.F("unchanged", result.Unchanged),
		logging.F("removed", result.Removed))

	return result, nil
}

func underDir(path, dir string) bool {
	if dir == "" {
		return false
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// DataDir returns the platform-appropriate data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "goalpost")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "goalpost")
}

// DBPath returns the default path of the goalpost database.
func DBPath() string {
	return filepath.Join(DataDir(), "goalpost.db")
}
