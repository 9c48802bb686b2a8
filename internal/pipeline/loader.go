package pipeline

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/goalpost/internal/ledger"
	"github.com/theirongolddev/goalpost/internal/model"
)

// LoadResult holds the output of reading a ledger directory.
type LoadResult struct {
	Transactions []model.Transaction
	TotalFiles   int
	ParsedFiles  int
	ParseErrors  int
	FileErrors   int
	AccountCount int
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Load discovers and parses every ledger file under dir without touching the store.
func Load(dir string, progressFn ProgressFunc) (*LoadResult, error) {
	files, err := ledger.ScanDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	result := &LoadResult{
		TotalFiles:   len(files),
		AccountCount: ledger.CountAccounts(files),
	}
	if len(files) == 0 {
		return result, nil
	}

	for _, pr := range parseFiles(files, 0, len(files), progressFn) {
		if pr.Err != nil {
			result.FileErrors++
			continue
		}
		result.ParsedFiles++
		result.ParseErrors += pr.ParseErrors
		result.Transactions = append(result.Transactions, pr.Transactions...)
	}

	return result, nil
}

// parseFiles parses files with a bounded worker pool. Results keep the input order.
// offset and total shape the progress callback when part of the set was skipped.
func parseFiles(files []ledger.DiscoveredFile, offset, total int, progressFn ProgressFunc) []ledger.ParseResult {
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make([]ledger.ParseResult, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range files {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = ledger.ParseFile(files[idx])
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n)+offset, total)
				}
			}
		}()
	}

	wg.Wait()
	return results
}
