package analyzer

import (
	"sync"
)

// BatchResult pairs a path with its analysis or skip reason.
type BatchResult struct {
	Path     string
	Analysis *FileAnalysis
	Err      error
}

// AnalyzeBatch analyzes files in fixed-width batches. Within a batch the
// files run concurrently and order-insensitively; batch N+1 does not start
// until batch N has fully completed. Per-file failures are recorded and
// skipped rather than aborting the run. Results come back in input order.
func (a *Analyzer) AnalyzeBatch(paths []string, batchWidth int, progress func(BatchResult)) []BatchResult {
	if batchWidth < 1 {
		batchWidth = 1
	}

	results := make([]BatchResult, len(paths))

	for start := 0; start < len(paths); start += batchWidth {
		end := start + batchWidth
		if end > len(paths) {
			end = len(paths)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				analysis, err := a.AnalyzeFile(paths[idx])
				results[idx] = BatchResult{Path: paths[idx], Analysis: analysis, Err: err}
			}(i)
		}
		wg.Wait()

		// Aggregation callbacks happen after the batch settles, never
		// interleaved with in-flight workers.
		if progress != nil {
			for i := start; i < end; i++ {
				progress(results[i])
			}
		}
	}

	return results
}

// Successful filters a batch down to the analyses that completed. Failed
// files are excluded from scoring but remain visible in the raw results.
func Successful(results []BatchResult) []*FileAnalysis {
	analyses := make([]*FileAnalysis, 0, len(results))
	for _, r := range results {
		if r.Err == nil && r.Analysis != nil {
			analyses = append(analyses, r.Analysis)
		}
	}
	return analyses
}
