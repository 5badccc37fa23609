// Package scan enumerates a document tree and processes it into an
// indexed collection. Word documents are processed first, then PDFs,
// in batches handed to a bounded worker pool. Document ids follow
// enumeration order so repeated scans of an unchanged tree produce
// identical indexes regardless of worker count.
package scan

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/docfind/docfind/internal/extract"
	"github.com/docfind/docfind/internal/index"
)

// Options configures a Scanner.
type Options struct {
	// Workers overrides the computed pool size when positive.
	Workers int
	// MinBatchSize and MaxBatchSize bound files per batch.
	MinBatchSize int
	MaxBatchSize int
	// MaxPathDepth bounds the scan root's depth.
	MaxPathDepth int
}

// Processor ingests a single file. Implemented by ingest.Ingester.
type Processor interface {
	Process(ctx context.Context, path string) (*index.Document, error)
}

// Scanner builds a document collection and inverted index from a tree.
type Scanner struct {
	proc     Processor
	opts     Options
	progress *Progress
}

// Result is the outcome of one scan.
type Result struct {
	Docs    []*index.Document
	Index   index.Inverted
	Failed  int
	Elapsed time.Duration
}

// New returns a Scanner running files through proc.
func New(proc Processor, opts Options) *Scanner {
	if opts.MinBatchSize <= 0 {
		opts.MinBatchSize = 10
	}
	if opts.MaxBatchSize < opts.MinBatchSize {
		opts.MaxBatchSize = 20
	}
	if opts.MaxPathDepth <= 0 {
		opts.MaxPathDepth = 20
	}
	return &Scanner{proc: proc, opts: opts, progress: NewProgress()}
}

// Progress exposes the scanner's progress tracker for concurrent reads.
func (s *Scanner) Progress() *Progress { return s.progress }

// Scan walks root, processes every supported document, and builds the
// inverted index over the aggregated collection. A failed enumeration
// returns an empty result and the error; individual file failures are
// logged and skipped.
func (s *Scanner) Scan(ctx context.Context, root string) (*Result, error) {
	start := time.Now()

	abs, err := ValidateRoot(root, s.opts.MaxPathDepth)
	if err != nil {
		return &Result{Index: index.Inverted{}}, err
	}

	s.progress.start(0)
	wordFiles, pdfFiles, err := enumerate(abs, s.opts.MaxPathDepth)
	if err != nil {
		slog.Error("scan_enumeration_failed",
			slog.String("root", abs),
			slog.String("error", err.Error()))
		return &Result{Index: index.Inverted{}}, err
	}
	s.progress.setTotal(len(wordFiles) + len(pdfFiles))

	slog.Info("scan_started",
		slog.String("root", abs),
		slog.Int("word_files", len(wordFiles)),
		slog.Int("pdf_files", len(pdfFiles)))

	return s.process(ctx, start, wordFiles, pdfFiles)
}

// ScanFiles processes an explicit file list instead of walking a tree.
// Unsupported paths are ignored. Phase and ordering rules match Scan.
func (s *Scanner) ScanFiles(ctx context.Context, paths []string) (*Result, error) {
	start := time.Now()

	var wordFiles, pdfFiles []string
	for _, p := range paths {
		abs, err := ValidateFile(p, s.opts.MaxPathDepth)
		if err != nil {
			slog.Warn("path_rejected",
				slog.String("path", p),
				slog.String("error", err.Error()))
			continue
		}
		switch t, ok := extract.DetectType(abs); {
		case ok && t == index.DocTypeWord:
			wordFiles = append(wordFiles, abs)
		case ok && t == index.DocTypePDF:
			pdfFiles = append(pdfFiles, abs)
		}
	}
	sort.Strings(wordFiles)
	sort.Strings(pdfFiles)

	s.progress.start(len(wordFiles) + len(pdfFiles))
	return s.process(ctx, start, wordFiles, pdfFiles)
}

func (s *Scanner) process(ctx context.Context, start time.Time, wordFiles, pdfFiles []string) (*Result, error) {
	workers := PoolSize(s.opts.Workers)
	batchSize := s.batchSize(len(wordFiles) + len(pdfFiles))

	var docs []*index.Document
	failed := 0

	runPhase := func(phase Phase, files []string) error {
		phaseTotal := len(files)
		done := 0
		for len(files) > 0 {
			if err := ctx.Err(); err != nil {
				return err
			}

			n := batchSize
			if n > len(files) {
				n = len(files)
			}
			batch := files[:n]
			files = files[n:]

			results, errs := runBatch(ctx, batch, workers, s.proc.Process)
			ok := 0
			for i, doc := range results {
				if doc != nil {
					docs = append(docs, doc)
					ok++
					continue
				}
				failed++
				if errs[i] != nil {
					slog.Warn("document_skipped",
						slog.String("path", batch[i]),
						slog.String("error", errs[i].Error()))
				}
			}

			done += n
			s.progress.update(phase, done, phaseTotal, ok, n-ok)
		}
		return nil
	}

	if err := runPhase(PhaseWord, wordFiles); err != nil {
		return &Result{Docs: docs, Index: index.Build(docs), Failed: failed}, err
	}
	if err := runPhase(PhasePDF, pdfFiles); err != nil {
		return &Result{Docs: docs, Index: index.Build(docs), Failed: failed}, err
	}

	inv := index.Build(docs)
	s.progress.finish()

	elapsed := time.Since(start)
	slog.Info("scan_completed",
		slog.Int("documents", len(docs)),
		slog.Int("failed", failed),
		slog.Int("terms", len(inv)),
		slog.Duration("elapsed", elapsed))

	return &Result{Docs: docs, Index: inv, Failed: failed, Elapsed: elapsed}, nil
}

// batchSize picks how many files form one worker batch, within the
// configured bounds.
func (s *Scanner) batchSize(totalFiles int) int {
	size := s.opts.MinBatchSize
	if totalFiles > 200 {
		size = s.opts.MaxBatchSize
	}
	return size
}

// enumerate walks root collecting supported files, sorted per type so
// document ids are stable across runs. Entries failing validation are
// skipped with a warning.
func enumerate(root string, maxDepth int) (wordFiles, pdfFiles []string, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.Type()&fs.ModeSymlink != 0 {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		t, ok := extract.DetectType(path)
		if !ok {
			return nil
		}
		abs, verr := ValidateFile(path, maxDepth)
		if verr != nil {
			slog.Warn("path_rejected",
				slog.String("path", path),
				slog.String("error", verr.Error()))
			return nil
		}
		if t == index.DocTypeWord {
			wordFiles = append(wordFiles, abs)
		} else {
			pdfFiles = append(pdfFiles, abs)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	sort.Strings(wordFiles)
	sort.Strings(pdfFiles)
	return wordFiles, pdfFiles, nil
}
