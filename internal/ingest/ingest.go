// Package ingest processes one file into a Document under resource
// bounds: a per-file deadline scaled to file size and a cap on memory
// growth during tokenization.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/docfind/docfind/internal/cache"
	"github.com/docfind/docfind/internal/errors"
	"github.com/docfind/docfind/internal/extract"
	"github.com/docfind/docfind/internal/index"
	"github.com/docfind/docfind/internal/segment"
)

const (
	// guardInterval is how many tokens pass between deadline and
	// memory checks.
	guardInterval = 1000

	minTokenBatch = 1000
	maxTokenBatch = 5000

	// largeFileBytes triggers deadline doubling.
	largeFileBytes = 100 * 1024 * 1024
	// largePDFBytes caps the deadline for oversized PDFs.
	largePDFBytes = 50 * 1024 * 1024

	maxScaledDeadline   = 600 * time.Second
	largePDFDeadlineCap = 300 * time.Second
)

// Options configures an Ingester.
type Options struct {
	// Deadline is the nominal per-file processing deadline before
	// size-based scaling.
	Deadline time.Duration
	// MemoryLimitMB bounds heap growth during one ingestion.
	MemoryLimitMB int
	// MaxPDFPages caps PDF extraction.
	MaxPDFPages int
}

// Ingester turns files into documents, consulting the cache first.
type Ingester struct {
	cache *cache.Store
	seg   segment.Segmenter
	opts  Options
}

// New returns an Ingester. cache may be nil to disable caching.
func New(store *cache.Store, seg segment.Segmenter, opts Options) *Ingester {
	if opts.Deadline <= 0 {
		opts.Deadline = 180 * time.Second
	}
	if opts.MemoryLimitMB <= 0 {
		opts.MemoryLimitMB = 1024
	}
	if opts.MaxPDFPages <= 0 {
		opts.MaxPDFPages = 50
	}
	return &Ingester{cache: store, seg: seg, opts: opts}
}

// Process ingests one file. On a cache hit the stored document is
// returned without re-extraction. Any failure returns a nil document
// and the error; callers decide whether to skip or abort.
func (ing *Ingester) Process(ctx context.Context, path string) (*index.Document, error) {
	start := time.Now()

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.FileAccessError(path, err)
	}

	docType, ok := extract.DetectType(path)
	if !ok {
		return nil, errors.Newf(errors.ErrCodeInvalidPath,
			"unsupported file type: %s", path)
	}

	if ing.cache != nil {
		doc, hit, err := ing.cache.Lookup(ctx, path)
		if err != nil {
			slog.Warn("cache_lookup_failed",
				slog.String("path", path),
				slog.String("error", err.Error()))
		} else if hit {
			slog.Debug("cache_hit", slog.String("path", path))
			return doc, nil
		}
	}

	deadline := scaleDeadline(ing.opts.Deadline, info.Size(), docType)

	var content string
	switch docType {
	case index.DocTypeWord:
		content, err = extract.Word(path)
	case index.DocTypePDF:
		content, err = extract.PDF(path, ing.opts.MaxPDFPages)
	}
	if err != nil {
		return nil, err
	}

	positions, err := ing.tokenize(ctx, path, content, info.Size(), start, deadline)
	if err != nil {
		return nil, err
	}

	doc := &index.Document{
		Path:          path,
		Content:       content,
		Type:          docType,
		WordPositions: positions,
		ProcessTime:   time.Since(start),
	}

	if ing.cache != nil {
		if err := ing.cache.Store(ctx, doc); err != nil {
			slog.Warn("cache_store_failed",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
	}
	return doc, nil
}

// scaleDeadline adapts the nominal deadline to file size. Files over
// 100MB get double time, capped at 10 minutes. PDFs over 50MB never get
// more than 5 minutes regardless of scaling.
func scaleDeadline(nominal time.Duration, size int64, docType index.DocType) time.Duration {
	deadline := nominal
	if size > largeFileBytes {
		deadline *= 2
		if deadline > maxScaledDeadline {
			deadline = maxScaledDeadline
		}
	}
	if docType == index.DocTypePDF && size > largePDFBytes && deadline > largePDFDeadlineCap {
		deadline = largePDFDeadlineCap
	}
	return deadline
}

// tokenBatchSize scales inversely with file size so large files are
// checked against their limits more often per byte processed.
func tokenBatchSize(sizeBytes int64) int {
	sizeMB := sizeBytes / (1024 * 1024)
	if sizeMB < 1 {
		sizeMB = 1
	}
	batch := int(1000000 / sizeMB)
	if batch < minTokenBatch {
		batch = minTokenBatch
	}
	if batch > maxTokenBatch {
		batch = maxTokenBatch
	}
	return batch
}

// tokenize pulls tokens from the segmenter and records positions,
// enforcing the deadline and memory limit every guardInterval tokens.
func (ing *Ingester) tokenize(ctx context.Context, path, content string, size int64, start time.Time, deadline time.Duration) (map[string][]int, error) {
	var baseline runtime.MemStats
	runtime.ReadMemStats(&baseline)

	batchSize := tokenBatchSize(size)
	positions := make(map[string][]int)
	stream := ing.seg.Segment(content)

	pos := 0
	for {
		// One batch of tokens, then a cancellation check.
		consumed := 0
		for consumed < batchSize {
			tok, more := stream.Next()
			if !more {
				return positions, nil
			}
			positions[tok] = append(positions[tok], pos)
			pos++
			consumed++

			if pos%guardInterval == 0 {
				if err := ing.checkGuards(path, start, deadline, &baseline); err != nil {
					return nil, err
				}
			}
		}

		select {
		case <-ctx.Done():
			return nil, errors.Wrap(errors.ErrCodeTimeout, ctx.Err())
		default:
		}
	}
}

func (ing *Ingester) checkGuards(path string, start time.Time, deadline time.Duration, baseline *runtime.MemStats) error {
	if elapsed := time.Since(start); elapsed > deadline {
		slog.Warn("ingest_deadline_exceeded",
			slog.String("path", path),
			slog.Duration("elapsed", elapsed),
			slog.Duration("deadline", deadline))
		return errors.TimeoutError(path, elapsed.Seconds())
	}

	var now runtime.MemStats
	runtime.ReadMemStats(&now)
	if now.HeapAlloc > baseline.HeapAlloc {
		growthMB := float64(now.HeapAlloc-baseline.HeapAlloc) / (1024 * 1024)
		if growthMB > float64(ing.opts.MemoryLimitMB) {
			slog.Warn("ingest_memory_limit_exceeded",
				slog.String("path", path),
				slog.String("growth_mb", fmt.Sprintf("%.1f", growthMB)))
			return errors.MemoryLimitError(path, growthMB)
		}
	}
	return nil
}
