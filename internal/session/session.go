// Package session owns the live document collection of one docfind
// run: it coordinates scanning, incremental updates, and searches over
// a shared in-memory index.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/docfind/docfind/internal/cache"
	"github.com/docfind/docfind/internal/config"
	"github.com/docfind/docfind/internal/errors"
	"github.com/docfind/docfind/internal/index"
	"github.com/docfind/docfind/internal/ingest"
	"github.com/docfind/docfind/internal/scan"
	"github.com/docfind/docfind/internal/search"
	"github.com/docfind/docfind/internal/segment"
)

// Session holds the indexed collection and serves operations over it.
// Methods are safe for concurrent use; scans additionally take a
// cross-process lock on the cache directory.
type Session struct {
	mu sync.RWMutex

	// writeMu serializes collection writers. A full scan holds it for
	// its whole run so an incremental add cannot land between the
	// scanner finishing and the swap, where the swap would discard it.
	writeMu sync.Mutex

	cfg     *config.Config
	store   *cache.Store
	seg     segment.Segmenter
	ing     *ingest.Ingester
	scanner *scan.Scanner
	engine  *search.Engine
	lock    *ScanLock

	docs []*index.Document
	inv  index.Inverted
}

// Stats summarizes the current collection.
type Stats struct {
	Documents int
	Terms     int
	Failed    int
	Elapsed   time.Duration
}

// New wires a session from configuration. The sego segmenter is used
// when a dictionary is configured, the unicode segmenter otherwise.
func New(cfg *config.Config) (*Session, error) {
	store, err := cache.Open(cfg.CacheDBPath())
	if err != nil {
		return nil, err
	}

	var seg segment.Segmenter
	if cfg.Segmenter.DictPath != "" {
		seg, err = segment.NewSegoSegmenter(cfg.Segmenter.DictPath)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		slog.Info("segmenter_loaded", slog.String("dict", cfg.Segmenter.DictPath))
	} else {
		seg = segment.NewSimpleSegmenter()
	}

	ing := ingest.New(store, seg, ingest.Options{
		Deadline:      time.Duration(cfg.Ingest.DeadlineSeconds) * time.Second,
		MemoryLimitMB: cfg.Ingest.MemoryLimitMB,
		MaxPDFPages:   cfg.Ingest.MaxPDFPages,
	})

	scanner := scan.New(ing, scan.Options{
		Workers:      cfg.Scan.Workers,
		MinBatchSize: cfg.Scan.MinBatchSize,
		MaxBatchSize: cfg.Scan.MaxBatchSize,
		MaxPathDepth: cfg.Scan.MaxPathDepth,
	})

	return &Session{
		cfg:     cfg,
		store:   store,
		seg:     seg,
		ing:     ing,
		scanner: scanner,
		engine:  search.NewEngine(seg),
		lock:    NewScanLock(cfg.Cache.Dir),
		inv:     index.Inverted{},
	}, nil
}

// Scan indexes the tree at root, replacing the current collection.
// In-process writers queue behind the scan; concurrent scans from
// other processes sharing the cache directory are rejected.
func (s *Session) Scan(ctx context.Context, root string) (Stats, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	acquired, err := s.lock.TryLock()
	if err != nil {
		return Stats{}, errors.Wrap(errors.ErrCodeInternal, err)
	}
	if !acquired {
		return Stats{}, errors.New(errors.ErrCodeInternal,
			"another scan is already running against this cache", nil)
	}
	defer func() { _ = s.lock.Unlock() }()

	res, err := s.scanner.Scan(ctx, root)
	if err != nil {
		return Stats{}, err
	}

	s.mu.Lock()
	s.docs = res.Docs
	s.inv = res.Index
	s.engine.SetCorpus(s.docs, s.inv)
	s.mu.Unlock()

	return Stats{
		Documents: len(res.Docs),
		Terms:     len(res.Index),
		Failed:    res.Failed,
		Elapsed:   res.Elapsed,
	}, nil
}

// Search ranks the collection against query.
func (s *Session) Search(query string) []search.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Search(query)
}

// AddFile ingests one file into the existing collection. A new path is
// appended under the next document id; a re-added path is reprocessed
// and the index rebuilt so stale postings never linger. An add issued
// while a scan is running waits for the scan to finish.
func (s *Session) AddFile(ctx context.Context, path string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := -1
	for i, doc := range s.docs {
		if doc.Path == path {
			existing = i
			break
		}
	}
	if existing >= 0 {
		if err := s.store.Invalidate(ctx, path); err != nil {
			slog.Warn("cache_invalidate_failed",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
	}

	doc, err := s.ing.Process(ctx, path)
	if err != nil {
		return err
	}

	if existing >= 0 {
		s.docs[existing] = doc
		s.inv = index.Build(s.docs)
	} else {
		s.docs = append(s.docs, doc)
		index.Append(s.inv, doc, len(s.docs)-1)
	}
	s.engine.SetCorpus(s.docs, s.inv)

	slog.Info("document_added",
		slog.String("path", path),
		slog.Int("documents", len(s.docs)))
	return nil
}

// Progress exposes scan progress for concurrent observers.
func (s *Session) Progress() scan.Snapshot {
	return s.scanner.Progress().Snapshot()
}

// Stats reports the current collection size.
func (s *Session) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{Documents: len(s.docs), Terms: len(s.inv)}
}

// Document returns the indexed document for a result id.
func (s *Session) Document(docID int) (*index.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if docID < 0 || docID >= len(s.docs) {
		return nil, false
	}
	return s.docs[docID], true
}

// ClearCache drops every persisted cache entry.
func (s *Session) ClearCache(ctx context.Context) error {
	return s.store.ClearAll(ctx)
}

// CacheCount reports how many entries the persistent cache holds.
func (s *Session) CacheCount(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// Close releases the cache handle.
func (s *Session) Close() error {
	return s.store.Close()
}
