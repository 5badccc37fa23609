package ingest

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docfind/docfind/internal/cache"
	doferr "github.com/docfind/docfind/internal/errors"
	"github.com/docfind/docfind/internal/index"
	"github.com/docfind/docfind/internal/segment"
)

func writeDocx(t *testing.T, dir, name string, paragraphs []string) string {
	t.Helper()

	var body string
	for _, p := range paragraphs {
		body += `<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`
	}
	documentXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>` + body + `</w:body></w:document>`

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return path
}

func newTestIngester(t *testing.T) (*Ingester, *cache.Store) {
	t.Helper()
	store, err := cache.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return New(store, segment.NewSimpleSegmenter(), Options{}), store
}

func TestProcess_WordDocument(t *testing.T) {
	ing, _ := newTestIngester(t)
	path := writeDocx(t, t.TempDir(), "fruit.docx", []string{"apple banana apple"})

	doc, err := ing.Process(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, index.DocTypeWord, doc.Type)
	assert.Equal(t, "apple banana apple", doc.Content)
	assert.Equal(t, map[string][]int{
		"apple":  {0, 2},
		"banana": {1},
	}, doc.WordPositions)
	assert.Equal(t, 3, doc.TotalWords())
	assert.Greater(t, doc.ProcessTime, time.Duration(0))
}

func TestProcess_PopulatesAndUsesCache(t *testing.T) {
	ing, store := newTestIngester(t)
	ctx := context.Background()
	path := writeDocx(t, t.TempDir(), "fruit.docx", []string{"apple banana"})

	first, err := ing.Process(ctx, path)
	require.NoError(t, err)

	// The entry landed in the cache.
	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// A second run hits the cache and returns equal positions.
	second, err := ing.Process(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, first.WordPositions, second.WordPositions)
	assert.Equal(t, first.Content, second.Content)
}

func TestProcess_MissingFile(t *testing.T) {
	ing, _ := newTestIngester(t)

	_, err := ing.Process(context.Background(), filepath.Join(t.TempDir(), "gone.docx"))

	require.Error(t, err)
	assert.Equal(t, doferr.ErrCodeFileAccess, doferr.GetCode(err))
}

func TestProcess_UnsupportedExtension(t *testing.T) {
	ing, _ := newTestIngester(t)
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))

	_, err := ing.Process(context.Background(), path)

	require.Error(t, err)
	assert.Equal(t, doferr.ErrCodeInvalidPath, doferr.GetCode(err))
}

func TestProcess_NilCacheStillWorks(t *testing.T) {
	ing := New(nil, segment.NewSimpleSegmenter(), Options{})
	path := writeDocx(t, t.TempDir(), "fruit.docx", []string{"cherry"})

	doc, err := ing.Process(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, map[string][]int{"cherry": {0}}, doc.WordPositions)
}

func TestProcess_ZeroDeadlineFailsFast(t *testing.T) {
	// A negative nominal deadline is replaced by the default in New, so
	// build the ingester directly with an expired deadline.
	ing := &Ingester{seg: segment.NewSimpleSegmenter(), opts: Options{
		Deadline:      time.Nanosecond,
		MemoryLimitMB: 1024,
		MaxPDFPages:   50,
	}}

	// Enough tokens to reach the first guard check.
	var paragraphs []string
	line := ""
	for i := 0; i < 200; i++ {
		line += "alpha beta gamma delta epsilon "
	}
	paragraphs = append(paragraphs, line)
	path := writeDocx(t, t.TempDir(), "big.docx", paragraphs)

	_, err := ing.Process(context.Background(), path)

	require.Error(t, err)
	assert.Equal(t, doferr.ErrCodeTimeout, doferr.GetCode(err))
}

func TestScaleDeadline(t *testing.T) {
	const mb = 1024 * 1024
	tests := []struct {
		name    string
		nominal time.Duration
		size    int64
		docType index.DocType
		want    time.Duration
	}{
		{"small word file", 180 * time.Second, 1 * mb, index.DocTypeWord, 180 * time.Second},
		{"large word file doubled", 180 * time.Second, 150 * mb, index.DocTypeWord, 360 * time.Second},
		{"doubling capped at 600s", 400 * time.Second, 150 * mb, index.DocTypeWord, 600 * time.Second},
		{"large pdf capped at 300s", 180 * time.Second, 60 * mb, index.DocTypePDF, 180 * time.Second},
		{"large pdf doubled then capped", 180 * time.Second, 150 * mb, index.DocTypePDF, 300 * time.Second},
		{"small pdf untouched", 180 * time.Second, 10 * mb, index.DocTypePDF, 180 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scaleDeadline(tt.nominal, tt.size, tt.docType))
		})
	}
}

func TestTokenBatchSize(t *testing.T) {
	const mb = 1024 * 1024
	tests := []struct {
		size int64
		want int
	}{
		{0, 5000},         // sub-MB clamps to 1MB, 1000000/1 capped at 5000
		{1 * mb, 5000},    // 1000000/1 capped
		{500 * mb, 2000},  // 1000000/500
		{2000 * mb, 1000}, // 1000000/2000 raised to floor
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tokenBatchSize(tt.size), "size=%d", tt.size)
	}
}
