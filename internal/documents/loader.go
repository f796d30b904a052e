package documents

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/veracitylab/veracity/pkg/formatting"
)

// Loader reads documents from the filesystem. Extraction failures never
// escape as errors: an unreadable file yields a placeholder document so one
// bad input cannot abort a batch.
type Loader struct {
	logger      *slog.Logger
	maxFileSize int64
}

// NewLoader creates a loader. maxFileSize bounds the size of files read in
// full; zero means unbounded.
func NewLoader(logger *slog.Logger, maxFileSize int64) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:      logger.With("system", "documents"),
		maxFileSize: maxFileSize,
	}
}

// LoadFile reads one document and classifies it. Text formats are read
// directly; PDFs go through pdfcpu content extraction. Any failure
// produces a placeholder document carrying the error in its metadata.
func (l *Loader) LoadFile(path string) Document {
	doc := Document{
		Filename: filepath.Base(path),
		Metadata: map[string]any{"path": path},
	}

	info, err := os.Stat(path)
	if err != nil {
		return l.placeholder(doc, err)
	}
	if l.maxFileSize > 0 && info.Size() > l.maxFileSize {
		err := fmt.Errorf("file size %s exceeds limit %s",
			formatting.FormatBytes(info.Size(), 1),
			formatting.FormatBytes(l.maxFileSize, 1))
		return l.placeholder(doc, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		content, err := extractPDF(path)
		if err != nil {
			return l.placeholder(doc, err)
		}
		doc.Content = content
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return l.placeholder(doc, err)
		}
		doc.Content = string(data)
	}

	doc.Type = Classify(doc)
	l.logger.Info("document loaded",
		"filename", doc.Filename,
		"type", doc.Type,
		"size", formatting.FormatBytes(info.Size(), 1),
	)
	return doc
}

// LoadDir loads every supported file in dir (non-recursive), sorted by
// filename so batch order is deterministic.
func (l *Loader) LoadDir(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read document directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".txt", ".md", ".pdf":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	docs := make([]Document, 0, len(paths))
	for _, path := range paths {
		docs = append(docs, l.LoadFile(path))
	}

	l.logger.Info("documents loaded", "dir", dir, "count", len(docs))
	return docs, nil
}

func (l *Loader) placeholder(doc Document, err error) Document {
	l.logger.Warn("document load failed",
		"filename", doc.Filename,
		"error", err,
	)
	doc.Content = ""
	doc.Type = TypeUnknown
	doc.Metadata["load_error"] = err.Error()
	return doc
}

// extractPDF pulls page content into a temp directory and concatenates the
// extracted files. The directory is removed when extraction finishes.
func extractPDF(path string) (string, error) {
	tempDir, err := os.MkdirTemp("", "veracity-extract-*")
	if err != nil {
		return "", fmt.Errorf("create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	if err := api.ExtractContentFile(path, tempDir, nil, nil); err != nil {
		return "", fmt.Errorf("extract pdf content: %w", err)
	}

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		return "", fmt.Errorf("read extracted content: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(tempDir, name))
		if err != nil {
			continue
		}
		sb.Write(data)
		sb.WriteByte('\n')
	}

	return sb.String(), nil
}
