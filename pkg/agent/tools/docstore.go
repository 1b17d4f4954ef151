package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrDocumentNotFound is returned by DocumentStore.Read for unknown names.
var ErrDocumentNotFound = errors.New("document not found")

// ErrNoInputDir is returned by DocumentStore.List when the input location
// itself is missing. Callers treat it as an empty, recoverable condition.
var ErrNoInputDir = errors.New("input directory does not exist")

// DocumentInfo describes one listed input document.
type DocumentInfo struct {
	Name string
	Kind string
	Size int64
}

// DocumentStore serves the interview input documents: the job description,
// the candidate's resume, and anything else the recruiter dropped in.
type DocumentStore interface {
	List(ctx context.Context) ([]DocumentInfo, error)
	Read(ctx context.Context, name string) (string, error)
}

// PDFExtractor pulls plain text out of a PDF file.
type PDFExtractor interface {
	ExtractText(path string) (string, error)
}

// FSStore reads documents from a single flat directory. Plain text and
// markdown are returned as-is; PDFs go through the extractor.
type FSStore struct {
	root    string
	extract PDFExtractor
}

// NewFSStore creates a store over dir. A nil extractor disables PDF support.
func NewFSStore(dir string, extractor PDFExtractor) *FSStore {
	return &FSStore{root: dir, extract: extractor}
}

func (s *FSStore) List(_ context.Context) ([]DocumentInfo, error) {
	entries, err := os.ReadDir(s.root)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoInputDir
	}
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}
	var docs []DocumentInfo
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !supportedDocument(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %q: %w", e.Name(), err)
		}
		docs = append(docs, DocumentInfo{
			Name: e.Name(),
			Kind: documentKind(e.Name()),
			Size: info.Size(),
		})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}

func (s *FSStore) Read(_ context.Context, name string) (string, error) {
	// Names come from the model; never let them escape the input directory.
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: %q", ErrDocumentNotFound, name)
	}
	if !supportedDocument(name) {
		return "", fmt.Errorf("unsupported document type: %q", name)
	}

	path := filepath.Join(s.root, name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %q", ErrDocumentNotFound, name)
	}

	if strings.EqualFold(filepath.Ext(name), ".pdf") {
		if s.extract == nil {
			return "", fmt.Errorf("no PDF extractor configured for %q", name)
		}
		text, err := s.extract.ExtractText(path)
		if err != nil {
			return "", fmt.Errorf("extract %q: %w", name, err)
		}
		return text, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %q: %w", name, err)
	}
	return string(data), nil
}

func supportedDocument(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".txt", ".md":
		return true
	default:
		return false
	}
}

func documentKind(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return "PDF"
	case ".md":
		return "Markdown"
	default:
		return "Text"
	}
}

// PlainPDFExtractor extracts text with the ledongthuc/pdf reader.
type PlainPDFExtractor struct{}

func (PlainPDFExtractor) ExtractText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
