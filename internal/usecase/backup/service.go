package backup

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/eslsoft/vocquiz/internal/entity"
	"github.com/eslsoft/vocquiz/internal/repository"
)

// FormatVersion is written into every JSON backup.
const FormatVersion = "1.0"

// Format selects the backup encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a user supplied format name.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatXLSX, "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("backup: unsupported format %q", raw)
	}
}

// Section names a part of the backup.
type Section string

const (
	SectionWords   Section = "words"
	SectionHistory Section = "history"
)

var (
	errNoSectionsSelected = errors.New("backup: no sections selected")
	gzipMagic             = []byte{0x1f, 0x8b}
	zipMagic              = []byte("PK\x03\x04")
)

// WordSource is the slice of the word usecase a backup needs.
type WordSource interface {
	ListWords(ctx context.Context, query *repository.ListWordQuery) ([]entity.Word, int, error)
	ImportWords(ctx context.Context, drafts []entity.WordDraft) (repository.ImportReport, error)
}

// HistorySource is the slice of the history usecase a backup needs.
type HistorySource interface {
	ListHistory(ctx context.Context) ([]entity.HistoryEntry, error)
	ImportHistory(ctx context.Context, entries []entity.HistoryEntry) (repository.ImportReport, error)
}

// Service writes and restores learner data backups.
type Service struct {
	words   WordSource
	history HistorySource
	clock   func() time.Time
}

type Option func(*Service)

// WithClock overrides the time stamped into exports.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewService(words WordSource, history HistorySource, opts ...Option) *Service {
	svc := &Service{words: words, history: history, clock: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type ExportOption func(*exportConfig)

type exportConfig struct {
	format   Format
	gzip     bool
	sections []Section
}

// WithFormat picks the export encoding; JSON is the default.
func WithFormat(format Format) ExportOption {
	return func(cfg *exportConfig) {
		if format != "" {
			cfg.format = format
		}
	}
}

// WithGzip compresses the export.
func WithGzip(enabled bool) ExportOption {
	return func(cfg *exportConfig) {
		cfg.gzip = enabled
	}
}

// WithSections restricts export to the named sections.
func WithSections(sections []Section) ExportOption {
	return func(cfg *exportConfig) {
		if len(sections) == 0 {
			return
		}
		cfg.sections = append([]Section{}, sections...)
	}
}

type ImportOption func(*importConfig)

type importConfig struct {
	sections []Section
}

// WithImportSections restricts import to the named sections.
func WithImportSections(sections []Section) ImportOption {
	return func(cfg *importConfig) {
		if len(sections) == 0 {
			return
		}
		cfg.sections = append([]Section{}, sections...)
	}
}

// ExportSummary counts what was written.
type ExportSummary struct {
	Words   int
	History int
}

// ImportSummary reports what the repositories accepted.
type ImportSummary struct {
	Words   repository.ImportReport
	History repository.ImportReport
}

func (s *Service) Export(ctx context.Context, w io.Writer, opts ...ExportOption) (*ExportSummary, error) {
	cfg := exportConfig{format: FormatJSON}
	for _, opt := range opts {
		opt(&cfg)
	}
	sections, err := selectSections(cfg.sections)
	if err != nil {
		return nil, err
	}

	snap, err := s.snapshot(ctx, sections)
	if err != nil {
		return nil, err
	}

	out := w
	var zw *gzip.Writer
	if cfg.gzip {
		zw = gzip.NewWriter(w)
		out = zw
	}
	writer := bufio.NewWriter(out)

	switch cfg.format {
	case FormatJSON:
		err = writeDocument(writer, snap)
	case FormatXLSX:
		err = writeWorkbook(writer, snap)
	default:
		err = fmt.Errorf("backup: unsupported format %q", cfg.format)
	}
	if err != nil {
		return nil, err
	}
	if err := writer.Flush(); err != nil {
		return nil, fmt.Errorf("flush backup: %w", err)
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("close gzip: %w", err)
		}
	}
	return &ExportSummary{Words: len(snap.words), History: len(snap.history)}, nil
}

// Import restores a backup. Gzip compression and the XLSX encoding are detected from the
// content.
func (s *Service) Import(ctx context.Context, r io.Reader, opts ...ImportOption) (*ImportSummary, error) {
	cfg := importConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	sections, err := selectSections(cfg.sections)
	if err != nil {
		return nil, err
	}

	br := bufio.NewReader(r)
	if head, _ := br.Peek(len(gzipMagic)); bytes.Equal(head, gzipMagic) {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("open gzip: %w", err)
		}
		defer zr.Close()
		br = bufio.NewReader(zr)
	}

	var snap *snapshot
	if head, _ := br.Peek(len(zipMagic)); bytes.Equal(head, zipMagic) {
		snap, err = readWorkbook(br)
	} else {
		snap, err = readDocument(br)
	}
	if err != nil {
		return nil, err
	}

	summary := &ImportSummary{}
	if lo.Contains(sections, SectionWords) {
		if len(snap.drafts) > 0 {
			if summary.Words, err = s.words.ImportWords(ctx, snap.drafts); err != nil {
				return nil, fmt.Errorf("import words: %w", err)
			}
		}
		summary.Words.Skipped += snap.skippedWords
	}
	if lo.Contains(sections, SectionHistory) {
		if len(snap.history) > 0 {
			if summary.History, err = s.history.ImportHistory(ctx, snap.history); err != nil {
				return nil, fmt.Errorf("import history: %w", err)
			}
		}
		summary.History.Skipped += snap.skippedHistory
	}
	return summary, nil
}

// snapshot is the decoded content of a backup, independent of its encoding.
type snapshot struct {
	exportedAt time.Time
	words      []entity.Word
	drafts     []entity.WordDraft
	history    []entity.HistoryEntry

	// records that could not be decoded and were left out
	skippedWords   int
	skippedHistory int
}

func (s *Service) snapshot(ctx context.Context, sections []Section) (*snapshot, error) {
	snap := &snapshot{exportedAt: s.clock()}
	if lo.Contains(sections, SectionWords) {
		words, _, err := s.words.ListWords(ctx, &repository.ListWordQuery{})
		if err != nil {
			return nil, fmt.Errorf("list words: %w", err)
		}
		snap.words = words
	}
	if lo.Contains(sections, SectionHistory) {
		entries, err := s.history.ListHistory(ctx)
		if err != nil {
			return nil, fmt.Errorf("list history: %w", err)
		}
		snap.history = entries
	}
	return snap, nil
}

func selectSections(requested []Section) ([]Section, error) {
	if len(requested) == 0 {
		return []Section{SectionWords, SectionHistory}, nil
	}
	out := make([]Section, 0, len(requested))
	for _, sec := range requested {
		sec = Section(strings.ToLower(strings.TrimSpace(string(sec))))
		switch sec {
		case "":
			continue
		case SectionWords, SectionHistory:
			out = append(out, sec)
		default:
			return nil, fmt.Errorf("backup: unsupported section %q", sec)
		}
	}
	out = lo.Uniq(out)
	if len(out) == 0 {
		return nil, errNoSectionsSelected
	}
	return out, nil
}
