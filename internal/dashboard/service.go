package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/spacesedan/sentidash/internal/db"
	"github.com/spacesedan/sentidash/internal/models"
	"github.com/spacesedan/sentidash/internal/sentiment"
	"golang.org/x/sync/errgroup"
)

var (
	ErrEmptyBatch   = errors.New("[DashboardService] batch has no non-blank lines")
	ErrNoHistory    = errors.New("[DashboardService] no history to export")
	ErrInvalidEntry = errors.New("[DashboardService] invalid history entry")
)

const (
	defaultBatchWorkers = 8

	// minIDStep keeps fractional ids apart at millisecond magnitudes.
	minIDStep = 1.0 / 1024

	// Stored scores are rounded to 2 decimals, so a score just past the
	// ±0.1 threshold can be stored as exactly ±0.1 with the outer label.
	labelSlack = 0.005
)

type Options struct {
	StripMarkdown bool
	BatchWorkers  int
	Random        sentiment.RandomSource
	Now           func() time.Time
}

// Service is the caller side of the scorer: it stamps results with timing
// facts and owns the history.
type Service struct {
	scorer        *sentiment.Scorer
	history       db.HistoryStore
	rand          sentiment.RandomSource
	now           func() time.Time
	stripMarkdown bool
	batchWorkers  int

	idMu   sync.Mutex
	lastID float64
}

func NewService(history db.HistoryStore, opts Options) *Service {
	if opts.Random == nil {
		opts.Random = sentiment.DefaultSource
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.BatchWorkers <= 0 {
		opts.BatchWorkers = defaultBatchWorkers
	}

	return &Service{
		scorer:        sentiment.NewScorer(sentiment.WithRandomSource(opts.Random)),
		history:       history,
		rand:          opts.Random,
		now:           opts.Now,
		stripMarkdown: opts.StripMarkdown,
		batchWorkers:  opts.BatchWorkers,
	}
}

// Analyze scores a single text. Blank input is rejected before scoring.
func (s *Service) Analyze(ctx context.Context, text string) (models.Analysis, error) {
	if err := ctx.Err(); err != nil {
		return models.Analysis{}, err
	}
	if strings.TrimSpace(text) == "" {
		return models.Analysis{}, sentiment.ErrEmptyInput
	}

	if s.stripMarkdown {
		text = sentiment.ConvertMarkdownToText(text)
	}

	start := time.Now()
	result, err := s.scorer.Score(text)
	if err != nil {
		return models.Analysis{}, err
	}

	return models.Analysis{
		AnalysisResult: result,
		ProcessingTime: float64(time.Since(start).Microseconds()) / 1000,
		Timestamp:      models.NewTimestamp(s.now()),
	}, nil
}

// AnalyzeBatch scores every non-blank line of input independently and
// returns the results in line order. Results are also saved to history.
func (s *Service) AnalyzeBatch(ctx context.Context, input string) ([]models.Analysis, error) {
	lines := SplitBatch(input)
	if len(lines) == 0 {
		return nil, ErrEmptyBatch
	}

	results := make([]models.Analysis, len(lines))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchWorkers)
	for i, line := range lines {
		g.Go(func() error {
			analysis, err := s.Analyze(gctx, line)
			if err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}
			results[i] = analysis
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := s.batchEntries(results)
	if err := s.history.Prepend(ctx, entries...); err != nil {
		return nil, fmt.Errorf("[DashboardService] failed to save batch to history: %w", err)
	}

	slog.Info("[DashboardService] Batch analysis completed",
		slog.Int("lines", len(lines)))
	return results, nil
}

// SplitBatch splits input on newlines and drops blank lines.
func SplitBatch(input string) []string {
	var lines []string
	for _, line := range strings.Split(input, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// batchEntries gives every result a fresh id, increasing with line order so
// later lines sort newer.
func (s *Service) batchEntries(results []models.Analysis) []models.HistoryEntry {
	ids := s.nextIDs(len(results))

	entries := make([]models.HistoryEntry, len(results))
	for i, analysis := range results {
		entries[i] = models.HistoryEntry{
			Analysis: analysis,
			ID:       ids[i],
		}
	}
	return entries
}

// nextIDs hands out n strictly increasing ids, all greater than any id this
// service handed out before. A lone id is the current Unix millisecond when
// that is still free; otherwise ids are fractions past the larger of now and
// the last id.
func (s *Service) nextIDs(n int) []float64 {
	if n <= 0 {
		return nil
	}

	s.idMu.Lock()
	defer s.idMu.Unlock()

	now := float64(s.now().UnixMilli())
	ids := make([]float64, n)
	if n == 1 && now > s.lastID {
		ids[0] = now
	} else {
		base := math.Max(now, s.lastID)
		step := math.Max(1/float64(n+1), minIDStep)
		for i := range ids {
			ids[i] = base + float64(i+1)*step
		}
	}
	s.lastID = ids[n-1]
	return ids
}

func (s *Service) SaveToHistory(ctx context.Context, analysis models.Analysis) (models.HistoryEntry, error) {
	if err := ValidateAnalysis(analysis); err != nil {
		return models.HistoryEntry{}, err
	}

	entry := models.HistoryEntry{
		Analysis: analysis,
		ID:       s.nextIDs(1)[0],
	}
	if err := s.history.Prepend(ctx, entry); err != nil {
		return models.HistoryEntry{}, fmt.Errorf("[DashboardService] failed to save to history: %w", err)
	}
	return entry, nil
}

func (s *Service) History(ctx context.Context) ([]models.HistoryEntry, error) {
	entries, err := s.history.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("[DashboardService] failed to load history: %w", err)
	}
	return entries, nil
}

func (s *Service) ClearHistory(ctx context.Context) error {
	if err := s.history.Clear(ctx); err != nil {
		return fmt.Errorf("[DashboardService] failed to clear history: %w", err)
	}
	slog.Info("[DashboardService] History cleared")
	return nil
}

// ImportHistory loads a previously exported history file. The file is
// newest first, and that order is kept. Imported entries get fresh ids above
// every id handed out so far, so they list first in every backend.
func (s *Service) ImportHistory(ctx context.Context, data []byte) (int, error) {
	var entries []models.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	for i, entry := range entries {
		if err := ValidateAnalysis(entry.Analysis); err != nil {
			return 0, fmt.Errorf("entry %d: %w", i, err)
		}
	}

	reversed := make([]models.HistoryEntry, len(entries))
	for i, entry := range entries {
		reversed[len(entries)-1-i] = entry
	}
	for i, id := range s.nextIDs(len(reversed)) {
		reversed[i].ID = id
	}
	if err := s.history.Prepend(ctx, reversed...); err != nil {
		return 0, fmt.Errorf("[DashboardService] failed to import history: %w", err)
	}

	slog.Info("[DashboardService] History imported", slog.Int("entries", len(entries)))
	return len(entries), nil
}

func (s *Service) ExportAnalysis(analysis models.Analysis) (models.Export, error) {
	return s.export("sentiment-analysis", analysis)
}

func (s *Service) ExportHistory(ctx context.Context) (models.Export, error) {
	entries, err := s.History(ctx)
	if err != nil {
		return models.Export{}, err
	}
	if len(entries) == 0 {
		return models.Export{}, ErrNoHistory
	}
	return s.export("sentiment-history", entries)
}

func (s *Service) export(prefix string, v any) (models.Export, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return models.Export{}, fmt.Errorf("[DashboardService] failed to encode export: %w", err)
	}
	return models.Export{
		Filename: fmt.Sprintf("%s-%s.json", prefix, s.now().UTC().Format(time.DateOnly)),
		Data:     data,
	}, nil
}

// Compare scores text with the keyword heuristic and with VADER.
func (s *Service) Compare(ctx context.Context, text string) (models.Comparison, error) {
	analysis, err := s.Analyze(ctx, text)
	if err != nil {
		return models.Comparison{}, err
	}

	reference := sentiment.ReferenceWithVADER(analysis.Text)
	return models.Comparison{
		Analysis:  analysis,
		Reference: reference,
		Agrees:    reference.Label == analysis.Sentiment.Label,
	}, nil
}

// ValidateAnalysis checks the invariants every stored analysis must keep.
func ValidateAnalysis(a models.Analysis) error {
	switch {
	case strings.TrimSpace(a.Text) == "":
		return fmt.Errorf("%w: empty text", ErrInvalidEntry)
	case a.Sentiment.Score < -1 || a.Sentiment.Score > 1:
		return fmt.Errorf("%w: score %v out of range", ErrInvalidEntry, a.Sentiment.Score)
	case !labelMatches(a.Sentiment.Label, a.Sentiment.Score):
		return fmt.Errorf("%w: label %q does not match score %v", ErrInvalidEntry, a.Sentiment.Label, a.Sentiment.Score)
	}
	for i, v := range a.Emotions.Values() {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: emotion %s=%v out of range", ErrInvalidEntry, models.EmotionNames[i], v)
		}
	}
	return nil
}

func labelMatches(label string, score float64) bool {
	return label == sentiment.LabelFor(score) ||
		label == sentiment.LabelFor(score-labelSlack) ||
		label == sentiment.LabelFor(score+labelSlack)
}
