package eyefile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"edfinfo/internal/converter"
	"edfinfo/internal/deps"
	"edfinfo/internal/fileutil"
	"edfinfo/internal/logging"
	"edfinfo/internal/services"
)

// DefaultConverterBinary is the converter looked up when none is configured.
const DefaultConverterBinary = "edf2asc"

// Parse outcomes reported to the Observer.
const (
	OutcomeComplete = "complete"
	OutcomePartial  = "partial"
	OutcomeFailed   = "failed"
	OutcomeInvalid  = "invalid"
)

// Converter transcodes a binary recording into an ASC transcript at dst.
type Converter interface {
	Convert(ctx context.Context, binary, src, dst string) error
}

// Observer receives extraction telemetry.
type Observer interface {
	ObserveParse(kind, outcome string)
	ObserveFallback(source string)
	ObserveConversion(elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveParse(string, string) {}

func (nopObserver) ObserveFallback(string) {}

func (nopObserver) ObserveConversion(time.Duration) {}

// Option configures a Parser.
type Option func(*Parser)

// WithConverter replaces the converter client.
func WithConverter(c Converter) Option {
	return func(p *Parser) {
		if c != nil {
			p.converter = c
		}
	}
}

// WithConverterBinary sets the executable name or path handed to the locator.
func WithConverterBinary(binary string) Option {
	return func(p *Parser) {
		if binary != "" {
			p.binary = binary
		}
	}
}

// WithLocator injects the capability used to find the converter on demand.
func WithLocator(l deps.Locator) Option {
	return func(p *Parser) {
		if l != nil {
			p.locator = l
		}
	}
}

// WithTempDir sets the parent directory for per-parse scratch directories.
// Empty selects os.TempDir.
func WithTempDir(dir string) Option {
	return func(p *Parser) {
		p.tempDir = dir
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = logging.NewComponentLogger(logger, "eyefile")
	}
}

// WithMetrics attaches an Observer.
func WithMetrics(o Observer) Option {
	return func(p *Parser) {
		if o != nil {
			p.observer = o
		}
	}
}

// WithRecordedByTarget selects the field populated by "MSG <ts> RECORDED BY:"
// lines. The default, FieldRecording, keeps historic output stable.
func WithRecordedByTarget(f Field) Option {
	return func(p *Parser) {
		p.recordedBy = f
	}
}

// WithFallback enables or disables the fallback phase.
func WithFallback(enabled bool) Option {
	return func(p *Parser) {
		p.fallback = enabled
	}
}

// Parser extracts metadata records. A Parser holds no per-parse state and is
// safe for concurrent use.
type Parser struct {
	converter  Converter
	locator    deps.Locator
	binary     string
	tempDir    string
	logger     *slog.Logger
	observer   Observer
	recordedBy Field
	fallback   bool
	messages   []Rule
}

// New constructs a Parser. Without options it looks up edf2asc on PATH and in
// the SR Research install directories at parse time.
func New(opts ...Option) *Parser {
	p := &Parser{
		converter:  converter.New(5 * time.Minute),
		locator:    deps.DefaultLocator(),
		binary:     DefaultConverterBinary,
		logger:     logging.NewComponentLogger(nil, "eyefile"),
		observer:   nopObserver{},
		recordedBy: FieldRecording,
		fallback:   true,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.recordedBy != FieldRecordedBy {
		p.recordedBy = FieldRecording
	}
	p.messages = MessageRules(p.recordedBy)
	return p
}

// Parse extracts a fresh Record from path. The preamble is always scanned;
// the fallback runs only when the preamble leaves fields unset and a converter
// can be located. A record that is still incomplete is not an error.
func (p *Parser) Parse(ctx context.Context, path string) (*Record, error) {
	kind, err := Classify(path)
	if err != nil {
		p.observer.ObserveParse(KindUnknown.String(), OutcomeInvalid)
		return nil, err
	}

	ctx = services.WithRecording(ctx, path)
	if _, ok := services.RequestIDFromContext(ctx); !ok {
		ctx = services.WithRequestID(ctx, uuid.NewString())
	}
	logger := logging.WithContext(ctx, p.logger)

	rec, err := p.parse(ctx, logger, path, kind)
	if err != nil {
		p.observer.ObserveParse(kind.String(), OutcomeFailed)
		return nil, err
	}
	outcome := OutcomePartial
	if rec.IsComplete() {
		outcome = OutcomeComplete
	}
	p.observer.ObserveParse(kind.String(), outcome)
	return rec, nil
}

func (p *Parser) parse(ctx context.Context, logger *slog.Logger, path string, kind Kind) (*Record, error) {
	rec := NewRecord(path, kind)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}
	consumed, err := scanPreamble(file, preambleRules, rec)
	file.Close()
	if err != nil {
		return nil, fmt.Errorf("scan preamble of %s: %w", path, err)
	}
	logger.Debug("preamble scanned",
		logging.Int("lines", consumed),
		logging.Int("missing", len(rec.Missing())),
	)

	if rec.IsComplete() {
		return rec, nil
	}
	if !p.fallback {
		rec.fallback = FallbackDisabled
		p.observer.ObserveFallback(string(FallbackDisabled))
		return rec, nil
	}
	if _, err := p.locator.Locate(p.binary); err != nil {
		logger.Debug("converter unavailable; returning partial record",
			logging.String("converter", p.binary),
			logging.Error(err),
		)
		rec.fallback = FallbackSkipped
		p.observer.ObserveFallback(string(FallbackSkipped))
		return rec, nil
	}
	return p.DeepParse(ctx, path, rec)
}

// DeepParse runs the fallback phase against path and returns a new record
// holding base's values overwritten by any message matches. base may be nil.
// It fails with services.ErrConverterMissing when a binary source needs
// conversion and the converter cannot be located.
func (p *Parser) DeepParse(ctx context.Context, path string, base *Record) (*Record, error) {
	kind, err := Classify(path)
	if err != nil {
		return nil, err
	}
	var rec *Record
	if base != nil {
		rec = base.clone()
	} else {
		rec = NewRecord(path, kind)
	}

	ctx = services.WithPhase(services.WithRecording(ctx, path), "fallback")
	logger := logging.WithContext(ctx, p.logger)

	scratch, err := os.MkdirTemp(p.tempDir, "edfinfo-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch directory: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(scratch); rmErr != nil {
			logger.Warn("scratch cleanup failed", logging.String("dir", scratch), logging.Error(rmErr))
		}
	}()
	transcript := filepath.Join(scratch, fileutil.WithExt(path, TextExt))

	switch kind {
	case KindBinary:
		binary, err := p.locator.Locate(p.binary)
		if err != nil {
			return nil, services.Wrap(services.ErrConverterMissing, "fallback", "locate",
				fmt.Sprintf("%s not found", p.binary), err)
		}
		logger.Info("converting recording for message scan", logging.String("converter", binary))
		started := time.Now()
		err = p.converter.Convert(ctx, binary, path, transcript)
		p.observer.ObserveConversion(time.Since(started))
		if err != nil {
			return nil, err
		}
		rec.fallback = FallbackConverter
	default:
		logger.Debug("copying transcript for message scan")
		if err := fileutil.CopyFileVerified(path, transcript); err != nil {
			return nil, fmt.Errorf("copy transcript: %w", err)
		}
		rec.fallback = FallbackCopy
	}
	p.observer.ObserveFallback(string(rec.fallback))

	file, err := os.Open(transcript)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrExternalTool, "fallback", "convert",
				"converter produced no transcript", err)
		}
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer file.Close()

	inspected, err := scanMessages(file, p.messages, rec, func(rule Rule, line string) {
		if rule.Keyword == KeywordRecordedBy && rule.Field == FieldRecording {
			logging.WarnWithContext(logger, "RECORDED BY message stored as recording",
				"recorded_by_legacy_mapping",
				logging.String("line", line),
				logging.String(logging.FieldImpact, "recording field holds the operator name"),
				logging.String(logging.FieldErrorHint, "set parse.recorded_by_target = \"recorded_by\" to store it separately"),
			)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("scan messages of %s: %w", path, err)
	}
	logger.Debug("message scan finished",
		logging.Int("messages", inspected),
		logging.Int("missing", len(rec.Missing())),
	)
	return rec, nil
}
