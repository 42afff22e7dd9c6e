package receipt

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/crypto/blake2b"

	"github.com/mmynk/billsplittr/internal/metrics"
	"github.com/mmynk/billsplittr/internal/models"
)

// Options tunes the pipeline. Zero values select the defaults.
type Options struct {
	// Timeout bounds each stage (OCR, parsing), retries included.
	Timeout time.Duration

	// Retries is the number of extra attempts per stage after a temporary failure.
	Retries int

	// Backoff is the first retry delay; it doubles on every attempt.
	Backoff time.Duration

	// ConfidenceThreshold is the minimum parser confidence to accept a result.
	ConfidenceThreshold float64

	// MaxImageBytes caps the upload size.
	MaxImageBytes int64
}

const (
	DefaultTimeout             = 30 * time.Second
	DefaultBackoff             = 500 * time.Millisecond
	DefaultConfidenceThreshold = 0.9
	DefaultMaxImageBytes       = 10 << 20
)

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Retries < 0 {
		o.Retries = 0
	}
	if o.Backoff <= 0 {
		o.Backoff = DefaultBackoff
	}
	if o.ConfidenceThreshold <= 0 {
		o.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	if o.MaxImageBytes <= 0 {
		o.MaxImageBytes = DefaultMaxImageBytes
	}
	return o
}

// Result is a successfully parsed receipt.
type Result struct {
	Bill *models.ParsedBill

	// Cached is set when the bill came from the cache instead of the upstream services.
	Cached bool
}

// Pipeline runs OCR and parsing for uploaded receipts.
type Pipeline struct {
	ocr     TextExtractor
	parser  BillParser
	cache   Cache
	metrics *metrics.Metrics
	opts    Options
}

// NewPipeline wires a pipeline. cache and m may be nil.
func NewPipeline(ocr TextExtractor, parser BillParser, cache Cache, m *metrics.Metrics, opts Options) *Pipeline {
	return &Pipeline{
		ocr:     ocr,
		parser:  parser,
		cache:   cache,
		metrics: m,
		opts:    opts.withDefaults(),
	}
}

// Process reads a receipt image into a candidate bill.
//
// A parse whose confidence is below the threshold returns the parsed bill along
// with ErrLowConfidence so the caller can offer manual entry instead.
func (p *Pipeline) Process(ctx context.Context, img Image) (*Result, error) {
	if len(img.Data) == 0 {
		p.outcome("rejected")
		return nil, ErrEmptyImage
	}
	if int64(len(img.Data)) > p.opts.MaxImageBytes {
		p.outcome("rejected")
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrImageTooLarge, len(img.Data), p.opts.MaxImageBytes)
	}

	sum := blake2b.Sum256(img.Data)
	key := hex.EncodeToString(sum[:])
	log := slog.With("image", key[:12], "bytes", len(img.Data))

	if p.cache != nil {
		cached, err := p.cache.Get(ctx, key)
		if err != nil {
			log.Warn("receipt cache read failed", "error", err)
		} else if cached != nil {
			log.Debug("receipt cache hit")
			p.outcome("cache_hit")
			return &Result{Bill: cached, Cached: true}, nil
		}
	}

	var words []string
	err := p.stage(ctx, "ocr", func(ctx context.Context) error {
		var err error
		words, err = p.ocr.ExtractText(ctx, img)
		return err
	})
	if err != nil {
		p.outcome("failed")
		return nil, fmt.Errorf("text extraction failed: %w", err)
	}
	if len(words) == 0 {
		p.outcome("no_text")
		return nil, ErrNoText
	}
	log.Debug("receipt text extracted", "words", len(words))

	var bill *models.ParsedBill
	err = p.stage(ctx, "parse", func(ctx context.Context) error {
		var err error
		bill, err = p.parser.ParseBill(ctx, words)
		return err
	})
	if err != nil {
		p.outcome("failed")
		return nil, fmt.Errorf("receipt parsing failed: %w", err)
	}

	if bill.Confidence != nil && *bill.Confidence < p.opts.ConfidenceThreshold {
		log.Info("receipt parse below confidence threshold",
			"confidence", *bill.Confidence,
			"threshold", p.opts.ConfidenceThreshold,
		)
		p.outcome("low_confidence")
		return &Result{Bill: bill}, ErrLowConfidence
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, key, bill); err != nil {
			log.Warn("receipt cache write failed", "error", err)
		}
	}

	log.Info("receipt parsed", "items", len(bill.Items), "charges", len(bill.ExtraCharges))
	p.outcome("ok")
	return &Result{Bill: bill}, nil
}

// stage runs fn under the stage timeout, retrying temporary upstream failures.
func (p *Pipeline) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	start := time.Now()
	attempt := 0
	backoff := retry.WithMaxRetries(uint64(p.opts.Retries), retry.NewExponential(p.opts.Backoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if attempt > 1 && p.metrics != nil {
			p.metrics.ReceiptRetries.WithLabelValues(name).Inc()
		}
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if temporary(err) {
			slog.Debug("receipt stage attempt failed", "stage", name, "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return err
	})

	if p.metrics != nil {
		p.metrics.ReceiptStageDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}
	return err
}

func temporary(err error) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.Temporary()
}

func (p *Pipeline) outcome(name string) {
	if p.metrics != nil {
		p.metrics.ReceiptImports.WithLabelValues(name).Inc()
	}
}
