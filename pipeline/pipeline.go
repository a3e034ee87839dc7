// Package pipeline orchestrates the whole extraction for one document:
// per-side image enhancement, external text recognition, text
// interpretation, and portrait extraction, with independent sub-steps
// running concurrently.
package pipeline

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MatFragg/dniscan/enhance"
	"github.com/MatFragg/dniscan/extract"
	"github.com/MatFragg/dniscan/observability"
	"github.com/MatFragg/dniscan/ocr"
	"github.com/MatFragg/dniscan/portrait"
)

// DocumentRecord is the final per-request output: the interpreted identity
// fields plus the portrait crop and the original image payloads, each also
// carried base64-encoded for transport-layer callers.
type DocumentRecord struct {
	extract.Record

	PortraitImage []byte
	FrontImage    []byte
	BackImage     []byte

	PortraitBase64   string
	FrontImageBase64 string
	BackImageBase64  string
}

// Processor runs the document pipeline. Safe for concurrent use; the
// enhancement cache is the only state shared across requests.
type Processor struct {
	engine    ocr.Engine
	enhancer  *enhance.Enhancer
	portraits *portrait.Extractor
	parser    *extract.Parser
	lexicon   extract.Lexicon
	languages []string
	log       observability.Logger
	tracer    observability.Tracer
}

// Option configures a Processor.
type Option func(*Processor)

// WithEngine sets the recognizer engine. Defaults to the library default.
func WithEngine(engine ocr.Engine) Option {
	return func(p *Processor) { p.engine = engine }
}

// WithEnhancer injects a pre-built enhancer, typically to share its cache.
func WithEnhancer(e *enhance.Enhancer) Option {
	return func(p *Processor) { p.enhancer = e }
}

// WithPortraitExtractor injects a pre-built portrait extractor.
func WithPortraitExtractor(x *portrait.Extractor) Option {
	return func(p *Processor) { p.portraits = x }
}

// WithLexicon targets another jurisdiction's document vocabulary.
func WithLexicon(lex extract.Lexicon) Option {
	return func(p *Processor) { p.lexicon = lex }
}

// WithLanguages sets the recognition language hints. Defaults to Spanish.
func WithLanguages(langs ...string) Option {
	return func(p *Processor) { p.languages = append([]string(nil), langs...) }
}

// WithLogger routes stage telemetry to log.
func WithLogger(log observability.Logger) Option {
	return func(p *Processor) { p.log = log }
}

// WithTracer attaches a tracer to the pipeline stages.
func WithTracer(tracer observability.Tracer) Option {
	return func(p *Processor) { p.tracer = tracer }
}

// New builds a Processor. The zero-option form uses the default engine, the
// production enhancement and portrait settings, and the Peruvian lexicon.
func New(opts ...Option) *Processor {
	p := &Processor{
		engine:    ocr.DefaultEngine(),
		lexicon:   extract.DefaultLexicon(),
		languages: []string{"spa"},
		log:       observability.NopLogger{},
		tracer:    observability.NopTracer(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.enhancer == nil {
		p.enhancer = enhance.New(enhance.DefaultConfig(), enhance.WithLogger(p.log))
	}
	if p.portraits == nil {
		p.portraits = portrait.New(portrait.DefaultConfig(), portrait.WithLogger(p.log))
	}
	if p.parser == nil {
		p.parser = extract.NewParser(p.lexicon, extract.WithLogger(p.log))
	}
	return p
}

// ProcessDocument runs the full pipeline over the two face images and
// returns the assembled record. Stages run in order with a barrier between
// them; sub-steps inside a stage run concurrently and fail fast.
func (p *Processor) ProcessDocument(ctx context.Context, frontImage, backImage []byte) (*DocumentRecord, error) {
	ctx, span := p.tracer.StartSpan(ctx, "document.process")
	defer span.Finish()

	// Stage 1: enhancement per side. Never fails: undecodable input degrades
	// to the original bytes inside the enhancer, so a plain barrier suffices.
	stageStart := time.Now()
	var enhancedFront, enhancedBack []byte
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		enhancedFront = p.enhancer.Enhance(frontImage)
	}()
	go func() {
		defer wg.Done()
		enhancedBack = p.enhancer.Enhance(backImage)
	}()
	wg.Wait()
	span.SetTag(observability.MetricEnhanceTime, time.Since(stageStart))
	span.SetTag(observability.MetricEnhanceCacheHit, p.enhancer.CacheHits())

	// Stage 2: recognition. Batch-capable engines receive both faces in a
	// single call; otherwise the sides run concurrently.
	stageStart = time.Now()
	frontText, backText, err := p.recognizeStage(ctx, enhancedFront, enhancedBack)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	span.SetTag(observability.MetricRecognizeTime, time.Since(stageStart))

	// Stage 3: interpretation. Cheap and serial.
	stageStart = time.Now()
	rec, err := p.parser.Parse(frontText, backText)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("interpret document text: %w", err)
	}
	span.SetTag(observability.MetricParseTime, time.Since(stageStart))

	// Stage 4: portrait plus the transport encodes.
	stageStart = time.Now()
	out := &DocumentRecord{
		Record:     rec,
		FrontImage: frontImage,
		BackImage:  backImage,
	}
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		portraitBytes, err := p.portraits.Extract(enhancedFront)
		if err != nil {
			return fmt.Errorf("extract portrait: %w", err)
		}
		out.PortraitImage = portraitBytes
		out.PortraitBase64 = base64.StdEncoding.EncodeToString(portraitBytes)
		return nil
	})
	g.Go(func() error {
		out.FrontImageBase64 = base64.StdEncoding.EncodeToString(frontImage)
		return nil
	})
	g.Go(func() error {
		out.BackImageBase64 = base64.StdEncoding.EncodeToString(backImage)
		return nil
	})
	if err := g.Wait(); err != nil {
		span.SetError(err)
		return nil, err
	}
	span.SetTag(observability.MetricPortraitTime, time.Since(stageStart))
	span.SetTag(observability.MetricFieldsResolved, resolvedFields(out.Record))

	p.log.Info("document processed",
		observability.String("documentNumber", out.DocumentNumber),
		observability.Int("portraitBytes", len(out.PortraitImage)))
	return out, nil
}

// recognizeStage runs text recognition over both enhanced faces and returns
// the front and back text.
func (p *Processor) recognizeStage(ctx context.Context, enhancedFront, enhancedBack []byte) (string, string, error) {
	if _, ok := p.engine.(ocr.BatchEngine); ok {
		return p.recognizeBatch(ctx, enhancedFront, enhancedBack)
	}
	var frontText, backText string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		text, err := p.recognizeSide(gctx, ocr.SideFront, enhancedFront)
		frontText = text
		return err
	})
	g.Go(func() error {
		text, err := p.recognizeSide(gctx, ocr.SideBack, enhancedBack)
		backText = text
		return err
	})
	if err := g.Wait(); err != nil {
		return "", "", err
	}
	return frontText, backText, nil
}

func (p *Processor) recognizeBatch(ctx context.Context, enhancedFront, enhancedBack []byte) (string, string, error) {
	inputs := []ocr.Input{
		p.faceInput(ocr.SideFront, enhancedFront),
		p.faceInput(ocr.SideBack, enhancedBack),
	}
	results, err := ocr.RecognizeFaces(ctx, p.engine, inputs)
	if err != nil {
		return "", "", &RecognitionError{Err: err}
	}
	texts := make(map[ocr.Side]string, len(results))
	for _, res := range results {
		texts[res.Side] = res.PlainText
	}
	frontText, err := requireText(ocr.SideFront, texts[ocr.SideFront])
	if err != nil {
		return "", "", err
	}
	backText, err := requireText(ocr.SideBack, texts[ocr.SideBack])
	if err != nil {
		return "", "", err
	}
	return frontText, backText, nil
}

func (p *Processor) recognizeSide(ctx context.Context, side ocr.Side, image []byte) (string, error) {
	res, err := p.engine.Recognize(ctx, p.faceInput(side, image))
	if err != nil {
		return "", &RecognitionError{Side: side, Err: err}
	}
	text, err := requireText(side, res.PlainText)
	if err != nil {
		return "", err
	}
	p.log.Debug("face recognized",
		observability.String("side", string(side)),
		observability.Int("chars", len(text)))
	return text, nil
}

func (p *Processor) faceInput(side ocr.Side, image []byte) ocr.Input {
	return ocr.InputFromFace(side, image, ocr.ImageFormatJPEG,
		ocr.WithLanguages(p.languages...))
}

func requireText(side ocr.Side, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", &RecognitionError{Side: side, Err: ErrNoText}
	}
	return text, nil
}

// resolvedFields counts the record fields that carry a value, whatever their
// origin, so span consumers can see how complete an extraction came out.
func resolvedFields(rec extract.Record) int {
	n := 0
	for _, v := range []string{
		rec.DocumentNumber, rec.FamilyNames, rec.GivenNames, rec.BirthDate,
		rec.Sex, rec.Nationality, rec.IssueDate, rec.ExpiryDate,
	} {
		if v != "" {
			n++
		}
	}
	return n
}
