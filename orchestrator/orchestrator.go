// Package orchestrator coordinates one generation cycle: it accepts a
// source image, calls the external edit service, runs the pixel
// post-processing, and records successful results in the history cache.
//
// orchestrator.go implements the Orchestrator organism.
//
// This organism composes:
//   - EditService / AnalysisService: external AI collaborators
//   - pixels: decode, chroma key extraction, resampling
//   - history.Cache: bounded record of successful generations
//   - HistoryStore: optional write-through persistence
//   - logging.Logger: structured logging
package orchestrator

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"greenroom/core"
	"greenroom/history"
	"greenroom/logging"
	"greenroom/pixels"
)

// EditService rewrites an image according to a prompt, rendering removable
// regions in the flat key color. Implemented by imagegen providers.
type EditService interface {
	Edit(ctx context.Context, image []byte, mimeType, prompt string, highQuality bool) ([]byte, error)
}

// AnalysisService produces a best-effort scene description of an image.
// Failures never affect the generation state machine.
type AnalysisService interface {
	Analyze(ctx context.Context, image []byte, mimeType string) (string, error)
}

// HistoryStore persists history entries. Implemented by db.Store.
type HistoryStore interface {
	SaveGeneration(ctx context.Context, entry history.Entry) error
}

// thumbnailMaxPx bounds the longest side of history thumbnails.
const thumbnailMaxPx = 128

// Config assembles an Orchestrator's collaborators. Edit is required;
// everything else has a working default.
type Config struct {
	// Edit performs the external image edit (required).
	Edit EditService

	// Analysis describes the source image after selection (optional).
	Analysis AnalysisService

	// Store receives a write-through copy of each successful generation
	// (optional).
	Store HistoryStore

	// History is the bounded result cache. Nil gets a cache with the
	// default capacity.
	History *history.Cache

	// KeyPolicy classifies key-color pixels. The zero value gets the
	// default thresholds.
	KeyPolicy pixels.KeyPolicy

	// Logger for structured logging. Nil gets a no-op logger.
	Logger *logging.Logger
}

// Orchestrator owns the application state, the history cache, and the
// generation sequence counters behind a single mutex.
//
// Thread Safety: all methods are safe for concurrent use. The external
// edit call runs outside the lock; its result is applied only if the
// generation sequence token captured at start still matches, so results
// that became stale while in flight are dropped silently.
type Orchestrator struct {
	edit     EditService
	analysis AnalysisService
	store    HistoryStore
	policy   pixels.KeyPolicy
	log      *logging.Logger

	mu         sync.Mutex
	state      State
	source     []byte
	sourceMIME string
	sourceDims pixels.Dimensions
	generated  []byte
	errMessage string
	analysisTx string
	cache      *history.Cache

	// genSeq identifies one generate attempt; it advances on every
	// Generate start and on every source change, so any event that
	// invalidates an in-flight edit bumps it.
	genSeq uint64
	// srcSeq advances only when the source image changes; the analysis
	// goroutine checks it before applying its result.
	srcSeq uint64
}

// New creates an Orchestrator in the Idle state.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Edit == nil {
		return nil, errors.New("orchestrator: edit service is required")
	}

	cache := cfg.History
	if cache == nil {
		cache = history.NewCache(0)
	}
	policy := cfg.KeyPolicy
	if policy == (pixels.KeyPolicy{}) {
		policy = pixels.DefaultKeyPolicy()
	}
	log := cfg.Logger
	if log == nil {
		log = logging.NewNopLogger()
	}

	return &Orchestrator{
		edit:     cfg.Edit,
		analysis: cfg.Analysis,
		store:    cfg.Store,
		policy:   policy,
		log:      log.Named("orchestrator"),
		state:    StateIdle,
		cache:    cache,
	}, nil
}

// SelectSource installs a new source image and resets the machine to Idle:
// the generated image, error message, and analysis text are cleared, and
// the source's native dimensions are captured as the resample target for
// the next generation. Any in-flight generation result becomes stale.
//
// A best-effort analysis of the new source starts in the background; its
// result is applied only if the source has not changed again, and its
// failure is logged and swallowed.
func (o *Orchestrator) SelectSource(ctx context.Context, image []byte, mimeType string) error {
	if len(image) == 0 {
		return errors.New("orchestrator: source image cannot be empty")
	}

	dims, err := pixels.DecodeDims(image)
	if err != nil {
		return err
	}

	source := make([]byte, len(image))
	copy(source, image)

	o.mu.Lock()
	o.state = StateIdle
	o.source = source
	o.sourceMIME = mimeType
	o.sourceDims = dims
	o.generated = nil
	o.errMessage = ""
	o.analysisTx = ""
	o.genSeq++
	o.srcSeq++
	srcToken := o.srcSeq
	o.mu.Unlock()

	o.log.Info("source selected",
		zap.String("dims", dims.String()),
		zap.String("mime", mimeType),
		zap.Int("bytes", len(source)))

	if o.analysis != nil {
		go o.analyzeSource(ctx, source, mimeType, srcToken)
	}
	return nil
}

// analyzeSource runs the best-effort analysis call and applies the result
// if the source is still current.
func (o *Orchestrator) analyzeSource(ctx context.Context, image []byte, mimeType string, srcToken uint64) {
	description, err := o.analysis.Analyze(ctx, image, mimeType)
	if err != nil {
		o.log.Warn("source analysis failed", zap.Error(err))
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.srcSeq != srcToken {
		o.log.Debug("dropping stale analysis result",
			zap.Uint64("token", srcToken),
			zap.Uint64("current", o.srcSeq))
		return
	}
	o.analysisTx = description
}

// Generate runs one edit cycle: external edit, chroma key extraction,
// resample back to the source's native dimensions, history push.
//
// A request with no source selected, or issued while a generation is
// already processing, is a no-op returning nil. The pipeline runs
// synchronously in the calling goroutine; callers wanting asynchrony run
// it in their own goroutine. The result is applied only if no newer source
// selection or generate call supersedes it while in flight.
func (o *Orchestrator) Generate(ctx context.Context, prompt string, highQuality bool) error {
	o.mu.Lock()
	if len(o.source) == 0 {
		o.mu.Unlock()
		o.log.Warn("generate requested with no source selected")
		return nil
	}
	if o.state == StateProcessing {
		o.mu.Unlock()
		o.log.Warn("generate requested while already processing")
		return nil
	}

	o.state = StateProcessing
	o.generated = nil
	o.errMessage = ""
	o.genSeq++
	token := o.genSeq
	source := o.source
	mimeType := o.sourceMIME
	target := o.sourceDims
	o.mu.Unlock()

	correlationID := core.NewCorrelationID()
	log := o.log.With(zap.String("correlation_id", correlationID))
	log.Info("generation started",
		zap.String("target_dims", target.String()),
		zap.Bool("high_quality", highQuality))

	result, thumbnail, err := o.runPipeline(ctx, log, source, mimeType, prompt, highQuality, target)
	if err != nil {
		return o.applyFailure(log, token, err)
	}
	return o.applySuccess(ctx, log, token, source, prompt, result, thumbnail)
}

// runPipeline performs edit, decode, key extraction, and resampling. It
// holds no locks and touches no orchestrator state.
func (o *Orchestrator) runPipeline(ctx context.Context, log *logging.Logger, source []byte, mimeType, prompt string, highQuality bool, target pixels.Dimensions) (result, thumbnail []byte, err error) {
	edited, err := o.edit.Edit(ctx, source, mimeType, prompt, highQuality)
	if err != nil {
		return nil, nil, err
	}

	buf, err := pixels.Decode(edited)
	if err != nil {
		return nil, nil, err
	}

	pixels.ExtractKey(buf, o.policy)

	result, err = pixels.Resample(buf, &target)
	if err != nil {
		return nil, nil, err
	}

	// The thumbnail is cosmetic; on failure the full image stands in.
	thumbDims := pixels.ThumbnailDims(target, thumbnailMaxPx)
	thumbnail, err = pixels.Resample(buf, &thumbDims)
	if err != nil {
		log.Warn("thumbnail generation failed, using full image", zap.Error(err))
		thumbnail = result
	}

	return result, thumbnail, nil
}

// applyFailure transitions to Error unless the attempt went stale while in
// flight. Stale failures are dropped silently and return nil.
func (o *Orchestrator) applyFailure(log *logging.Logger, token uint64, err error) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.genSeq != token {
		log.Info("dropping stale generation failure", zap.Error(err))
		return nil
	}

	o.state = StateError
	o.errMessage = err.Error()
	o.generated = nil
	log.Error("generation failed", zap.Error(err))
	return err
}

// applySuccess transitions to Success and pushes the history entry
// atomically, unless the attempt went stale while in flight. The optional
// persistence write-through happens inside the same transition; its
// failure is logged and never fails the generation.
func (o *Orchestrator) applySuccess(ctx context.Context, log *logging.Logger, token uint64, source []byte, prompt string, result, thumbnail []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.genSeq != token {
		log.Info("dropping stale generation result")
		return nil
	}

	entry := history.Entry{
		Prompt:    prompt,
		Original:  source,
		Generated: result,
		Thumbnail: thumbnail,
	}
	entry.ID = o.cache.Push(entry)

	o.state = StateSuccess
	o.generated = result
	o.errMessage = ""

	if o.store != nil {
		stored, ok := o.cache.Select(entry.ID)
		if ok {
			if err := o.store.SaveGeneration(ctx, stored); err != nil {
				log.Warn("history persistence failed", zap.Error(err))
			}
		}
	}

	log.Info("generation succeeded",
		zap.String("entry_id", entry.ID),
		zap.Int("result_bytes", len(result)),
		zap.Int("history_len", o.cache.Len()))
	return nil
}

// SelectHistoryEntry restores a past generation as the current state:
// source and generated image come from the entry and the machine lands in
// Success without any external call. An unknown id is a no-op returning
// false. Restoring invalidates any in-flight generation or analysis.
func (o *Orchestrator) SelectHistoryEntry(id string) bool {
	entry, ok := o.cache.Select(id)
	if !ok {
		o.log.Warn("history entry not found", zap.String("entry_id", id))
		return false
	}

	dims, err := pixels.DecodeDims(entry.Original)
	if err != nil {
		// The entry was built from a decodable image; dims stay zero only
		// if the stored bytes were corrupted.
		o.log.Warn("failed to decode history entry dims", zap.Error(err))
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = StateSuccess
	o.source = entry.Original
	o.sourceMIME = "image/png"
	o.sourceDims = dims
	o.generated = entry.Generated
	o.errMessage = ""
	o.analysisTx = ""
	o.genSeq++
	o.srcSeq++

	o.log.Info("history entry restored", zap.String("entry_id", id))
	return true
}

// Snapshot returns a copy of the current application state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	return Snapshot{
		State:      o.state,
		Source:     copyBytes(o.source),
		SourceMIME: o.sourceMIME,
		SourceDims: o.sourceDims,
		Generated:  copyBytes(o.generated),
		ErrMessage: o.errMessage,
		Analysis:   o.analysisTx,
	}
}

// History returns a snapshot of the cache contents, most recent first.
func (o *Orchestrator) History() []history.Entry {
	return o.cache.List()
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
