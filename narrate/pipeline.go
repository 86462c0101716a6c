package narrate

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/calmnest/calmgen/narrate/content"
)

// PipelineConfig holds the pipeline's fixed parameters.
type PipelineConfig struct {
	OutputDir string // root for generated files (default "assets")
	Format    Format // output codec (default mp3)
	Logger    *log.Logger
}

// Pipeline orchestrates one content unit end to end: resolve voice, segment,
// synthesize, assemble, encode. Units are processed strictly sequentially;
// the engine is a single shared resource and is never invoked concurrently.
type Pipeline struct {
	lib       *content.Library
	engine    Engine
	resolver  *VoiceResolver
	segmenter *Segmenter
	synth     *SegmentSynthesizer
	encoder   *Encoder
	outputDir string
	format    Format
	logger    *log.Logger
}

// NewPipeline wires a pipeline over the given library and engine.
func NewPipeline(lib *content.Library, engine Engine, cfg PipelineConfig) *Pipeline {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir = "assets"
	}
	format := cfg.Format
	if format == "" {
		format = FormatMP3
	}

	p := &Pipeline{
		lib:       lib,
		engine:    engine,
		resolver:  NewVoiceResolver(lib, logger),
		segmenter: NewSegmenter(lib),
		synth:     NewSegmentSynthesizer(engine, logger),
		encoder:   NewEncoder(logger),
		outputDir: outputDir,
		format:    format,
		logger:    logger,
	}
	p.synth.OnProgress(func(index, total int, text string) {
		logger.Info("synthesizing segment", "segment", index, "total", total)
	})
	return p
}

// Resolver exposes the pipeline's voice resolver, for dry-run reporting.
func (p *Pipeline) Resolver() *VoiceResolver { return p.resolver }

// Segmenter exposes the pipeline's segmenter, for dry-run reporting.
func (p *Pipeline) Segmenter() *Segmenter { return p.segmenter }

// Encoder exposes the pipeline's encoder, for test injection.
func (p *Pipeline) Encoder() *Encoder { return p.encoder }

// OutputPath returns the file this unit's audio will be written to.
func (p *Pipeline) OutputPath(unit ContentUnit) string {
	name := fmt.Sprintf("%s.%s", unit.Key, p.format)
	return filepath.Join(p.outputDir, unit.Category.Subpath(), name)
}

// Run processes one content unit and returns the written artifact. A failure
// at any stage is terminal for the unit; no partial output is left at the
// final path. Failures carry the stage they occurred in via *PipelineError.
func (p *Pipeline) Run(ctx context.Context, unit ContentUnit) (*OutputArtifact, error) {
	name := fmt.Sprintf("%s/%s", unit.Category, unit.Key)
	sm := newStageMachine()

	fail := func(err error) (*OutputArtifact, error) {
		stage := sm.Current()
		sm.transition(StageFailed)
		return nil, failed(stage, name, err)
	}

	sm.transition(StageResolved)
	voice := p.resolver.Resolve(unit)
	p.logger.Info("generating", "unit", name, "narrator", voice.Narrator, "voice", voice.ID)

	sm.transition(StageSegmented)
	segments, err := p.segmenter.Segment(unit)
	if err != nil {
		return fail(err)
	}
	p.logger.Debug("segmented content", "unit", name, "segments", len(segments))

	sm.transition(StageSynthesizing)
	synthesized, err := p.synth.SynthesizeAll(ctx, segments, voice, p.resolver.StyleHint(unit.Category))
	if err != nil {
		return fail(err)
	}

	sm.transition(StageAssembling)
	assembled, err := Assemble(synthesized, unit.Category.SilenceGap(), p.engine.SampleRate())
	if err != nil {
		return fail(err)
	}
	p.logger.Debug("assembled audio", "unit", name, "duration", assembled.Duration())

	sm.transition(StageEncoding)
	artifact, err := p.encoder.Encode(ctx, assembled, p.OutputPath(unit), p.format)
	if err != nil {
		return fail(err)
	}

	sm.transition(StageDone)
	return artifact, nil
}
