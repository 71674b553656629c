package pipeline

import (
	"context"
	"fmt"
	"log"

	"tracescribe/internal/action"
	"tracescribe/internal/llm"
	"tracescribe/internal/metrics"
	"tracescribe/internal/segment"
)

const (
	segmenterMaxTokens = 2048
	extractorMaxTokens = 2048
	rendererMaxTokens  = 4096
)

const emptyRunMarkdown = `# Summary

No actions were recorded for this session.

# Instructions

No steps could be derived; the capture contains no actions.

# Know-How

No tacit knowledge could be extracted from an empty capture.
`

// StageError marks a generation failure inside a named pipeline stage. Transport
// failures are fatal to the whole run; only structural parse failures degrade.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Generator runs the three-stage documentation pipeline against an injected
// generation client. It holds no other state; runs for different sessions may
// proceed concurrently on the same Generator.
type Generator struct {
	client llm.Client
}

func NewGenerator(client llm.Client) *Generator {
	return &Generator{client: client}
}

// GenerateDocumentation turns a finished action list into a task document. The three
// stages run strictly sequentially: each stage's parsed output is structured input
// to the next. An empty action list short-circuits to a fixed empty result without
// any generation call.
func (g *Generator) GenerateDocumentation(ctx context.Context, actions []action.Action) (Result, error) {
	if len(actions) == 0 {
		return emptyResult(), nil
	}

	taskMetrics := metrics.Compute(actions)
	preChunks := segment.Chunk(actions)
	result := Result{
		Metrics: taskMetrics,
		Chunks:  []ActionChunk{},
		KnowHow: EmptyKnowHow(),
	}

	segmenterRaw, err := g.client.Complete(ctx, buildSegmenterPrompt(actions, taskMetrics, preChunks), llm.Options{
		SystemPrompt: segmenterSystemPrompt,
		MaxTokens:    segmenterMaxTokens,
	})
	if err != nil {
		return Result{}, &StageError{Stage: stageSegmenter, Err: err}
	}
	chunks, degraded := parseSegmenterChunks(segmenterRaw, actions)
	result.Chunks = chunks
	result.recordDegradation(degraded)
	log.Printf("[pipeline] segmenter done: %d chunks (degraded=%v)", len(chunks), degraded != nil)

	extractorRaw, err := g.client.Complete(ctx, buildExtractorPrompt(chunks, actions, taskMetrics), llm.Options{
		SystemPrompt: extractorSystemPrompt,
		MaxTokens:    extractorMaxTokens,
	})
	if err != nil {
		return Result{}, &StageError{Stage: stageExtractor, Err: err}
	}
	knowHow, degraded := parseKnowHow(extractorRaw)
	result.KnowHow = knowHow
	result.recordDegradation(degraded)
	log.Printf("[pipeline] extractor done: %d criteria (degraded=%v)", len(knowHow.DecisionCriteria), degraded != nil)

	rendererRaw, err := g.client.Complete(ctx, buildRendererPrompt(chunks, knowHow, taskMetrics), llm.Options{
		SystemPrompt: rendererSystemPrompt,
		MaxTokens:    rendererMaxTokens,
	})
	if err != nil {
		return Result{}, &StageError{Stage: stageRenderer, Err: err}
	}
	output, degraded := parseRendererOutput(rendererRaw)
	result.Output = output
	result.recordDegradation(degraded)
	log.Printf("[pipeline] renderer done: %d bytes of markdown (degraded=%v)", len(output.RawMarkdown), degraded != nil)

	return result, nil
}

func (r *Result) recordDegradation(degradation *Degradation) {
	if degradation == nil {
		return
	}
	r.Degradations = append(r.Degradations, *degradation)
}

func emptyResult() Result {
	output, _ := parseRendererOutput(emptyRunMarkdown)
	return Result{
		Chunks:  []ActionChunk{},
		Metrics: metrics.Compute(nil),
		KnowHow: EmptyKnowHow(),
		Output:  output,
	}
}
