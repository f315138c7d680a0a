package usecase

import (
	"log/slog"

	"stepkit/config"
	"stepkit/internal/adapter/brace"
	"stepkit/internal/adapter/cache"
	"stepkit/internal/adapter/repair"
	"stepkit/internal/adapter/schema"
	"stepkit/internal/adapter/segmenter"
	"stepkit/internal/domain"
	"stepkit/internal/logging"
	"stepkit/internal/port"
)

// Extractor wires the tracker, repair pipeline and both segmenters from
// configuration. Results for identical buffers are served from a cache
// when caching is enabled.
type Extractor struct {
	chunks   port.ChunkSegmenter
	docs     port.DocumentSegmenter
	repairer port.Repairer

	chunkCache *cache.SegmentCache[[]domain.AssistantChunk]
	docCache   *cache.SegmentCache[domain.ParsedDocument]
}

func NewExtractor(cfg *config.Config, logger *slog.Logger) *Extractor {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = logging.Nop()
	}

	tracker := brace.New(cfg.Segment.StringAwareBraces)
	pipeline := repair.NewPipeline(repair.Options{
		Heuristic: cfg.Repair.Heuristic,
		Coerce:    cfg.Repair.Coerce,
		Logger:    logger.With("component", "repair"),
	})

	e := &Extractor{
		chunks: segmenter.NewChunkSegmenter(tracker, pipeline, logger.With("component", "chunks")),
		docs: segmenter.NewDocumentSegmenter(tracker, pipeline, segmenter.DocumentOptions{
			TruncationClose:   cfg.Segment.TruncationClose,
			PlanContinuations: cfg.Segment.PlanContinuations,
		}, logger.With("component", "document")),
		repairer: pipeline,
	}

	if cfg.Cache.Enabled {
		e.chunkCache = cache.NewSegmentCache[[]domain.AssistantChunk](cfg.Cache.MaxEntries, cfg.Cache.TTL)
		e.docCache = cache.NewSegmentCache[domain.ParsedDocument](cfg.Cache.MaxEntries, cfg.Cache.TTL)
	}
	return e
}

// Segmenter returns the uncached chunk segmenter, for callers that
// re-segment a growing buffer and would only fill the cache with prefixes.
func (e *Extractor) Segmenter() port.ChunkSegmenter {
	return e.chunks
}

func (e *Extractor) Chunks(text string) []domain.AssistantChunk {
	if e.chunkCache == nil {
		return e.chunks.Segment(text)
	}
	return e.chunkCache.GetOrCompute(cache.Key("chunks", text), func() []domain.AssistantChunk {
		return e.chunks.Segment(text)
	})
}

func (e *Extractor) Document(text string) domain.ParsedDocument {
	if e.docCache == nil {
		return e.docs.Parse(text)
	}
	return e.docCache.GetOrCompute(cache.Key("document", text), func() domain.ParsedDocument {
		return e.docs.Parse(text)
	})
}

func (e *Extractor) Repair(candidate string) (port.RepairResult, error) {
	return e.repairer.Repair(candidate)
}

func (e *Extractor) Normalize(data []byte) (domain.StepRecord, schema.Report) {
	return schema.Normalize(data)
}
