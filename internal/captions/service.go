// Package captions contains the fallback orchestrator: it resolves the
// caller's input to a video ID, then runs the retrieval sources in fixed
// priority order until one produces a non-empty caption sequence.
package captions

import (
	"context"

	"github.com/captionrelay/backend/internal/caption"
	apperrors "github.com/captionrelay/backend/internal/errors"
	"github.com/captionrelay/backend/internal/logger"
	"github.com/captionrelay/backend/internal/metrics"
	"github.com/captionrelay/backend/internal/resolver"
	"github.com/captionrelay/backend/internal/source"
)

// Result is a fully resolved caption set: the canonical segments plus both
// rendered forms and the complete attempt trace.
type Result struct {
	VideoID    string           `json:"video_id"`
	TriedOrder []string         `json:"tried_order"`
	Segments   caption.Sequence `json:"segments"`
	PlainText  string           `json:"plain_text"`
	SRT        string           `json:"srt"`
}

// Service owns the ordered retrieval sources.
type Service struct {
	sources []source.Source
	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewService creates a Service trying the given sources in order.
func NewService(sources ...source.Source) *Service {
	return &Service{
		sources: sources,
		log:     logger.Default().WithComponent("captions"),
		metrics: metrics.Default(),
	}
}

// Resolve resolves captions for a raw video URL/ID and an optional language
// preference. An unresolvable input fails immediately, untouched by the
// source cascade. Sources run strictly sequentially; the first non-empty
// result wins and no partial results are ever returned. The trace collects
// every sub-attempt across all sources; pass nil to have one created.
func (s *Service) Resolve(ctx context.Context, rawInput, lang string, trace *caption.Trace) (*Result, error) {
	videoID, err := resolver.Resolve(rawInput)
	if err != nil {
		return nil, err
	}
	if trace == nil {
		trace = caption.NewTrace()
	}

	lang = source.NormalizeLanguage(lang)

	var lastErr error
	for _, src := range s.sources {
		s.metrics.RecordSourceAttempt(src.Name())

		seq, err := src.Fetch(ctx, videoID, lang, trace)
		if err == nil {
			s.metrics.RecordSourceSuccess(src.Name())
			s.log.Info(ctx, "captions resolved", map[string]any{
				"video_id": videoID,
				"source":   src.Name(),
				"segments": len(seq),
				"attempts": trace.Len(),
			})
			return &Result{
				VideoID:    videoID,
				TriedOrder: trace.Entries(),
				Segments:   seq,
				PlainText:  caption.PlainText(seq),
				SRT:        caption.SRT(seq),
			}, nil
		}

		s.log.Warn(ctx, "caption source failed", map[string]any{
			"video_id": videoID,
			"source":   src.Name(),
			"error":    err.Error(),
		})
		lastErr = err
	}

	return nil, apperrors.AllStrategiesExhausted(lastErr, trace.Entries())
}

// ListTracks discovers a video's caption tracks without fetching cue data,
// preferring the watch-page enumeration and falling back to the timedtext
// listing.
func (s *Service) ListTracks(ctx context.Context, rawInput string) (string, []caption.Track, error) {
	videoID, err := resolver.Resolve(rawInput)
	if err != nil {
		return "", nil, err
	}

	var lastErr error
	for _, src := range s.sources {
		lister, ok := src.(source.TrackLister)
		if !ok {
			continue
		}
		tracks, err := lister.ListTracks(ctx, videoID)
		if err != nil {
			lastErr = err
			continue
		}
		if len(tracks) > 0 {
			return videoID, tracks, nil
		}
	}

	if lastErr == nil {
		lastErr = apperrors.UpstreamEmpty("no caption tracks found")
	}
	return videoID, nil, apperrors.AllStrategiesExhausted(lastErr, []string{})
}
