package source

import (
	"context"
	"fmt"

	"github.com/captionrelay/backend/internal/caption"
	apperrors "github.com/captionrelay/backend/internal/errors"
	"github.com/captionrelay/backend/internal/logger"
	"github.com/kkdai/youtube/v2"
)

// Library retrieves transcripts through the youtube client library. It is
// the cheapest strategy and therefore runs first: the library already
// returns structured cues, so no payload parsing is needed.
type Library struct {
	client youtube.Client
	log    *logger.Logger
}

// NewLibrary creates the library-backed source.
func NewLibrary() *Library {
	return &Library{log: logger.Default().WithComponent("source.library")}
}

func (s *Library) Name() string {
	return "library"
}

// Fetch tries the language options in order ("any", the preference, then
// the English fallbacks) and stops at the first non-empty transcript. Each
// option is traced before the call executes so the trace records intent
// even when the call fails.
func (s *Library) Fetch(ctx context.Context, videoID, lang string, trace *caption.Trace) (caption.Sequence, error) {
	trace.Add("library: loading video metadata for %s", videoID)

	video, err := s.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, apperrors.StrategyExhausted(s.Name(), "video metadata unavailable").WithCause(err)
	}

	var lastErr error
	for _, opt := range languageOptions(lang) {
		label := opt
		if label == "" {
			label = "any"
		}
		trace.Add("library: requesting transcript (lang=%s)", label)

		code := opt
		if code == "" {
			// "Any language" means the first track the library enumerated.
			if len(video.CaptionTracks) == 0 {
				s.log.Debug(ctx, "no caption tracks enumerated", map[string]any{"video_id": videoID})
				continue
			}
			code = video.CaptionTracks[0].LanguageCode
		}

		transcript, err := s.client.GetTranscriptCtx(ctx, video, code)
		if err != nil {
			s.log.Debug(ctx, "transcript option failed", map[string]any{"lang": label, "error": err.Error()})
			lastErr = err
			continue
		}

		seq := fromTranscript(transcript)
		if len(seq) == 0 {
			s.log.Debug(ctx, "transcript option returned no cues", map[string]any{"lang": label})
			continue
		}
		return seq, nil
	}

	if lastErr != nil {
		return nil, apperrors.StrategyExhausted(s.Name(), fmt.Sprintf("every language option failed: %v", lastErr)).WithCause(lastErr)
	}
	return nil, apperrors.StrategyExhausted(s.Name(), "no transcript available for any language option")
}

// fromTranscript converts the library's structured cues to the canonical
// segment form. Cue text still carries entities and markup on some videos,
// so it goes through the same cleaner as the raw-payload parsers.
func fromTranscript(transcript youtube.VideoTranscript) caption.Sequence {
	var seq caption.Sequence
	for _, seg := range transcript {
		text := caption.CleanText(seg.Text)
		if text == "" {
			continue
		}
		seq = append(seq, caption.Segment{
			Text:       text,
			OffsetMs:   int64(seg.StartMs),
			DurationMs: caption.ClampDuration(int64(seg.Duration)),
		})
	}
	return seq
}
