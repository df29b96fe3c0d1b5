package advice

import (
	"context"
	"strings"

	"github.com/futig/medi-assistant/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// render turns a model answer into what the user sees. A failed answer is shown
// as is: the placeholder is neither translated nor spoken.
func (uc *Usecase) render(
	ctx context.Context,
	sessionID string,
	advice *entity.AdviceResponse,
	language entity.Language,
	withAudio bool,
) *entity.RenderedAdvice {
	rendered := &entity.RenderedAdvice{
		Language:    language,
		Segments:    make([]entity.RenderedSegment, len(advice.Segments)),
		GeneratedAt: uc.now(),
	}

	texts := make([]string, 0, 2*len(advice.Segments))
	for _, seg := range advice.Segments {
		texts = append(texts, seg.Label, seg.Body)
	}

	if advice.Failure == entity.FailureNone {
		texts = uc.translateAll(ctx, texts, language)
	}

	for i, seg := range advice.Segments {
		rendered.Segments[i] = entity.RenderedSegment{
			Ordinal: seg.Ordinal,
			Label:   texts[2*i],
			Body:    texts[2*i+1],
		}
	}

	if withAudio && advice.Failure == entity.FailureNone && len(rendered.Segments) > 0 {
		first := rendered.Segments[0]
		audio, err := uc.synthesize(ctx, sessionID, first.Ordinal, first.Body, language)
		if err != nil {
			ctxzap.Extract(ctx).Warn("audio advice unavailable", zap.Error(err))
			rendered.AudioNotice = entity.AudioUnavailableNotice
		} else {
			rendered.Audio = audio
		}
	}

	if rendered.Audio == nil {
		// The previous artifact belongs to a rendering that is being replaced.
		if err := uc.audio.Remove(ctx, sessionID); err != nil {
			ctxzap.Extract(ctx).Warn("failed to remove stale audio", zap.Error(err))
		}
	}

	return rendered
}

// translateAll translates texts in one batch. Any failure keeps the originals;
// blank entries are never sent and come back blank.
func (uc *Usecase) translateAll(ctx context.Context, texts []string, target entity.Language) []string {
	result := append([]string(nil), texts...)
	if target == entity.DefaultLanguage {
		return result
	}

	var (
		batch   []string
		indexes []int
	)
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			result[i] = ""
			continue
		}
		batch = append(batch, text)
		indexes = append(indexes, i)
	}
	if len(batch) == 0 {
		return result
	}

	translated, err := uc.translator.Translate(ctx, batch, target)
	if err != nil {
		ctxzap.Extract(ctx).Warn("translation failed, keeping original text",
			zap.String("language", string(target)),
			zap.String("failure", string(entity.KindOf(err))),
			zap.Error(err),
		)
		return result
	}
	if len(translated) != len(batch) {
		ctxzap.Extract(ctx).Warn("translation returned a different number of texts, keeping original text",
			zap.Int("sent", len(batch)),
			zap.Int("received", len(translated)),
		)
		return result
	}

	for j, i := range indexes {
		if strings.TrimSpace(translated[j]) != "" {
			result[i] = translated[j]
		}
	}

	return result
}

func (uc *Usecase) synthesize(
	ctx context.Context,
	sessionID string,
	ordinal int,
	text string,
	language entity.Language,
) (*entity.AudioArtifact, error) {
	audio, err := uc.speech.Synthesize(ctx, &entity.SpeechRequest{
		Text:     text,
		Language: language,
	})
	if err != nil {
		return nil, err
	}

	return uc.audio.Save(ctx, sessionID, ordinal, audio)
}
