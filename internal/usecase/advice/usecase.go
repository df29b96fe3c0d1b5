package advice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/futig/medi-assistant/internal/entity"
	"github.com/futig/medi-assistant/internal/pkg/validator"
	"github.com/futig/medi-assistant/internal/repository"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// Options tunes model calls made by the usecase.
type Options struct {
	// SuggestionMaxTokens caps the follow-up question answer; advice uses the connector default.
	SuggestionMaxTokens int
}

// Usecase implements the advice pipeline on top of explicit per-session state.
type Usecase struct {
	sessions   repository.SessionRepository
	audio      repository.AudioRepository
	history    repository.HistoryRepository
	validator  *validator.Validator
	llm        LLMConnector
	translator TranslateConnector
	speech     SpeechConnector
	opts       Options
	now        func() time.Time
	logger     *zap.Logger
}

// NewUsecase creates a new advice use case
func NewUsecase(
	sessions repository.SessionRepository,
	audio repository.AudioRepository,
	history repository.HistoryRepository,
	validator *validator.Validator,
	llm LLMConnector,
	translator TranslateConnector,
	speech SpeechConnector,
	opts Options,
	logger *zap.Logger,
) *Usecase {
	return &Usecase{
		sessions:   sessions,
		audio:      audio,
		history:    history,
		validator:  validator,
		llm:        llm,
		translator: translator,
		speech:     speech,
		opts:       opts,
		now:        time.Now,
		logger:     logger,
	}
}

// CreateSession starts an empty session with a random id.
func (uc *Usecase) CreateSession(ctx context.Context) (*entity.Session, error) {
	session, err := uc.sessions.Create(ctx, uc.newSession(uuid.New().String()))
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return session, nil
}

// EnsureSession returns the session with the given id, creating it if needed.
// Chat front ends use it with ids derived from the chat.
func (uc *Usecase) EnsureSession(ctx context.Context, id string) (*entity.Session, error) {
	session, err := uc.sessions.GetOrCreate(ctx, id, func() *entity.Session {
		return uc.newSession(id)
	})
	if err != nil {
		return nil, fmt.Errorf("ensure session: %w", err)
	}

	return session, nil
}

func (uc *Usecase) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	session, err := uc.sessions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	return session, nil
}

// DeleteSession drops the session; its audio file goes with it.
func (uc *Usecase) DeleteSession(ctx context.Context, id string) error {
	if err := uc.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// ClearSession forgets symptoms, conditions, advice and suggestions but keeps
// the session and its language.
func (uc *Usecase) ClearSession(ctx context.Context, id string) (*entity.Session, error) {
	session, err := uc.sessions.Update(ctx, id, func(s *entity.Session) error {
		s.Report = entity.SymptomReport{Symptoms: []string{}, Conditions: []entity.Condition{}}
		s.Advice = nil
		s.Rendered = nil
		s.Suggestions = entity.SuggestionSet{Items: []string{}}
		s.UpdatedAt = uc.now()

		if err := uc.audio.Remove(ctx, s.ID); err != nil {
			ctxzap.Extract(ctx).Warn("failed to remove audio", zap.Error(err))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("clear session: %w", err)
	}

	return session, nil
}

// SetSymptomsInput replaces the symptom list with the phrases of the input field.
func (uc *Usecase) SetSymptomsInput(ctx context.Context, id string, req *entity.SymptomsInputRequest) (*entity.Session, error) {
	if err := uc.validator.ValidateSymptomsInput(req); err != nil {
		return nil, err
	}

	session, err := uc.sessions.Update(ctx, id, func(s *entity.Session) error {
		s.Report.Symptoms = ParseSymptomsInput(req.Input)
		s.UpdatedAt = uc.now()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("set symptoms: %w", err)
	}

	return session, nil
}

// SetConditions replaces the prior-condition tags.
func (uc *Usecase) SetConditions(ctx context.Context, id string, raw []string) (*entity.Session, error) {
	conditions, err := uc.validator.ParseConditions(raw)
	if err != nil {
		return nil, err
	}

	session, err := uc.sessions.Update(ctx, id, func(s *entity.Session) error {
		s.Report.Conditions = conditions
		s.UpdatedAt = uc.now()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("set conditions: %w", err)
	}

	return session, nil
}

// SetLanguage changes the output language used by later advice actions.
func (uc *Usecase) SetLanguage(ctx context.Context, id, raw string) (*entity.Session, error) {
	language, err := uc.validator.ParseLanguage(raw)
	if err != nil {
		return nil, err
	}

	session, err := uc.sessions.Update(ctx, id, func(s *entity.Session) error {
		s.Language = language
		s.UpdatedAt = uc.now()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("set language: %w", err)
	}

	return session, nil
}

// GenerateAdvice runs the whole pipeline for one "Get Advice" action: prompt,
// model call, segmentation, translation and optional speech. Model failures are
// not errors: the session then holds a placeholder answer with Failure set.
// Invalid input fails before any outbound call.
func (uc *Usecase) GenerateAdvice(ctx context.Context, id string, req *entity.AdviceRequest) (*entity.Session, error) {
	action, err := uc.validator.ValidateAdviceRequest(req)
	if err != nil {
		return nil, err
	}

	session, err := uc.sessions.Update(ctx, id, func(s *entity.Session) error {
		if len(s.Report.Symptoms) == 0 {
			return entity.ErrEmptySymptoms
		}

		if req.Conditions != nil {
			s.Report.Conditions = action.Conditions
		}
		s.Language = action.Language

		advice := uc.askForAdvice(ctx, s.Report)
		s.Advice = advice
		s.Rendered = uc.render(ctx, s.ID, advice, action.Language, action.WithAudio)
		s.UpdatedAt = uc.now()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("generate advice: %w", err)
	}

	uc.recordHistory(ctx, session, action.WithAudio)

	return session, nil
}

func (uc *Usecase) askForAdvice(ctx context.Context, report entity.SymptomReport) *entity.AdviceResponse {
	raw, err := uc.llm.Complete(ctx, &entity.CompletionRequest{
		Kind:              entity.CompletionAdvice,
		SystemInstruction: SystemInstruction,
		Prompt:            BuildAdvicePrompt(report.Symptoms, report.Conditions),
	})
	if err != nil {
		kind := entity.KindOf(err)
		ctxzap.Extract(ctx).Warn("advice model call failed",
			zap.String("failure", string(kind)),
			zap.Error(err),
		)
		return placeholderAdvice(kind)
	}

	segments := Segment(raw)
	if len(segments) == 0 {
		ctxzap.Extract(ctx).Warn("advice answer has no content after segmentation")
		return placeholderAdvice(entity.FailureMalformedResponse)
	}

	ctxzap.Extract(ctx).Info("advice generated",
		zap.Int("segments", len(segments)),
		zap.Int("delimiters", CountDelimiters(raw)),
	)

	return &entity.AdviceResponse{
		Raw:      raw,
		Segments: segments,
	}
}

func placeholderAdvice(kind entity.FailureKind) *entity.AdviceResponse {
	text := entity.Placeholder(kind)
	return &entity.AdviceResponse{
		Raw: text,
		Segments: []entity.AdviceSegment{{
			Ordinal: 0,
			Label:   entity.GeneralAdviceLabel,
			Body:    text,
		}},
		Failure: kind,
	}
}

func (uc *Usecase) recordHistory(ctx context.Context, session *entity.Session, withAudio bool) {
	record := entity.AdviceHistoryRecord{
		ID:           uuid.New().String(),
		SessionID:    session.ID,
		Language:     session.Language,
		Symptoms:     session.Report.Symptoms,
		Conditions:   session.Report.Conditions,
		Failure:      session.Advice.Failure,
		SegmentCount: len(session.Advice.Segments),
		RawResponse:  session.Advice.Raw,
		WithAudio:    withAudio && session.Rendered.Audio != nil,
		CreatedAt:    session.Rendered.GeneratedAt,
	}

	if _, err := uc.history.Append(ctx, record); err != nil {
		ctxzap.Extract(ctx).Warn("failed to record advice history", zap.Error(err))
	}
}

// GenerateSuggestions asks the model for follow-up questions about the current
// symptoms. No symptoms means no call and an empty set.
func (uc *Usecase) GenerateSuggestions(ctx context.Context, id string, req *entity.SuggestionsRequest) (*entity.Session, error) {
	conditions, err := uc.validator.ParseConditions(req.Conditions)
	if err != nil {
		return nil, err
	}

	session, err := uc.sessions.Update(ctx, id, func(s *entity.Session) error {
		if req.Conditions != nil {
			s.Report.Conditions = conditions
		}
		s.Suggestions = uc.askForSuggestions(ctx, s.Report)
		s.UpdatedAt = uc.now()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("generate suggestions: %w", err)
	}

	return session, nil
}

func (uc *Usecase) askForSuggestions(ctx context.Context, report entity.SymptomReport) entity.SuggestionSet {
	if len(report.Symptoms) == 0 {
		return entity.SuggestionSet{Items: []string{}}
	}

	raw, err := uc.llm.Complete(ctx, &entity.CompletionRequest{
		Kind:              entity.CompletionSuggestions,
		SystemInstruction: SuggestionInstruction,
		Prompt:            BuildSuggestionPrompt(report.Symptoms, report.Conditions),
		MaxTokens:         uc.opts.SuggestionMaxTokens,
	})
	if err != nil {
		kind := entity.KindOf(err)
		ctxzap.Extract(ctx).Warn("suggestion model call failed",
			zap.String("failure", string(kind)),
			zap.Error(err),
		)
		return entity.SuggestionSet{Items: []string{}, Failure: kind}
	}

	return entity.SuggestionSet{Items: ParseSuggestions(raw)}
}

// AcceptSuggestion turns one of the current suggestions into a symptom phrase
// and appends it to the report unless it is already there.
func (uc *Usecase) AcceptSuggestion(ctx context.Context, id string, req *entity.AcceptSuggestionRequest) (*entity.Session, error) {
	if err := uc.validator.ValidateAcceptSuggestion(req); err != nil {
		return nil, err
	}

	wanted := strings.TrimSpace(req.Suggestion)

	session, err := uc.sessions.Update(ctx, id, func(s *entity.Session) error {
		index := -1
		for i, item := range s.Suggestions.Items {
			if item == wanted {
				index = i
				break
			}
		}
		if index < 0 {
			return fmt.Errorf("%w: %q", entity.ErrUnknownSuggestion, wanted)
		}

		s.Report.Symptoms = MergeSymptoms(s.Report.Symptoms, SuggestionToSymptom(wanted))
		s.Suggestions.Items = append(s.Suggestions.Items[:index], s.Suggestions.Items[index+1:]...)
		s.UpdatedAt = uc.now()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("accept suggestion: %w", err)
	}

	return session, nil
}

// Audio returns the bytes of the current audio artifact.
func (uc *Usecase) Audio(ctx context.Context, id string) ([]byte, *entity.AudioArtifact, error) {
	session, err := uc.sessions.Get(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("get session: %w", err)
	}

	if session.Rendered == nil || session.Rendered.Audio == nil {
		return nil, nil, entity.ErrNoAudio
	}

	data, err := uc.audio.Load(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("load audio: %w", err)
	}

	return data, session.Rendered.Audio, nil
}

// Report builds the exportable form of the current rendered advice.
func (uc *Usecase) Report(ctx context.Context, id string) (*entity.AdviceReport, error) {
	session, err := uc.sessions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.Rendered == nil {
		return nil, entity.ErrNoAdvice
	}

	return &entity.AdviceReport{
		Title:       entity.ReportTitle,
		Disclaimer:  entity.Disclaimer,
		Symptoms:    session.Report.Symptoms,
		Conditions:  session.Report.Conditions,
		Language:    session.Rendered.Language,
		Segments:    session.Rendered.Segments,
		RedFlags:    entity.RedFlags,
		GeneratedAt: session.Rendered.GeneratedAt,
	}, nil
}

// History lists earlier advice actions of a session, newest first.
func (uc *Usecase) History(ctx context.Context, id string, limit int) ([]*entity.AdviceHistoryRecord, error) {
	switch {
	case limit == 0:
		limit = defaultHistoryLimit
	case limit < 0 || limit > maxHistoryLimit:
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", entity.ErrInvalidParameter, maxHistoryLimit)
	}

	records, err := uc.history.ListBySession(ctx, id, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	return records, nil
}

func (uc *Usecase) newSession(id string) *entity.Session {
	language, err := uc.validator.ParseLanguage("")
	if err != nil || language == "" {
		language = entity.DefaultLanguage
	}

	now := uc.now()
	return &entity.Session{
		ID:          id,
		Language:    language,
		Report:      entity.SymptomReport{Symptoms: []string{}, Conditions: []entity.Condition{}},
		Suggestions: entity.SuggestionSet{Items: []string{}},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
