package advice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/futig/medi-assistant/internal/config"
	"github.com/futig/medi-assistant/internal/entity"
	"github.com/futig/medi-assistant/internal/pkg/validator"
	"github.com/futig/medi-assistant/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLLM struct {
	mu       sync.Mutex
	answer   string
	err      error
	requests []*entity.CompletionRequest
}

func (f *fakeLLM) Complete(_ context.Context, req *entity.CompletionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.answer, f.err
}

func (f *fakeLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type fakeTranslator struct {
	err     error
	short   bool
	calls   int
	targets []entity.Language
}

func (f *fakeTranslator) Translate(_ context.Context, texts []string, target entity.Language) ([]string, error) {
	f.calls++
	f.targets = append(f.targets, target)
	if f.err != nil {
		return nil, f.err
	}
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = "[" + string(target) + "] " + t
	}
	if f.short {
		return out[:len(out)-1], nil
	}
	return out, nil
}

type fakeSpeech struct {
	err   error
	calls int
	texts []string
}

func (f *fakeSpeech) Synthesize(_ context.Context, req *entity.SpeechRequest) (*entity.SpeechAudio, error) {
	f.calls++
	f.texts = append(f.texts, req.Text)
	if f.err != nil {
		return nil, f.err
	}
	return &entity.SpeechAudio{Data: []byte("ID3-audio"), ContentType: "audio/mpeg"}, nil
}

type recordingHistory struct {
	mu      sync.Mutex
	records []entity.AdviceHistoryRecord
}

func (h *recordingHistory) Append(_ context.Context, record entity.AdviceHistoryRecord) (*entity.AdviceHistoryRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, record)
	return &record, nil
}

func (h *recordingHistory) ListBySession(_ context.Context, sessionID string, limit int) ([]*entity.AdviceHistoryRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []*entity.AdviceHistoryRecord
	for i := len(h.records) - 1; i >= 0 && len(out) < limit; i-- {
		if h.records[i].SessionID == sessionID {
			r := h.records[i]
			out = append(out, &r)
		}
	}
	return out, nil
}

type testEnv struct {
	uc         *Usecase
	llm        *fakeLLM
	translator *fakeTranslator
	speech     *fakeSpeech
	history    *recordingHistory
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	audio, err := repository.NewAudioFileStore(t.TempDir())
	require.NoError(t, err)

	env := &testEnv{
		llm:        &fakeLLM{answer: fiveDoctorAnswer},
		translator: &fakeTranslator{},
		speech:     &fakeSpeech{},
		history:    &recordingHistory{},
	}

	env.uc = NewUsecase(
		repository.NewSessionCache(time.Hour, time.Minute, nil),
		audio,
		env.history,
		validator.NewValidator(config.SessionConfig{MaxInputLength: 200, DefaultLanguage: "en"}),
		env.llm,
		env.translator,
		env.speech,
		Options{SuggestionMaxTokens: 200},
		zap.NewNop(),
	)
	env.uc.now = func() time.Time { return time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC) }

	return env
}

func (e *testEnv) sessionWithSymptoms(t *testing.T, input string) string {
	t.Helper()
	ctx := context.Background()

	session, err := e.uc.CreateSession(ctx)
	require.NoError(t, err)

	_, err = e.uc.SetSymptomsInput(ctx, session.ID, &entity.SymptomsInputRequest{Input: input})
	require.NoError(t, err)

	return session.ID
}

func TestGenerateAdvice_TextInEnglish(t *testing.T) {
	env := newTestEnv(t)
	id := env.sessionWithSymptoms(t, "fever with headache")

	session, err := env.uc.GenerateAdvice(context.Background(), id, &entity.AdviceRequest{
		Conditions: []string{"hypertension"},
	})
	require.NoError(t, err)

	require.Equal(t, 1, env.llm.calls())
	req := env.llm.requests[0]
	assert.Equal(t, SystemInstruction, req.SystemInstruction)
	assert.Contains(t, req.Prompt, "fever with headache")
	assert.Contains(t, req.Prompt, "Hypertension")

	assert.Equal(t, entity.FailureNone, session.Advice.Failure)
	assert.Len(t, session.Advice.Segments, 6)
	assert.Len(t, session.Rendered.Segments, 6)
	assert.Equal(t, entity.Language("en"), session.Rendered.Language)
	assert.Nil(t, session.Rendered.Audio)
	assert.Zero(t, env.translator.calls, "english needs no translation")
	assert.Zero(t, env.speech.calls)

	require.Len(t, env.history.records, 1)
	assert.Equal(t, 6, env.history.records[0].SegmentCount)
	assert.Equal(t, []entity.Condition{entity.ConditionHypertension}, env.history.records[0].Conditions)
}

func TestGenerateAdvice_OmittedConditionsKeepSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.sessionWithSymptoms(t, "fever")

	_, err := env.uc.SetConditions(ctx, id, []string{"asthma"})
	require.NoError(t, err)

	session, err := env.uc.GenerateAdvice(ctx, id, &entity.AdviceRequest{})
	require.NoError(t, err)
	assert.Equal(t, []entity.Condition{entity.ConditionAsthma}, session.Report.Conditions)
	assert.Contains(t, env.llm.requests[0].Prompt, "Asthma")

	session, err = env.uc.GenerateAdvice(ctx, id, &entity.AdviceRequest{Conditions: []string{}})
	require.NoError(t, err)
	assert.Empty(t, session.Report.Conditions)
	assert.Contains(t, env.llm.requests[1].Prompt, "None")
}

func TestGenerateAdvice_TranslatedWithAudio(t *testing.T) {
	env := newTestEnv(t)
	id := env.sessionWithSymptoms(t, "cough")
	ctx := context.Background()

	session, err := env.uc.GenerateAdvice(ctx, id, &entity.AdviceRequest{Language: "Hindi", Audio: true})
	require.NoError(t, err)

	assert.Equal(t, 1, env.translator.calls, "one batch per action")
	assert.Equal(t, []entity.Language{"hi"}, env.translator.targets)

	first := session.Rendered.Segments[0]
	assert.Equal(t, "[hi] "+entity.GeneralAdviceLabel, first.Label)
	assert.Equal(t, "[hi] "+session.Advice.Segments[0].Body, first.Body)

	require.NotNil(t, session.Rendered.Audio)
	assert.Empty(t, session.Rendered.AudioNotice)
	assert.Equal(t, []string{first.Body}, env.speech.texts)

	data, artifact, err := env.uc.Audio(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("ID3-audio"), data)
	assert.Equal(t, "audio/mpeg", artifact.ContentType)
}

func TestGenerateAdvice_ModelFailure(t *testing.T) {
	env := newTestEnv(t)
	env.llm.err = entity.NewServiceError(entity.ServiceModel, entity.FailureTransport, errors.New("connection refused"))
	id := env.sessionWithSymptoms(t, "dizziness")

	session, err := env.uc.GenerateAdvice(context.Background(), id, &entity.AdviceRequest{Language: "ta", Audio: true})
	require.NoError(t, err)

	assert.Equal(t, entity.FailureTransport, session.Advice.Failure)
	assert.Equal(t, entity.PlaceholderTransport, session.Advice.Raw)
	require.Len(t, session.Rendered.Segments, 1)
	assert.Equal(t, entity.PlaceholderTransport, session.Rendered.Segments[0].Body)

	assert.Zero(t, env.translator.calls, "placeholder is not translated")
	assert.Zero(t, env.speech.calls, "placeholder is not spoken")
	assert.Nil(t, session.Rendered.Audio)
}

func TestGenerateAdvice_MissingKeyPlaceholder(t *testing.T) {
	env := newTestEnv(t)
	env.llm.err = entity.NewServiceError(entity.ServiceModel, entity.FailureConfigurationMissing, nil)
	id := env.sessionWithSymptoms(t, "rash")

	session, err := env.uc.GenerateAdvice(context.Background(), id, &entity.AdviceRequest{})
	require.NoError(t, err)

	assert.Equal(t, entity.FailureConfigurationMissing, session.Advice.Failure)
	assert.Equal(t, entity.PlaceholderConfigurationMissing, session.Rendered.Segments[0].Body)
}

func TestGenerateAdvice_EmptyAnswerIsMalformed(t *testing.T) {
	env := newTestEnv(t)
	env.llm.answer = "  **  ** \n"
	id := env.sessionWithSymptoms(t, "rash")

	session, err := env.uc.GenerateAdvice(context.Background(), id, &entity.AdviceRequest{})
	require.NoError(t, err)

	assert.Equal(t, entity.FailureMalformedResponse, session.Advice.Failure)
}

func TestGenerateAdvice_TranslationFailureKeepsOriginal(t *testing.T) {
	for name, translator := range map[string]*fakeTranslator{
		"error":           {err: errors.New("503")},
		"length mismatch": {short: true},
	} {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t)
			env.uc.translator = translator
			id := env.sessionWithSymptoms(t, "back pain")

			session, err := env.uc.GenerateAdvice(context.Background(), id, &entity.AdviceRequest{Language: "bn"})
			require.NoError(t, err)

			assert.Equal(t, entity.Language("bn"), session.Rendered.Language)
			for i, seg := range session.Advice.Segments {
				assert.Equal(t, seg.Body, session.Rendered.Segments[i].Body)
				assert.Equal(t, seg.Label, session.Rendered.Segments[i].Label)
			}
		})
	}
}

func TestGenerateAdvice_SpeechFailure(t *testing.T) {
	env := newTestEnv(t)
	env.speech.err = entity.NewServiceError(entity.ServiceSpeech, entity.FailureMalformedResponse, nil)
	id := env.sessionWithSymptoms(t, "sore throat")
	ctx := context.Background()

	session, err := env.uc.GenerateAdvice(ctx, id, &entity.AdviceRequest{Audio: true})
	require.NoError(t, err)

	assert.Nil(t, session.Rendered.Audio)
	assert.Equal(t, entity.AudioUnavailableNotice, session.Rendered.AudioNotice)
	assert.Len(t, session.Rendered.Segments, 6)

	_, _, err = env.uc.Audio(ctx, id)
	assert.ErrorIs(t, err, entity.ErrNoAudio)
}

func TestGenerateAdvice_TextActionDropsPreviousAudio(t *testing.T) {
	env := newTestEnv(t)
	id := env.sessionWithSymptoms(t, "fever")
	ctx := context.Background()

	_, err := env.uc.GenerateAdvice(ctx, id, &entity.AdviceRequest{Audio: true})
	require.NoError(t, err)
	_, _, err = env.uc.Audio(ctx, id)
	require.NoError(t, err)

	_, err = env.uc.GenerateAdvice(ctx, id, &entity.AdviceRequest{})
	require.NoError(t, err)

	_, _, err = env.uc.Audio(ctx, id)
	assert.ErrorIs(t, err, entity.ErrNoAudio)
}

func TestGenerateAdvice_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		req     *entity.AdviceRequest
		wantErr error
	}{
		{name: "empty symptoms", input: "", req: &entity.AdviceRequest{}, wantErr: entity.ErrEmptySymptoms},
		{name: "unknown condition", input: "fever", req: &entity.AdviceRequest{Conditions: []string{"Flu"}}, wantErr: entity.ErrUnknownCondition},
		{name: "unknown language", input: "fever", req: &entity.AdviceRequest{Language: "xx"}, wantErr: entity.ErrUnknownLanguage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			id := env.sessionWithSymptoms(t, tt.input)

			_, err := env.uc.GenerateAdvice(context.Background(), id, tt.req)
			require.ErrorIs(t, err, tt.wantErr)
			assert.True(t, entity.IsValidationError(err))
			assert.Zero(t, env.llm.calls(), "no outbound call on invalid input")
		})
	}
}

func TestGenerateAdvice_UnknownSession(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.uc.GenerateAdvice(context.Background(), "missing", &entity.AdviceRequest{})
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
}

func TestSuggestions_GenerateAndAccept(t *testing.T) {
	env := newTestEnv(t)
	env.llm.answer = "Are you feeling tired?\nHave you traveled recently?"
	id := env.sessionWithSymptoms(t, "fever")
	ctx := context.Background()

	session, err := env.uc.GenerateSuggestions(ctx, id, &entity.SuggestionsRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Are you feeling tired?", "Have you traveled recently?"}, session.Suggestions.Items)
	assert.Equal(t, SuggestionInstruction, env.llm.requests[0].SystemInstruction)
	assert.Equal(t, 200, env.llm.requests[0].MaxTokens)

	session, err = env.uc.AcceptSuggestion(ctx, id, &entity.AcceptSuggestionRequest{Suggestion: "Have you traveled recently?"})
	require.NoError(t, err)
	assert.Equal(t, []string{"fever", "I had traveled recently"}, session.Report.Symptoms)
	assert.Equal(t, []string{"Are you feeling tired?"}, session.Suggestions.Items)

	_, err = env.uc.AcceptSuggestion(ctx, id, &entity.AcceptSuggestionRequest{Suggestion: "Have you traveled recently?"})
	assert.ErrorIs(t, err, entity.ErrUnknownSuggestion)
}

func TestSuggestions_NoSymptomsNoCall(t *testing.T) {
	env := newTestEnv(t)
	id := env.sessionWithSymptoms(t, "")

	session, err := env.uc.GenerateSuggestions(context.Background(), id, &entity.SuggestionsRequest{})
	require.NoError(t, err)

	assert.Empty(t, session.Suggestions.Items)
	assert.Zero(t, env.llm.calls())
}

func TestSuggestions_ModelFailure(t *testing.T) {
	env := newTestEnv(t)
	env.llm.err = entity.NewServiceError(entity.ServiceModel, entity.FailureTransport, errors.New("timeout"))
	id := env.sessionWithSymptoms(t, "fever")

	session, err := env.uc.GenerateSuggestions(context.Background(), id, &entity.SuggestionsRequest{})
	require.NoError(t, err)

	assert.Empty(t, session.Suggestions.Items)
	assert.Equal(t, entity.FailureTransport, session.Suggestions.Failure)
}

func TestReportAndHistory(t *testing.T) {
	env := newTestEnv(t)
	id := env.sessionWithSymptoms(t, "fever")
	ctx := context.Background()

	_, err := env.uc.Report(ctx, id)
	assert.ErrorIs(t, err, entity.ErrNoAdvice)

	_, err = env.uc.GenerateAdvice(ctx, id, &entity.AdviceRequest{Conditions: []string{"Asthma"}})
	require.NoError(t, err)

	report, err := env.uc.Report(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.Disclaimer, report.Disclaimer)
	assert.Equal(t, entity.RedFlags, report.RedFlags)
	assert.Equal(t, []string{"fever"}, report.Symptoms)
	assert.Len(t, report.Segments, 6)
	assert.Equal(t, "2025-03-01 10:30", report.GeneratedAt.Format(entity.TimestampLayout))

	records, err := env.uc.History(ctx, id, 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	_, err = env.uc.History(ctx, id, 1000)
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestClearSession(t *testing.T) {
	env := newTestEnv(t)
	id := env.sessionWithSymptoms(t, "fever")
	ctx := context.Background()

	_, err := env.uc.GenerateAdvice(ctx, id, &entity.AdviceRequest{Language: "hi", Audio: true})
	require.NoError(t, err)

	session, err := env.uc.ClearSession(ctx, id)
	require.NoError(t, err)

	assert.Empty(t, session.Report.Symptoms)
	assert.Nil(t, session.Advice)
	assert.Nil(t, session.Rendered)
	assert.Equal(t, entity.Language("hi"), session.Language)

	_, _, err = env.uc.Audio(ctx, id)
	assert.ErrorIs(t, err, entity.ErrNoAudio)
}
