package llm

import (
	"context"

	"github.com/futig/medi-assistant/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector returns canned answers shaped like the real model output.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

const mockAdvice = `Your symptoms are most often caused by a common viral infection. Rest, drink plenty of fluids and watch for warning signs.

Doctor 1: **Dr. Anita Mehra, MBBS, General Physician**
Paracetamol 500 mg up to every 6 hours can ease fever and aches. Do not exceed 4 g a day.
Reference: World Health Organization, fever management guidance.

Doctor 2: **Dr. Rahul Iyer, MD Internal Medicine**
Drink oral rehydration solution and eat light meals. Rest for at least two days.
Reference: Mayo Clinic, dehydration overview.

Doctor 3: **Dr. Sara Thomas, Family Medicine**
Track your temperature twice a day. See a doctor if the fever lasts longer than three days.
Reference: NHS, high temperature (fever) in adults.

Doctor 4: **Dr. Imran Qureshi, MD Pulmonology**
Warm steam inhalation can relieve a blocked nose. Avoid smoke and dust.
Reference: American Lung Association, cold and flu care.

Doctor 5: **Dr. Kavya Nair, MD Cardiology**
If you have high blood pressure, avoid decongestants that raise it and keep taking your usual medicines.
Reference: American Heart Association, cold medicine and blood pressure.
`

const mockSuggestions = `Do you have a sore throat?
Are you feeling unusually tired?
Have you had chills or night sweats?
Do you have a cough?
Have you traveled recently?`

func (m *MockConnector) Complete(ctx context.Context, req *entity.CompletionRequest) (string, error) {
	ctxzap.Info(ctx, "[MOCK] chat completion", zap.String("kind", string(req.Kind)))

	if req.Kind == entity.CompletionSuggestions {
		return mockSuggestions, nil
	}

	return mockAdvice, nil
}
