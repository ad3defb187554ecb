package app

import (
	"context"
	"testing"

	"exportlens/ai"
	"exportlens/domain/insight"
	"exportlens/internal/errors"
	"exportlens/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, req ports.CompletionRequest) (*ports.CompletionResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(*ports.CompletionResponse), args.Error(1)
}

type ctxKey struct{}

func TestRequestInsight_PassesContextAndSettings(t *testing.T) {
	completer := new(MockCompleter)
	ctx := context.WithValue(context.Background(), ctxKey{}, "trace")

	completer.On("Complete",
		mock.MatchedBy(func(c context.Context) bool { return c.Value(ctxKey{}) == "trace" }),
		mock.MatchedBy(func(r ports.CompletionRequest) bool {
			return r.Model == "gpt-4o-mini" && r.User == "harga kopi dunia" && r.MaxTokens == 2048
		}),
	).Return(&ports.CompletionResponse{
		Content: "Harga naik.",
		Usage:   &ports.UsageData{PromptTokens: 20, CompletionTokens: 4, TotalTokens: 24},
	}, nil).Once()

	svc := NewInsightService(completer, ai.NewPromptManager(""), InsightConfig{Model: "gpt-4o-mini", TableCharLimit: 1000})
	resp := svc.RequestInsight(ctx, insight.Request{Mode: insight.ModeGlobalSearch, Query: "harga kopi dunia"})

	assert.Equal(t, "Harga naik.", resp.Text)
	completer.AssertExpectations(t)
}

func TestRequestInsight_KeepsServiceErrorCode(t *testing.T) {
	completer := new(MockCompleter)
	cause := errors.ExternalServiceError("completion", assert.AnError)
	completer.On("Complete", mock.Anything, mock.Anything).Return((*ports.CompletionResponse)(nil), cause)

	svc := NewInsightService(completer, nil, InsightConfig{Model: "gpt-4", TableCharLimit: 1000})
	resp := svc.RequestInsight(context.Background(), insight.Request{Mode: insight.ModeFreeTextSearch, Query: "x"})

	assert.Equal(t, errors.CodeExternalService, errors.GetCode(resp.Err))
	assert.Equal(t, cause.Error(), resp.ErrorMessage, "service errors are not wrapped twice")
	completer.AssertNumberOfCalls(t, "Complete", 1)
}

func TestRequestInsight_RecoversFromPanics(t *testing.T) {
	completer := new(MockCompleter)
	completer.On("Complete", mock.Anything, mock.Anything).Panic("boom")

	svc := NewInsightService(completer, nil, InsightConfig{Model: "gpt-4", TableCharLimit: 1000})
	resp := svc.RequestInsight(context.Background(), insight.Request{Mode: insight.ModeGlobalSearch, Query: "x"})

	assert.Empty(t, resp.Text)
	assert.Contains(t, resp.ErrorMessage, "boom")
	assert.Equal(t, errors.CodeInternalError, errors.GetCode(resp.Err))
}
