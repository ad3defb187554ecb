package usage

import (
	"exportlens/internal"
	"exportlens/ports"
)

// Service reports completion token usage. Records are logged only; nothing
// is kept between requests.
type Service struct {
	logger *internal.Logger
}

// NewService creates a new usage service
func NewService() *Service {
	return &Service{logger: internal.DefaultLogger.With("UsageService")}
}

// RecordUsage logs the token counts of one completion. Bad usage data is
// reported but never fails the caller.
func (s *Service) RecordUsage(requestID, operationType string, usage *ports.UsageData) bool {
	if usage == nil {
		s.logger.Debug("request %s (%s): provider sent no usage data", requestID, operationType)
		return false
	}
	if usage.PromptTokens < 0 || usage.CompletionTokens < 0 || usage.TotalTokens < 0 {
		s.logger.Warn("request %s (%s): invalid token counts: %+v", requestID, operationType, *usage)
		return false
	}

	total := usage.TotalTokens
	if total == 0 {
		total = usage.PromptTokens + usage.CompletionTokens
	}
	s.logger.Info("request %s (%s) model=%s tokens prompt=%d completion=%d total=%d",
		requestID, operationType, usage.Model, usage.PromptTokens, usage.CompletionTokens, total)
	return true
}
