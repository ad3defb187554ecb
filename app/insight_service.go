package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"exportlens/ai"
	"exportlens/domain/insight"
	"exportlens/internal"
	"exportlens/internal/errors"
	"exportlens/internal/usage"
	"exportlens/ports"

	"github.com/google/uuid"
)

// NoDataMessage is returned instead of calling the completion service when
// a table-grounded insight is asked for without any rows.
const NoDataMessage = "Tidak ada data untuk dianalisis. Mohon unggah file."

// DefaultTableCharLimit caps the table text embedded in analysis prompts
const DefaultTableCharLimit = 12000

const defaultAnalysisQuery = "Berikan wawasan tentang pola, anomali, atau tren dalam data ini."

// InsightConfig holds the fixed completion settings of the dashboard
type InsightConfig struct {
	Model          string
	Params         insight.ModelParams
	TableCharLimit int
}

// InsightService builds prompts and forwards them to the completion service
type InsightService struct {
	completer ports.Completer
	prompts   *ai.PromptManager
	config    InsightConfig
	usage     *usage.Service
	logger    *internal.Logger
}

// NewInsightService wires a completer and prompt templates into an insight requester
func NewInsightService(completer ports.Completer, prompts *ai.PromptManager, config InsightConfig) *InsightService {
	if config.Params == (insight.ModelParams{}) {
		config.Params = insight.DefaultModelParams()
	}
	if config.TableCharLimit <= 0 {
		config.TableCharLimit = DefaultTableCharLimit
	}
	if prompts == nil {
		prompts = ai.NewPromptManager("")
	}
	return &InsightService{
		completer: completer,
		prompts:   prompts,
		config:    config,
		usage:     usage.NewService(),
		logger:    internal.DefaultLogger.With("InsightService"),
	}
}

type prompt struct {
	system    string
	user      string
	truncated bool
}

// RequestInsight performs one insight round-trip. It never returns an error
// or panics past this boundary: failures come back in Response.Err and
// Response.ErrorMessage. Identical requests are always re-sent.
func (s *InsightService) RequestInsight(ctx context.Context, req insight.Request) (resp insight.Response) {
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("request %s panicked: %v", id, r)
			resp = insight.Failed(id, req.Mode, errors.InternalError(fmt.Sprintf("insight request panicked: %v", r)))
		}
	}()

	if req.Mode.UsesTable() && req.Table.IsEmpty() {
		s.logger.Info("request %s mode=%s: no data, skipping completion call", id, req.Mode)
		return insight.Succeeded(id, req.Mode, NoDataMessage)
	}

	p, err := s.buildPrompt(req)
	if err != nil {
		return insight.Failed(id, req.Mode, err)
	}

	params := req.Params
	if params == (insight.ModelParams{}) {
		params = s.config.Params
	}

	s.logger.Info("request %s mode=%s promptLength=%d truncated=%t", id, req.Mode, len(p.user), p.truncated)
	out, err := s.completer.Complete(ctx, ports.CompletionRequest{
		Model:       s.config.Model,
		System:      p.system,
		User:        p.user,
		MaxTokens:   params.MaxOutputTokens,
		Temperature: params.Temperature,
	})
	if err != nil {
		if !errors.HasCode(err, errors.CodeExternalService) {
			err = errors.ExternalServiceError("completion", err)
		}
		s.logger.Warn("request %s failed: %v", id, err)
		return insight.Failed(id, req.Mode, err)
	}
	if out == nil || strings.TrimSpace(out.Content) == "" {
		err := errors.ExternalServiceError("completion", fmt.Errorf("empty completion"))
		s.logger.Warn("request %s failed: %v", id, err)
		return insight.Failed(id, req.Mode, err)
	}
	s.usage.RecordUsage(id, req.Mode.String(), out.Usage)

	resp = insight.Succeeded(id, req.Mode, out.Content)
	resp.Truncated = p.truncated
	return resp
}

func (s *InsightService) buildPrompt(req insight.Request) (prompt, error) {
	query := strings.TrimSpace(req.Query)
	if req.Mode.NeedsQuery() && query == "" {
		return prompt{}, errors.InvalidInput("search query is empty")
	}

	switch req.Mode {
	case insight.ModeDatasetSummary:
		system, err := s.prompts.LoadPrompt(ai.PromptAnalystSystem)
		if err != nil {
			return prompt{}, errors.Wrap(err, "load prompt")
		}
		user, err := s.prompts.RenderPrompt(ai.PromptDatasetSummary, map[string]string{
			"COLUMNS": strings.Join(req.Table.ColumnNames(), ", "),
		})
		if err != nil {
			return prompt{}, errors.Wrap(err, "render prompt")
		}
		return prompt{system: system, user: user}, nil

	case insight.ModeAnalysisOfData:
		if query == "" {
			query = defaultAnalysisQuery
		}
		system, err := s.prompts.LoadPrompt(ai.PromptAnalystSystem)
		if err != nil {
			return prompt{}, errors.Wrap(err, "load prompt")
		}
		text, rows := fitTableText(req.Table, s.config.TableCharLimit)
		truncated := rows < req.Table.RowCount()
		note := ""
		if truncated {
			note = fmt.Sprintf("(Catatan: hanya %d dari %d baris pertama yang disertakan karena batas ukuran.)\n", rows, req.Table.RowCount())
		}
		user, err := s.prompts.RenderPrompt(ai.PromptAnalysisOfData, map[string]string{
			"SOURCE":  req.Table.Name(),
			"ROWS":    strconv.Itoa(req.Table.RowCount()),
			"COLUMNS": strings.Join(req.Table.ColumnNames(), ", "),
			"TABLE":   text,
			"NOTE":    note,
			"QUERY":   query,
		})
		if err != nil {
			return prompt{}, errors.Wrap(err, "render prompt")
		}
		return prompt{system: system, user: user, truncated: truncated}, nil

	case insight.ModeFreeTextSearch, insight.ModeGlobalSearch:
		name := ai.PromptSearchSystem
		if req.Mode == insight.ModeGlobalSearch {
			name = ai.PromptGlobalSearchSystem
		}
		system, err := s.prompts.LoadPrompt(name)
		if err != nil {
			return prompt{}, errors.Wrap(err, "load prompt")
		}
		return prompt{system: system, user: query}, nil

	default:
		return prompt{}, errors.InvalidInput(fmt.Sprintf("unsupported insight mode %s", req.Mode))
	}
}
