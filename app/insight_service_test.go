package app

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"exportlens/adapters/llm"
	"exportlens/ai"
	"exportlens/domain/insight"
	"exportlens/domain/table"
	"exportlens/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInsightService(completer *llm.MockCompleter, limit int) *InsightService {
	return NewInsightService(completer, ai.NewPromptManager(""), InsightConfig{Model: "gpt-4", TableCharLimit: limit})
}

func bigTable(t *testing.T, rows int) *table.Table {
	t.Helper()
	data := make([][]string, rows)
	for i := range data {
		data[i] = []string{fmt.Sprintf("Negara-%03d", i), fmt.Sprintf("%d", i*10)}
	}
	tbl, err := table.New("besar.csv", []string{"Negara", "Nilai_Ekspor"}, data)
	require.NoError(t, err)
	return tbl
}

// exactly one of Text and ErrorMessage is set
func assertExclusive(t *testing.T, resp insight.Response) {
	t.Helper()
	assert.NotEqual(t, resp.Text == "", resp.ErrorMessage == "", "text=%q error=%q", resp.Text, resp.ErrorMessage)
	assert.NotEmpty(t, resp.RequestID)
}

func TestRequestInsight_DatasetSummary(t *testing.T) {
	completer := &llm.MockCompleter{Response: "Cina mendominasi."}
	svc := newInsightService(completer, 12000)

	resp := svc.RequestInsight(context.Background(), insight.Request{Mode: insight.ModeDatasetSummary, Table: exportTable(t)})
	assertExclusive(t, resp)
	assert.True(t, resp.OK())
	assert.Equal(t, "Cina mendominasi.", resp.Text)

	reqs := completer.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "gpt-4", reqs[0].Model)
	assert.Contains(t, reqs[0].System, "analis data")
	assert.Contains(t, reqs[0].User, "Negara, Nilai_Ekspor")
	assert.NotContains(t, reqs[0].User, "Jepang", "only column names are sent")
	assert.Equal(t, 2048, reqs[0].MaxTokens)
	assert.Equal(t, 1.0, reqs[0].Temperature)
}

func TestRequestInsight_EmptyTableSkipsCall(t *testing.T) {
	empty, err := table.New("kosong.csv", []string{"Negara"}, nil)
	require.NoError(t, err)

	for _, mode := range []insight.Mode{insight.ModeDatasetSummary, insight.ModeAnalysisOfData} {
		for _, tbl := range []*table.Table{nil, empty} {
			completer := &llm.MockCompleter{Response: "unused"}
			resp := newInsightService(completer, 12000).RequestInsight(context.Background(), insight.Request{Mode: mode, Table: tbl})

			assertExclusive(t, resp)
			assert.Equal(t, NoDataMessage, resp.Text)
			assert.Empty(t, completer.Requests())
		}
	}
}

func TestRequestInsight_FreeTextIgnoresTable(t *testing.T) {
	completer := &llm.MockCompleter{Response: "Jawaban."}
	svc := newInsightService(completer, 12000)

	resp := svc.RequestInsight(context.Background(), insight.Request{
		Mode:  insight.ModeFreeTextSearch,
		Table: exportTable(t),
		Query: "  negara tujuan kopi terbesar?  ",
	})
	assertExclusive(t, resp)

	reqs := completer.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "negara tujuan kopi terbesar?", reqs[0].User)
	for _, cell := range []string{"Jepang", "Cina", "120", "Nilai_Ekspor"} {
		assert.NotContains(t, reqs[0].User, cell)
		assert.NotContains(t, reqs[0].System, cell)
	}
}

func TestRequestInsight_GlobalSearch(t *testing.T) {
	completer := &llm.MockCompleter{Response: "Tren global."}
	resp := newInsightService(completer, 12000).RequestInsight(context.Background(), insight.Request{
		Mode:  insight.ModeGlobalSearch,
		Query: "tren ekspor sawit",
	})
	assertExclusive(t, resp)
	assert.Equal(t, insight.ModeGlobalSearch, resp.Mode)

	reqs := completer.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "tren ekspor sawit", reqs[0].User)
	assert.NotEqual(t, reqs[0].System, "")
}

func TestRequestInsight_EmptyQuery(t *testing.T) {
	for _, mode := range []insight.Mode{insight.ModeFreeTextSearch, insight.ModeGlobalSearch} {
		completer := &llm.MockCompleter{Response: "unused"}
		resp := newInsightService(completer, 12000).RequestInsight(context.Background(), insight.Request{Mode: mode, Query: " "})

		assertExclusive(t, resp)
		assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(resp.Err))
		assert.Empty(t, completer.Requests())
	}
}

func TestRequestInsight_UnknownMode(t *testing.T) {
	completer := &llm.MockCompleter{Response: "unused"}
	resp := newInsightService(completer, 12000).RequestInsight(context.Background(), insight.Request{Mode: insight.Mode(42), Query: "x"})
	assertExclusive(t, resp)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(resp.Err))
}

func TestRequestInsight_AnalysisOfData(t *testing.T) {
	completer := &llm.MockCompleter{Response: "Analisis."}
	resp := newInsightService(completer, 12000).RequestInsight(context.Background(), insight.Request{
		Mode:  insight.ModeAnalysisOfData,
		Table: exportTable(t),
		Query: "Negara mana yang tumbuh?",
	})
	assertExclusive(t, resp)
	assert.False(t, resp.Truncated)

	user := completer.Requests()[0].User
	for _, cell := range []string{"Jepang", "Cina", "India", "340", "| Negara"} {
		assert.Contains(t, user, cell)
	}
	assert.Contains(t, user, "ekspor.csv (3 baris")
	assert.Contains(t, user, "Permintaan analisis: Negara mana yang tumbuh?")
}

func TestRequestInsight_AnalysisOfDataDefaultQuery(t *testing.T) {
	completer := &llm.MockCompleter{Response: "Analisis."}
	newInsightService(completer, 12000).RequestInsight(context.Background(), insight.Request{Mode: insight.ModeAnalysisOfData, Table: exportTable(t)})
	assert.Contains(t, completer.Requests()[0].User, defaultAnalysisQuery)
}

func TestRequestInsight_AnalysisOfDataTruncates(t *testing.T) {
	const limit = 600
	completer := &llm.MockCompleter{Response: "Analisis."}
	resp := newInsightService(completer, limit).RequestInsight(context.Background(), insight.Request{
		Mode:  insight.ModeAnalysisOfData,
		Table: bigTable(t, 200),
	})
	assertExclusive(t, resp)
	assert.True(t, resp.Truncated)

	user := completer.Requests()[0].User
	assert.Contains(t, user, "Negara-000")
	assert.NotContains(t, user, "Negara-199", "rows are dropped from the end")
	assert.Contains(t, user, "dari 200 baris")
}

func TestRequestInsight_ServiceFailure(t *testing.T) {
	completer := &llm.MockCompleter{Error: fmt.Errorf("dial tcp: connection refused")}
	resp := newInsightService(completer, 12000).RequestInsight(context.Background(), insight.Request{
		Mode:  insight.ModeDatasetSummary,
		Table: exportTable(t),
	})

	assertExclusive(t, resp)
	assert.False(t, resp.OK())
	assert.Contains(t, resp.ErrorMessage, "connection refused")
	assert.Equal(t, errors.CodeExternalService, errors.GetCode(resp.Err))
}

func TestRequestInsight_BlankCompletion(t *testing.T) {
	completer := &llm.MockCompleter{Response: "   "}
	resp := newInsightService(completer, 12000).RequestInsight(context.Background(), insight.Request{
		Mode:  insight.ModeGlobalSearch,
		Query: "apa saja?",
	})
	assertExclusive(t, resp)
	assert.Equal(t, errors.CodeExternalService, errors.GetCode(resp.Err))
}

func TestRequestInsight_NoCaching(t *testing.T) {
	completer := &llm.MockCompleter{Response: "ok"}
	svc := newInsightService(completer, 12000)
	req := insight.Request{Mode: insight.ModeGlobalSearch, Query: "sama"}

	first := svc.RequestInsight(context.Background(), req)
	second := svc.RequestInsight(context.Background(), req)
	assert.Len(t, completer.Requests(), 2)
	assert.NotEqual(t, first.RequestID, second.RequestID)
}

func TestRequestInsight_CustomParams(t *testing.T) {
	completer := &llm.MockCompleter{Response: "ok"}
	newInsightService(completer, 12000).RequestInsight(context.Background(), insight.Request{
		Mode:   insight.ModeGlobalSearch,
		Query:  "x",
		Params: insight.ModelParams{MaxOutputTokens: 256, Temperature: 0.2},
	})
	req := completer.Requests()[0]
	assert.Equal(t, 256, req.MaxTokens)
	assert.Equal(t, 0.2, req.Temperature)
}

func TestRequestInsight_UsesCallerID(t *testing.T) {
	completer := &llm.MockCompleter{Response: "ok"}
	svc := newInsightService(completer, 12000)

	resp := svc.RequestInsight(context.Background(), insight.Request{ID: "req-42", Mode: insight.ModeGlobalSearch, Query: "x"})
	assert.Equal(t, "req-42", resp.RequestID)

	failed := svc.RequestInsight(context.Background(), insight.Request{ID: "req-43", Mode: insight.ModeGlobalSearch})
	assert.Equal(t, "req-43", failed.RequestID)
}

func TestNewInsightService_DefaultsTableCharLimit(t *testing.T) {
	completer := &llm.MockCompleter{Response: "Analisis."}
	svc := NewInsightService(completer, nil, InsightConfig{Model: "gpt-4"})

	resp := svc.RequestInsight(context.Background(), insight.Request{Mode: insight.ModeAnalysisOfData, Table: exportTable(t)})
	assertExclusive(t, resp)
	assert.False(t, resp.Truncated)

	user := completer.Requests()[0].User
	assert.Contains(t, user, "India")
	assert.NotContains(t, user, "dari 3 baris")
}

func TestFitTableText(t *testing.T) {
	tbl := bigTable(t, 50)

	full, rows := fitTableText(tbl, 1<<20)
	assert.Equal(t, 50, rows)
	assert.Equal(t, renderTableText(tbl, 50), full)

	text, rows := fitTableText(tbl, 300)
	assert.Less(t, rows, 50)
	assert.LessOrEqual(t, len(text), 300)
	assert.True(t, strings.HasPrefix(text, "| Negara"))

	text, rows = fitTableText(tbl, 5)
	assert.Equal(t, 0, rows)
	assert.LessOrEqual(t, len(text), 5)
}
