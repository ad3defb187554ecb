package insight

import (
	"encoding/json"
	"fmt"
	"strings"

	"exportlens/domain/table"
	"exportlens/internal/errors"
)

// Mode selects how the prompt is built
type Mode int

const (
	// ModeDatasetSummary sends only the column names of the table
	ModeDatasetSummary Mode = iota + 1
	// ModeFreeTextSearch sends the user query alone
	ModeFreeTextSearch
	// ModeAnalysisOfData sends the table contents (size capped) with the user request
	ModeAnalysisOfData
	// ModeGlobalSearch sends the user query alone, without any dataset framing
	ModeGlobalSearch
)

var modeNames = map[Mode]string{
	ModeDatasetSummary: "dataset-summary",
	ModeFreeTextSearch: "free-text-search",
	ModeAnalysisOfData: "analysis-of-data",
	ModeGlobalSearch:   "global-search",
}

// ParseMode maps a mode name to a Mode
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range modeNames {
		if s == name {
			return m, nil
		}
	}
	return 0, errors.InvalidInput(fmt.Sprintf("unknown insight mode %q", s))
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// UsesTable reports whether the mode reads the table
func (m Mode) UsesTable() bool {
	return m == ModeDatasetSummary || m == ModeAnalysisOfData
}

// NeedsQuery reports whether the mode requires a user query
func (m Mode) NeedsQuery() bool {
	return m == ModeFreeTextSearch || m == ModeGlobalSearch
}

func (m Mode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// ModelParams are the sampling parameters forwarded to the completion service
type ModelParams struct {
	MaxOutputTokens int     `json:"max_output_tokens"`
	Temperature     float64 `json:"temperature"`
}

// DefaultModelParams returns the fixed parameters used by the dashboard
func DefaultModelParams() ModelParams {
	return ModelParams{MaxOutputTokens: 2048, Temperature: 1.0}
}

// Request is built fresh for each user action. ID is optional; when empty
// a new one is assigned.
type Request struct {
	ID     string
	Mode   Mode
	Table  *table.Table
	Query  string
	Params ModelParams
}

// Response holds either the insight text or the failure, never both
type Response struct {
	RequestID    string `json:"request_id"`
	Mode         Mode   `json:"mode"`
	Text         string `json:"text,omitempty"`
	ErrorMessage string `json:"error,omitempty"`
	// Err keeps the typed failure for callers that branch on error codes
	Err error `json:"-"`
	// Truncated is set when the table was cut to fit the prompt size cap
	Truncated bool `json:"truncated,omitempty"`
}

// Succeeded returns a response carrying text
func Succeeded(id string, mode Mode, text string) Response {
	return Response{RequestID: id, Mode: mode, Text: text}
}

// Failed returns a response carrying err. A nil err is reported as an internal error.
func Failed(id string, mode Mode, err error) Response {
	if err == nil {
		err = errors.InternalError("insight failed without an error")
	}
	return Response{RequestID: id, Mode: mode, ErrorMessage: err.Error(), Err: err}
}

// OK reports whether the response carries text
func (r Response) OK() bool { return r.ErrorMessage == "" && r.Text != "" }
