// Package extraction turns scraped text into employee objects using an LLM
// and validates the result at the boundary.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/team-extractor/internal/llm"
	"github.com/jonathan/team-extractor/internal/reconcile"
	"github.com/jonathan/team-extractor/internal/schemas"
	"github.com/jonathan/team-extractor/internal/types"
	"github.com/jonathan/team-extractor/internal/urlnorm"
)

// Service structures scraped content into employee objects.
type Service interface {
	// ExtractEmployees structures a listing-page block that may name any
	// number of people. anchorURL is the page the block was scraped from.
	ExtractEmployees(ctx context.Context, payload any, anchorURL string) (*Response, error)
	// ExtractEmployee structures profile-page content about one person.
	ExtractEmployee(ctx context.Context, content any, anchorURL string) (*Response, error)
}

// Response is a validated extraction result. Employees keep the raw decoded
// objects so callers can tell absent keys from empty ones.
type Response struct {
	Employees []map[string]any
}

// Records returns the employees normalized to the record schema.
func (r *Response) Records() []types.EmployeeRecord {
	if r == nil {
		return nil
	}
	out := make([]types.EmployeeRecord, 0, len(r.Employees))
	for _, e := range r.Employees {
		out = append(out, reconcile.Normalize(e))
	}
	return out
}

// First returns the first employee object, if any.
func (r *Response) First() (map[string]any, bool) {
	if r == nil || len(r.Employees) == 0 {
		return nil, false
	}
	return r.Employees[0], true
}

// LLMService implements Service on top of an llm.Client.
type LLMService struct {
	client llm.Client
	logger *zap.Logger
}

// NewLLMService creates a Service backed by client. A nil logger is replaced
// with a no-op logger.
func NewLLMService(client llm.Client, logger *zap.Logger) *LLMService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMService{client: client, logger: logger}
}

// ExtractEmployees implements Service.
func (s *LLMService) ExtractEmployees(ctx context.Context, payload any, anchorURL string) (*Response, error) {
	anchor, err := urlnorm.Format(anchorURL)
	if err != nil {
		return nil, &ResponseError{Message: "invalid anchor URL", Cause: err}
	}

	input, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal extraction payload: %w", err)
	}

	prompt := llm.BuildExtractionPrompt(llm.EmployeeListSchema(anchor), string(input))
	text, err := s.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &ResponseError{Message: "extraction request failed", Cause: err}
	}

	if err := schemas.ValidateEmployeeList(text); err != nil {
		return nil, &ResponseError{Message: "response does not match employee list schema", Invalid: true, Cause: err}
	}

	var decoded struct {
		Employees []map[string]any `json:"employees"`
	}
	if err := decodeJSON(text, &decoded); err != nil {
		return nil, &ResponseError{Message: "failed to decode response", Invalid: true, Cause: err}
	}

	for _, emp := range decoded.Employees {
		clearPlaceholderProfileURL(emp, anchor)
	}

	s.logger.Debug("Extracted employees",
		zap.String("url", anchor),
		zap.Int("count", len(decoded.Employees)))

	return &Response{Employees: decoded.Employees}, nil
}

// ExtractEmployee implements Service. A single object under "employees" is
// wrapped into a one-element list.
func (s *LLMService) ExtractEmployee(ctx context.Context, content any, anchorURL string) (*Response, error) {
	anchor, err := urlnorm.Format(anchorURL)
	if err != nil {
		return nil, &ResponseError{Message: "invalid anchor URL", Cause: err}
	}

	input, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal extraction content: %w", err)
	}

	prompt := llm.BuildExtractionPrompt(llm.SingleEmployeeSchema(), string(input))
	text, err := s.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, &ResponseError{Message: "extraction request failed", Cause: err}
	}

	if err := schemas.ValidateSingleEmployee(text); err != nil {
		return nil, &ResponseError{Message: "response does not match single employee schema", Invalid: true, Cause: err}
	}

	var decoded struct {
		Employees json.RawMessage `json:"employees"`
	}
	if err := decodeJSON(text, &decoded); err != nil {
		return nil, &ResponseError{Message: "failed to decode response", Invalid: true, Cause: err}
	}

	employees, err := decodeEmployees(decoded.Employees)
	if err != nil {
		return nil, &ResponseError{Message: "failed to decode employees", Invalid: true, Cause: err}
	}

	s.logger.Debug("Extracted profile",
		zap.String("url", anchor),
		zap.Int("count", len(employees)))

	return &Response{Employees: employees}, nil
}

// decodeEmployees accepts either a list of objects or a single object.
func decodeEmployees(raw json.RawMessage) ([]map[string]any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		var one map[string]any
		if err := decodeJSON(string(raw), &one); err != nil {
			return nil, err
		}
		return []map[string]any{one}, nil
	}

	var many []map[string]any
	if err := decodeJSON(string(raw), &many); err != nil {
		return nil, err
	}
	return many, nil
}

func decodeJSON(text string, v any) error {
	dec := json.NewDecoder(bytes.NewBufferString(text))
	dec.UseNumber()
	return dec.Decode(v)
}

// clearPlaceholderProfileURL blanks a profile URL that only points back at
// the listing page or the site root.
func clearPlaceholderProfileURL(emp map[string]any, anchor string) {
	value, ok := emp[types.FieldProfileURL]
	if !ok {
		return
	}
	profile := reconcile.FieldValue(types.FieldProfileURL, value)
	if urlnorm.IsPlaceholderProfileURL(profile, anchor) {
		profile = ""
	}
	emp[types.FieldProfileURL] = profile
}
