package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/common"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/llm"
)

// OracleRequest is one section's prompt.
type OracleRequest struct {
	Prompt      string
	RequestID   string
	SectionKind SectionKind
}

// OracleResponse carries the generated prose.
type OracleResponse struct {
	Text string
}

// Oracle generates prose for a section prompt.
type Oracle interface {
	Generate(ctx context.Context, req OracleRequest) (OracleResponse, error)
}

// LLMOracle adapts an llm.Client to the Oracle interface.
type LLMOracle struct {
	client llm.Client
}

// Ensure LLMOracle implements Oracle.
var _ Oracle = (*LLMOracle)(nil)

// NewLLMOracle wraps client.
func NewLLMOracle(client llm.Client) *LLMOracle {
	return &LLMOracle{client: client}
}

// Generate forwards the prompt. Empty replies are reported as common.ErrEmptyOracleResponse.
func (o *LLMOracle) Generate(ctx context.Context, req OracleRequest) (OracleResponse, error) {
	if o.client == nil {
		return OracleResponse{}, common.ErrOracleUnavailable
	}

	text, err := o.client.Generate(ctx, req.Prompt)
	if err != nil {
		return OracleResponse{}, fmt.Errorf("oracle call for %s failed: %w", req.SectionKind, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return OracleResponse{}, common.ErrEmptyOracleResponse
	}
	return OracleResponse{Text: text}, nil
}
