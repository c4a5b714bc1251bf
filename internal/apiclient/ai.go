package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
)

// ErrUnknownTool is returned by AIService.Generate for a tool with no endpoint.
var ErrUnknownTool = errors.New("apiclient: unknown ai tool")

// Tool names an AI generation endpoint.
type Tool string

const (
	ToolSummary     Tool = "summary"
	ToolExperience  Tool = "experience"
	ToolSkills      Tool = "skills"
	ToolEducation   Tool = "education"
	ToolCoverLetter Tool = "cover-letter"
)

var defaultTools = map[Tool]string{
	ToolSummary:     "/ai/generate-summary",
	ToolExperience:  "/ai/enhance-experience",
	ToolSkills:      "/ai/suggest-skills",
	ToolEducation:   "/ai/enhance-education",
	ToolCoverLetter: "/ai/generate-cover-letter",
}

// AIService dispatches generation requests by tool name. The generation
// itself happens server side; payloads pass through untouched.
type AIService struct {
	c     *Client
	tools map[Tool]string
}

// Tools lists the known tool names in sorted order.
func (s *AIService) Tools() []Tool {
	out := make([]Tool, 0, len(s.tools))
	for t := range s.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Generate posts input to the tool's endpoint and returns the raw result.
func (s *AIService) Generate(ctx context.Context, tool Tool, input any) (json.RawMessage, error) {
	path, ok := s.tools[tool]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, tool)
	}

	var out json.RawMessage
	if _, err := s.c.do(ctx, call{method: http.MethodPost, path: path, body: input, out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}
