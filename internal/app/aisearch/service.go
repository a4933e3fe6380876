package aisearch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/afterhack/afterhack-api/internal/domain"
	"github.com/afterhack/afterhack-api/internal/observability"
)

const promptTemplate = `You are a project search assistant. An investor is looking for projects matching this query: "%s"

Here are the available projects:

%s

Return ONLY a JSON array of project IDs that match the search query. Consider semantic meaning, not just keyword matching. If no projects match, return an empty array.

Example response: ["id1", "id2"]

Your response (JSON array only):`

// Service turns a free-text query plus a candidate project list into the
// subset of project IDs the model judges relevant.
type Service struct {
	llm domain.CompletionClient
}

func NewService(llm domain.CompletionClient) *Service {
	return &Service{llm: llm}
}

// Search asks the completion gateway which candidates match the query.
// An empty candidate list returns an empty result without contacting the
// gateway. Unparseable model output degrades to an empty result; only a
// gateway failure is returned as an error. Returned IDs are passed through
// as the model produced them, without cross-checking against the input set.
func (s *Service) Search(ctx context.Context, query string, projects []domain.ProjectSummary) ([]string, error) {
	log := observability.LoggerFromContext(ctx).With("query", query, "candidates", len(projects))

	if len(projects) == 0 {
		return []string{}, nil
	}

	prompt := fmt.Sprintf(promptTemplate, query, renderProjectList(projects))

	text, err := s.llm.Complete(ctx, []domain.ChatMessage{
		{Role: domain.ChatRoleUser, Content: prompt},
	}, "")
	if err != nil {
		log.Error("ai search completion failed", "error", err)
		return nil, err
	}

	ids := extractIDArray(text)
	log.Info("ai search completed", "matches", len(ids))
	return ids, nil
}

// renderProjectList formats candidates in input order, one block per
// project, separated by blank lines.
func renderProjectList(projects []domain.ProjectSummary) string {
	parts := make([]string, 0, len(projects))
	for i, p := range projects {
		parts = append(parts, fmt.Sprintf("Project %d (ID: %s):\nTitle: %s\nDescription: %s",
			i+1, p.ID, p.Title, p.Description))
	}
	return strings.Join(parts, "\n\n")
}

// extractIDArray pulls the span from the first '[' to the last ']' out of
// the response text, tolerating surrounding prose, and decodes it as a JSON
// string array. Anything that does not decode cleanly yields an empty
// result; the model failing to follow instructions is expected noise, not
// an error.
func extractIDArray(text string) []string {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return []string{}
	}

	var ids []string
	if err := json.Unmarshal([]byte(text[start:end+1]), &ids); err != nil {
		return []string{}
	}
	if ids == nil {
		return []string{}
	}
	return ids
}
