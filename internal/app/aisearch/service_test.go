package aisearch

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afterhack/afterhack-api/internal/adapters/llm"
	"github.com/afterhack/afterhack-api/internal/domain"
)

var sampleProjects = []domain.ProjectSummary{
	{ID: "p1", Title: "MediTrack", Description: "Medication reminders for elderly patients"},
	{ID: "p2", Title: "GreenRoute", Description: "Carbon-aware delivery routing"},
}

func TestSearchEmptyCandidatesSkipsGateway(t *testing.T) {
	mock := llm.NewMockClient(`["p1"]`)
	svc := NewService(mock)

	ids, err := svc.Search(context.Background(), "AI tools", nil)
	require.NoError(t, err)

	assert.Empty(t, ids)
	assert.Equal(t, 0, mock.Calls(), "gateway must not be called for an empty candidate list")
}

func TestSearchExtractsArrayFromProse(t *testing.T) {
	mock := llm.NewMockClient(`Sure, here you go: ["p1","p2"] - let me know!`)
	svc := NewService(mock)

	ids, err := svc.Search(context.Background(), "health", sampleProjects)
	require.NoError(t, err)

	assert.Equal(t, []string{"p1", "p2"}, ids)
	assert.Equal(t, 1, mock.Calls())
}

func TestSearchPromptEmbedsCandidatesInOrder(t *testing.T) {
	mock := llm.NewMockClient(`[]`)
	svc := NewService(mock)

	_, err := svc.Search(context.Background(), "health", sampleProjects)
	require.NoError(t, err)

	msgs := mock.LastMessages()
	require.Len(t, msgs, 1)
	assert.Equal(t, domain.ChatRoleUser, msgs[0].Role)

	prompt := msgs[0].Content
	assert.Contains(t, prompt, `matching this query: "health"`)
	assert.Contains(t, prompt, "Project 1 (ID: p1):\nTitle: MediTrack\nDescription: Medication reminders for elderly patients")
	assert.Contains(t, prompt, "Project 2 (ID: p2):")
	assert.Less(t, strings.Index(prompt, "ID: p1"), strings.Index(prompt, "ID: p2"))
}

func TestSearchDegradesOnUnparseableOutput(t *testing.T) {
	cases := map[string]string{
		"no brackets":     "I could not find any matching projects.",
		"malformed span":  "[oops",
		"unclosed array":  `["p1"`,
		"non string ids":  `[1, 2]`,
		"object not list": `{"ids": []}`,
		"null body":       "",
	}

	for name, reply := range cases {
		t.Run(name, func(t *testing.T) {
			mock := llm.NewMockClient(reply)
			svc := NewService(mock)

			ids, err := svc.Search(context.Background(), "anything", sampleProjects)
			require.NoError(t, err)
			assert.Empty(t, ids)
		})
	}
}

func TestSearchPassesThroughUnknownIDs(t *testing.T) {
	mock := llm.NewMockClient(`["p1","made-up-id"]`)
	svc := NewService(mock)

	ids, err := svc.Search(context.Background(), "health", sampleProjects)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "made-up-id"}, ids)
}

func TestSearchPropagatesGatewayFailure(t *testing.T) {
	mock := llm.NewMockClient("")
	mock.Err = &llm.UpstreamError{StatusCode: 500, Body: "boom"}
	svc := NewService(mock)

	_, err := svc.Search(context.Background(), "health", sampleProjects)
	var upstream *llm.UpstreamError
	require.ErrorAs(t, err, &upstream)
}
