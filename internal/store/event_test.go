package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerStats(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []AnswerEventData{
		{SessionID: "s1", Mode: "quiz", CountryCode: "FRA", PromptType: "name", Answer: "France", Correct: true, Attempt: 1},
		{SessionID: "s1", Mode: "quiz", CountryCode: "DEU", PromptType: "name", Answer: "Austria", Correct: false, Attempt: 1},
		{SessionID: "s1", Mode: "quiz", CountryCode: "DEU", PromptType: "flag", Answer: "AT", Correct: false, Attempt: 1},
		{SessionID: "s1", Mode: "quiz", CountryCode: "DEU", PromptType: "flag", Answer: "DE", Correct: true, Attempt: 2},
	}
	for _, e := range events {
		require.NoError(t, repo.AppendAnswerEvent(ctx, e))
	}

	stats, err := repo.AnswerStats(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, PromptTypeStats{PromptType: "flag", Total: 2, Correct: 1}, stats[0])
	assert.Equal(t, PromptTypeStats{PromptType: "name", Total: 2, Correct: 1}, stats[1])

	missed, err := repo.MostMissed(ctx, 5)
	require.NoError(t, err)
	require.Len(t, missed, 1)
	assert.Equal(t, CountryMiss{CountryCode: "DEU", Misses: 2}, missed[0])
}

func TestSessionEvents_NewestFirst(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "a", Action: "start", Mode: "quiz", QuizSet: "Europe"}))
	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "a", Action: "end", Mode: "quiz", QuizSet: "Europe", Prompts: 3, Successful: 2}))

	got, err := repo.QuerySessionEvents(ctx, QueryOpts{Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "end", got[0].Action)
	assert.Equal(t, 2, got[0].Successful)
	assert.Greater(t, got[0].Sequence, got[1].Sequence)
	assert.False(t, got[0].Timestamp.IsZero())
}

func TestAppendLLMRequestAndHint(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "mock", Model: "m", Purpose: "country-hint", Success: true,
	}))
	require.NoError(t, repo.AppendHintEvent(ctx, HintEventData{SessionID: "a", CountryCode: "PER", HintText: "Machu Picchu"}))

	var n int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM llm_request_events").Scan(&n))
	assert.Equal(t, 1, n)
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM hint_events").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestLLMUsage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, e := range []LLMRequestEventData{
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "country-hint", InputTokens: 100, OutputTokens: 40, LatencyMs: 300, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "country-hint", InputTokens: 120, OutputTokens: 0, LatencyMs: 500, ErrorMessage: "rate limited"},
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "validate", InputTokens: 10, OutputTokens: 5, LatencyMs: 100, Success: true},
	} {
		require.NoError(t, repo.AppendLLMRequest(ctx, e))
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 2)
	assert.Equal(t, LLMUsageStats{Key: "country-hint", Calls: 2, Failures: 1, InputTokens: 220, OutputTokens: 40, AvgLatencyMs: 400}, byPurpose[0])

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 2)
	assert.Equal(t, "gemini-2.5-flash", byModel[0].Key)
	assert.Equal(t, 1, byModel[0].Calls)
}
