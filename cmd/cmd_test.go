package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/geoquiz/internal/countries"
	"github.com/abhisek/geoquiz/internal/progress"
	"github.com/abhisek/geoquiz/internal/quiz"
	"github.com/abhisek/geoquiz/internal/store"
)

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{"GEOQUIZ_LLM_PROVIDER", "ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY"} {
		t.Setenv(v, "")
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	clearLLMEnv(t)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func testDB(t *testing.T) string {
	return filepath.Join(t.TempDir(), "geoquiz.db")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "geoquiz "), out)

	version = "v1.2.3"
	t.Cleanup(func() { version = "(devel)" })
	assert.Equal(t, "v1.2.3", buildVersion())
}

func TestSets(t *testing.T) {
	out, err := execute(t, "sets")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "all "), out)
	assert.Contains(t, out, "countries")
}

func TestValidate(t *testing.T) {
	out, err := execute(t, "validate", "--file", "")
	require.NoError(t, err)
	assert.Contains(t, out, "OK:")

	_, err = execute(t, "validate", "--file", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestStats_EmptyDatabase(t *testing.T) {
	out, err := execute(t, "stats", "--db", testDB(t), "--no-save=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Streak: 0 day(s)")
	assert.Contains(t, out, "No daily challenges saved yet.")
	assert.Contains(t, out, "Accuracy")
}

func TestDue_NoSave(t *testing.T) {
	out, err := execute(t, "due", "--db", testDB(t), "--no-save", "--upcoming=false")
	require.NoError(t, err)
	assert.Contains(t, out, "never seen")
}

func TestDailyShare(t *testing.T) {
	db := testDB(t)
	today := time.Now().Format(store.DateLayout)

	_, err := execute(t, "daily", "--share", "--db", db, "--no-save=false")
	assert.ErrorContains(t, err, "no daily challenge saved")

	st, err := store.Open(db)
	require.NoError(t, err)
	_, err = progress.NewService(st.ProgressRepo()).SaveDailyChallenge(context.Background(), today, store.DailyEntry{Score: 4, SkillScore: 0.5})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, err := execute(t, "daily", "--share", "--db", db, "--no-save=false")
	require.NoError(t, err)
	assert.Equal(t, "GeoQuiz daily "+today+"  4 correct  skill 50%\n", out)
}

func TestReset(t *testing.T) {
	db := testDB(t)
	st, err := store.Open(db)
	require.NoError(t, err)
	_, err = progress.NewService(st.ProgressRepo()).SaveDailyChallenge(context.Background(), "2026-01-02", store.DailyEntry{Score: 3})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, err := execute(t, "reset", "--db", db, "--no-save=false", "--yes=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted.")

	out, err = execute(t, "reset", "--db", db, "--no-save=false", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Progress cleared.")

	st, err = store.Open(db)
	require.NoError(t, err)
	defer st.Close()
	p, err := st.ProgressRepo().Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, p.DailyChallenge.FullEntries)
}

func TestLLMStats_Empty(t *testing.T) {
	out, err := execute(t, "llm", "stats", "--db", testDB(t), "--no-save=false")
	require.NoError(t, err)
	assert.Equal(t, "No LLM calls recorded.\n", out)
}

func TestHint_NotConfigured(t *testing.T) {
	_, err := execute(t, "hint", "France", "--db", testDB(t), "--no-save")
	assert.ErrorContains(t, err, "no LLM provider configured")
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want quiz.GameMode
	}{
		{"", quiz.ModeQuiz},
		{"Learning", quiz.ModeLearning},
		{"sandbox", quiz.ModeSandbox},
		{"daily", quiz.ModeDailyChallenge},
	}
	for _, tt := range tests {
		got, err := parseMode(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
	_, err := parseMode("arcade")
	assert.Error(t, err)
}

func TestParseTypes(t *testing.T) {
	got, err := parseTypes([]string{"Flag", " location "})
	require.NoError(t, err)
	assert.Equal(t, []quiz.PromptType{countries.PromptFlag, countries.PromptLocation}, got)

	_, err = parseTypes([]string{"anthem"})
	assert.Error(t, err)
}
