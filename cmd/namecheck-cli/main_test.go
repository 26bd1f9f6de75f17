package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"namecheck/matcher"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadNamesCSV(t *testing.T) {
	path := writeTempFile(t, "input.csv", "John Smith,extra\nMaria Garcia\n , \n")
	names, err := readNames(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"John Smith", "Maria Garcia"}, names)
}

func TestReadNamesPlainText(t *testing.T) {
	path := writeTempFile(t, "input.txt", "John Smith\n\n  Maria Garcia  \n")
	names, err := readNames(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"John Smith", "Maria Garcia"}, names)
}

func TestWriteResultCSV(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out", "result.csv")
	names := []string{"John Smith", "Jon Smith", "Zzyzx"}
	results := []matcher.MatchResult{
		{Kind: matcher.KindExact, Exact: &matcher.CandidateRecord{ID: 1, DisplayName: "John Smith"}},
		{
			Kind:      matcher.KindAutoCorrected,
			Best:      &matcher.RankedMatch{Candidate: matcher.CandidateRecord{ID: 1, DisplayName: "John Smith"}, Score: 94.7},
			Rationale: "auto(score=94.7, margin=999.0)",
		},
		{Kind: matcher.KindNoMatch, Rationale: "no_candidates"},
	}
	require.NoError(t, writeResultCSV(outPath, names, results))

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"input", "kind", "match", "id", "score", "rationale"}, rows[0])
	assert.Equal(t, []string{"John Smith", "exact", "John Smith", "1", "100.0", ""}, rows[1])
	assert.Equal(t, []string{"Jon Smith", "autocorrected", "John Smith", "1", "94.7", "auto(score=94.7, margin=999.0)"}, rows[2])
	assert.Equal(t, []string{"Zzyzx", "nomatch", "", "", "", "no_candidates"}, rows[3])
}

func TestLoadFileConfigDefaultsWhenAbsent(t *testing.T) {
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(prev) })

	cfg, err := loadFileConfig("")
	require.NoError(t, err)
	assert.Equal(t, 90.0, cfg.Matcher.AutoScore)
	assert.Equal(t, 10, cfg.Matcher.TopK)
}

func TestLoadFileConfigExplicitMissingFails(t *testing.T) {
	_, err := loadFileConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestLoadFileConfigParsesTOML(t *testing.T) {
	path := writeTempFile(t, "namecheck.toml", `
scorer = "jaro-winkler"

[matcher]
auto_score = 95.0
top_k = 3

[db]
table = "people"
exact_cache_seconds = 60
`)
	cfg, err := loadFileConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "jaro-winkler", cfg.Scorer)
	assert.Equal(t, 95.0, cfg.Matcher.AutoScore)
	assert.Equal(t, 3, cfg.Matcher.TopK)
	assert.Equal(t, 5.0, cfg.Matcher.MinMargin) // defaulted
	assert.Equal(t, "people", cfg.DB.Table)
	assert.Equal(t, 60, cfg.DB.ExactCacheSeconds)
}

func TestDSNFromEnv(t *testing.T) {
	t.Setenv("DB_NAME", "directory")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("DB_USER", "reader")
	t.Setenv("DB_PASSWORD", "secret")

	dsn, err := dsnFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "reader:secret@tcp(db.internal:3307)/directory", dsn)
}

func TestDSNFromEnvRequiresName(t *testing.T) {
	t.Setenv("DB_NAME", "")
	_, err := dsnFromEnv()
	require.Error(t, err)
}

func TestDSNFromEnvRejectsBadPort(t *testing.T) {
	t.Setenv("DB_NAME", "directory")
	t.Setenv("DB_PORT", "not-a-port")
	_, err := dsnFromEnv()
	require.Error(t, err)
}

func TestPickScorer(t *testing.T) {
	s, err := pickScorer("")
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = pickScorer("composite")
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = pickScorer("levenshtein")
	require.NoError(t, err)
	assert.NotNil(t, s)

	_, err = pickScorer("metaphone")
	require.Error(t, err)
}
