package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestEval(t *testing.T) {
	tests := []struct {
		args     []string
		expected string
	}{
		{[]string{"eval", "1 + 2 * 3"}, "7\n"},
		{[]string{"eval", "'a' + 'b'"}, "\"ab\"\n"},
		{[]string{"eval", "null ?? false"}, "false\n"},
		{[]string{"eval", "--set", "x=4", "--set", "name=road", "UCASE(name) + ':' + x"}, "\"ROAD:4\"\n"},
		{[]string{"eval", "--set", "s='it''s'", "LENGTH(s)"}, "4\n"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			stdout, _, err := run(t, tt.args...)
			require.Nil(t, err)
			require.Equal(t, tt.expected, stdout)
		})
	}
}

func TestEvalJSON(t *testing.T) {
	stdout, _, err := run(t, "eval", "-o", "json", " ROUND(2.345, 2) ")
	require.Nil(t, err)
	var result map[string]any
	require.Nil(t, json.Unmarshal([]byte(stdout), &result))
	require.Equal(t, map[string]any{
		"clause": "ROUND(2.345, 2)",
		"type":   "number",
		"value":  2.34,
	}, result)
}

func TestEvalErrors(t *testing.T) {
	_, _, err := run(t, "eval", "1 +")
	require.ErrorContains(t, err, "Expected a number, a string, a name, or '('")

	_, _, err = run(t, "eval", "missing")
	require.EqualError(t, err, "No such field or function: missing")

	_, _, err = run(t, "eval", "--set", "=3", "1")
	require.EqualError(t, err, `invalid assignment "=3", expected name=value`)

	_, _, err = run(t, "eval", "-o", "xml", "1")
	require.EqualError(t, err, "output format must be text or json")

	_, _, err = run(t, "eval")
	require.Error(t, err)
}

func TestEvalTrace(t *testing.T) {
	_, stderr, err := run(t, "eval", "--trace", "--no-color", "1 + 2")
	require.Nil(t, err)
	require.Contains(t, stderr, "op=Add")
	require.Contains(t, stderr, "op=End")
}

func TestCaseSensitiveFlag(t *testing.T) {
	_, _, err := run(t, "eval", "--case-sensitive", "NOT true")
	require.Error(t, err)

	t.Setenv("EVALUATE_CASE_SENSITIVE", "true")
	_, _, err = run(t, "eval", "NOT true")
	require.Error(t, err)
}

func TestDis(t *testing.T) {
	stdout, _, err := run(t, "dis", "a ?? 1")
	require.Nil(t, err)
	require.Contains(t, stdout, "Jin")
	require.Contains(t, stdout, "Get")
	require.Contains(t, stdout, "End")
}

func createRoads(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roads.db")
	db, err := sql.Open("sqlite", path)
	require.Nil(t, err)
	defer db.Close()
	_, err = db.Exec(`CREATE TABLE roads (name TEXT, kind INTEGER, level REAL)`)
	require.Nil(t, err)
	_, err = db.Exec(`INSERT INTO roads VALUES ('Main', 200, -5), ('Side', NULL, NULL)`)
	require.Nil(t, err)
	return path
}

func TestApply(t *testing.T) {
	dsn := createRoads(t)
	stdout, stderr, err := run(t, "apply",
		"--dsn", dsn,
		"--query", "SELECT name, kind, level FROM roads ORDER BY name",
		"--set", "offset=10",
		"--verbose", "--no-color",
		"height := DECODE(kind, 200, 100, 0) + (level ?? 0) + offset; name = LCASE(name)")
	require.Nil(t, err)

	var rows []map[string]any
	require.Nil(t, json.Unmarshal([]byte(stdout), &rows))
	require.Equal(t, []map[string]any{
		{"name": "main", "kind": 200.0, "level": -5.0, "height": 105.0},
		{"name": "side", "kind": nil, "level": nil, "height": 10.0},
	}, rows)
	require.Contains(t, stderr, "run_id=")
	require.Contains(t, stderr, "rows read")
}

func TestApplyStrict(t *testing.T) {
	dsn := createRoads(t)
	_, _, err := run(t, "apply", "--strict",
		"--dsn", dsn,
		"--query", "SELECT name FROM roads",
		"name = UCASE(name); height = 1")
	require.ErrorContains(t, err, "No such field: height")
}

func TestApplyQueryFromEnvironment(t *testing.T) {
	dsn := createRoads(t)
	t.Setenv("EVALUATE_QUERY", "SELECT COUNT(*) AS n FROM roads")
	stdout, _, err := run(t, "apply", "--dsn", dsn, "n = n * 2")
	require.Nil(t, err)
	var rows []map[string]any
	require.Nil(t, json.Unmarshal([]byte(stdout), &rows))
	require.Equal(t, []map[string]any{{"n": 4.0}}, rows)
}

func TestApplyErrors(t *testing.T) {
	_, _, err := run(t, "apply", "a = 1")
	require.EqualError(t, err, "a query is required")

	_, _, err = run(t, "apply", "--driver", "oracle", "--query", "SELECT 1", "a = 1")
	require.EqualError(t, err, "unsupported driver: oracle")

	_, _, err = run(t, "apply", "--query", "SELECT 1", "a")
	require.ErrorContains(t, err, "Expected '=' or ':='")
}
