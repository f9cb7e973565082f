package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mdwerror "github.com/msto63/mAF/foundation/core/error"
	"github.com/msto63/mAF/internal/frege/store"
)

// writeConfig creates a config file whose history lives in a temp dir
func writeConfig(t *testing.T, historyDisabled bool) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := "[logging]\nlevel = \"error\"\n\n[history]\npath = \"" +
		filepath.ToSlash(filepath.Join(dir, "history.db")) + "\"\n"
	if historyDisabled {
		content += "disabled = true\n"
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func resetFlags() {
	cfgFile, verbose = "", false
	replTUI, replMode, replUser = false, "", ""
	tokenizeFile, tokenizePositions, tokenizeJSON, tokenizeRemote = "", false, false, ""
	parseFile, parseTree, parseJSON, parseValidate, parseSkipValues, parseRemote = "", false, false, false, false, ""
	historySession, historyMode, historyFailed, historyLimit, historyJSON, historyPrune = "", "", false, 0, false, 0
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestReadSource(t *testing.T) {
	file := filepath.Join(t.TempDir(), "prog.monkey")
	if err := os.WriteFile(file, []byte("let x = 5;"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		args  []string
		file  string
		stdin string
		want  string
	}{
		{"arguments joined", []string{"x", "+", "1"}, "", "ignored", "x + 1"},
		{"file wins over arguments", []string{"y"}, file, "", "let x = 5;"},
		{"dash reads stdin", nil, "-", "a == b", "a == b"},
		{"stdin without input", nil, "", "-5", "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readSource(tt.args, tt.file, strings.NewReader(tt.stdin))
			if err != nil {
				t.Fatalf("readSource: %v", err)
			}
			if got != tt.want {
				t.Errorf("readSource = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := readSource(nil, filepath.Join(t.TempDir(), "missing"), strings.NewReader("")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestIsTerminalOutput(t *testing.T) {
	for output, want := range map[string]bool{
		"":             true,
		"stderr":       true,
		" STDOUT ":     true,
		"/var/log/maf": false,
		"./maf.log":    false,
	} {
		if got := isTerminalOutput(output); got != want {
			t.Errorf("isTerminalOutput(%q) = %v, want %v", output, got, want)
		}
	}
}

func TestParseCommand(t *testing.T) {
	cfg := writeConfig(t, true)

	tests := []struct {
		name       string
		args       []string
		wantOut    string
		wantErrOut string
		wantCode   mdwerror.Code
	}{
		{
			name:    "canonical form",
			args:    []string{"parse", "--config", cfg, "let x = 1 + 2 * 3;"},
			wantOut: "let x = (1 + (2 * 3));\n",
		},
		{
			name:    "skip values",
			args:    []string{"parse", "--config", cfg, "--skip-values", "let x = 1 + 2;"},
			wantOut: "let x = ;\n",
		},
		{
			name:       "syntax error",
			args:       []string{"parse", "--config", cfg, "let = 10;"},
			wantErrOut: "parser errors:\n\texpected next token to be IDENT, got ASSIGN\n",
			wantCode:   mdwerror.CodeMonkeySyntax,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errOut, err := execute(t, "", tt.args...)

			if tt.wantCode != "" {
				if err == nil {
					t.Fatal("expected error")
				}
				if !isReported(err) {
					t.Errorf("error %v should be marked as reported", err)
				}
				if !mdwerror.HasCode(err, tt.wantCode) {
					t.Errorf("error code = %s, want %s", mdwerror.GetCode(err), tt.wantCode)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if out != tt.wantOut {
				t.Errorf("stdout = %q, want %q", out, tt.wantOut)
			}
			if errOut != tt.wantErrOut {
				t.Errorf("stderr = %q, want %q", errOut, tt.wantErrOut)
			}
		})
	}
}

func TestParseCommandTree(t *testing.T) {
	out, _, err := execute(t, "-a * b", "parse", "--config", writeConfig(t, true), "--tree", "--validate")
	if err != nil {
		t.Fatalf("parse --tree: %v", err)
	}
	for _, want := range []string{"Program", "InfixExpression", "PrefixExpression"} {
		if !strings.Contains(out, want) {
			t.Errorf("tree output missing %q:\n%s", want, out)
		}
	}
}

func TestTokenizeCommand(t *testing.T) {
	out, _, err := execute(t, "", "tokenize", "--config", writeConfig(t, true), "x == 1")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}

	want := `{Kind:IDENT Literal:"x"}
{Kind:EQ Literal:"=="}
{Kind:INT Literal:"1"}
{Kind:EOF Literal:""}
`
	if out != want {
		t.Errorf("tokenize output:\n%s\nwant:\n%s", out, want)
	}
}

func TestTokenizeCommandPositions(t *testing.T) {
	out, _, err := execute(t, "a\n  b", "tokenize", "--config", writeConfig(t, true), "--positions")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if !strings.HasPrefix(out, "1:1\t{Kind:IDENT Literal:\"a\"}\n2:3\t{Kind:IDENT Literal:\"b\"}\n") {
		t.Errorf("unexpected positions output:\n%s", out)
	}
}

func TestREPLThenHistory(t *testing.T) {
	cfg := writeConfig(t, false)

	out, _, err := execute(t, "1 + 2\nlet = 1;\n", "repl", "--config", cfg, "--mode", "parse", "--user", "tester")
	if err != nil {
		t.Fatalf("repl: %v", err)
	}
	if !strings.Contains(out, "Hello tester! Welcome to the Monkey programming language REPL!") {
		t.Errorf("missing greeting:\n%s", out)
	}
	if !strings.Contains(out, "(1 + 2)") {
		t.Errorf("missing parse output:\n%s", out)
	}

	out, _, err = execute(t, "", "history", "--config", cfg, "--json")
	if err != nil {
		t.Fatalf("history: %v", err)
	}

	var entries []store.Entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode history: %v\n%s", err, out)
	}
	if len(entries) != 2 {
		t.Fatalf("history entries = %d, want 2", len(entries))
	}
	if entries[0].Input != "let = 1;\n" && entries[0].Input != "let = 1;" {
		t.Errorf("newest entry input = %q", entries[0].Input)
	}
	if entries[0].ErrorCount != 1 || entries[1].ErrorCount != 0 {
		t.Errorf("error counts = %d, %d; want 1, 0", entries[0].ErrorCount, entries[1].ErrorCount)
	}

	out, _, err = execute(t, "", "history", "--config", cfg, "--failed")
	if err != nil {
		t.Fatalf("history --failed: %v", err)
	}
	if !strings.HasPrefix(out, "1 von 1 Einträgen") {
		t.Errorf("unexpected failed listing:\n%s", out)
	}
}

func TestHistoryRejectsUnknownMode(t *testing.T) {
	_, _, err := execute(t, "", "history", "--config", writeConfig(t, false), "--mode", "eval")
	if !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestHistoryDisabled(t *testing.T) {
	out, _, err := execute(t, "", "history", "--config", writeConfig(t, true))
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "deaktiviert") {
		t.Errorf("unexpected output: %q", out)
	}
}
