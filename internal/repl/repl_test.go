package repl

import (
	"bytes"
	"context"
	"strings"
	"testing"

	mdwerror "github.com/msto63/mAF/foundation/core/error"
	mdwlog "github.com/msto63/mAF/foundation/core/log"
	"github.com/msto63/mAF/internal/frege/service"
	"github.com/msto63/mAF/internal/frege/store"
	"github.com/msto63/mAF/pkg/core/logging"
)

func quietService(t *testing.T, cfg service.Config) *service.Service {
	t.Helper()
	cfg.Logger = logging.Wrap("test", mdwlog.Discard())
	svc, err := service.NewService(cfg)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc
}

func run(t *testing.T, input string, opts Options) string {
	t.Helper()
	if opts.Service == nil {
		opts.Service = quietService(t, service.Config{})
	}

	var out bytes.Buffer
	if err := Start(context.Background(), strings.NewReader(input), &out, opts); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return out.String()
}

func TestStart(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		opts     Options
		expected string
	}{
		{
			name:  "token echo",
			input: "let x = 5;\n",
			expected: `>> {Kind:LET Literal:"let"}
{Kind:IDENT Literal:"x"}
{Kind:ASSIGN Literal:"="}
{Kind:INT Literal:"5"}
{Kind:SEMICOLON Literal:";"}
>> 
`,
		},
		{
			name:     "blank lines are skipped",
			input:    "\n   \n+\n",
			expected: ">> >> >> {Kind:PLUS Literal:\"+\"}\n>> \n",
		},
		{
			name:     "last line without newline",
			input:    "!=",
			expected: ">> {Kind:NOT_EQ Literal:\"!=\"}\n\n",
		},
		{
			name:     "empty input",
			input:    "",
			expected: ">> \n",
		},
		{
			name:     "parse mode",
			input:    "a + b * c\nlet = 1;\n",
			opts:     Options{Mode: ModeParse},
			expected: ">> (a + (b * c))\n>> parser errors:\n\texpected next token to be IDENT, got ASSIGN\n>> \n",
		},
		{
			name:     "custom prompt",
			input:    "1\n",
			opts:     Options{Prompt: "monkey> "},
			expected: "monkey> {Kind:INT Literal:\"1\"}\nmonkey> \n",
		},
		{
			name:     "switch mode",
			input:    ":parse\n-a\n:tokens\n-\n",
			expected: ">> Mode: parse\n>> (-a)\n>> Mode: tokens\n>> {Kind:MINUS Literal:\"-\"}\n>> \n",
		},
		{
			name:     "quit stops reading",
			input:    ":quit\n1\n",
			expected: ">> ",
		},
		{
			name:     "unknown command",
			input:    ":eval\n",
			expected: ">> unknown command :eval (try :tokens, :parse or :quit)\n>> \n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := run(t, tt.input, tt.opts)
			if got != tt.expected {
				t.Errorf("output mismatch\ngot:\n%q\nwant:\n%q", got, tt.expected)
			}
		})
	}
}

func TestStart_Greeting(t *testing.T) {
	got := run(t, "", Options{User: "ada"})

	if !strings.HasPrefix(got, "Hello ada! Welcome to the Monkey programming language REPL!\n") {
		t.Errorf("output = %q", got)
	}
	if !strings.Contains(got, "Mode: tokens") {
		t.Errorf("greeting should name the mode: %q", got)
	}
}

func TestStart_InputTooLong(t *testing.T) {
	svc := quietService(t, service.Config{MaxInputLength: 4})

	got := run(t, "let x = 1;\n", Options{Service: svc})

	if !strings.Contains(got, "error: "+string(mdwerror.CodeInvalidInput)) {
		t.Errorf("output = %q", got)
	}
}

func TestStart_RecordsHistory(t *testing.T) {
	mem := store.NewMemoryStore()
	svc := quietService(t, service.Config{Store: mem})

	run(t, "x\n:parse\ny\n", Options{Service: svc})

	entries, _ := mem.Query(context.Background(), store.Filter{})
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].SessionID == "" || entries[0].SessionID != entries[1].SessionID {
		t.Errorf("entries should share one session: %q, %q", entries[0].SessionID, entries[1].SessionID)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input    string
		expected Mode
		wantErr  bool
	}{
		{"", ModeTokens, false},
		{"tokens", ModeTokens, false},
		{" PARSE ", ModeParse, false},
		{"eval", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseMode(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
