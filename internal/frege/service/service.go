package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	mdwerror "github.com/msto63/mAF/foundation/core/error"
	mdwlog "github.com/msto63/mAF/foundation/core/log"
	"github.com/msto63/mAF/foundation/monkey/ast"
	"github.com/msto63/mAF/foundation/monkey/lexer"
	"github.com/msto63/mAF/foundation/monkey/parser"
	"github.com/msto63/mAF/foundation/monkey/token"
	"github.com/msto63/mAF/internal/frege/store"
	"github.com/msto63/mAF/pkg/core/health"
	"github.com/msto63/mAF/pkg/core/logging"
)

// Token is the transport view of a lexer token
type Token struct {
	Kind    string `json:"kind"`
	Literal string `json:"literal"`
	Offset  int    `json:"offset"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

// Diagnostic is the transport view of a parse error
type Diagnostic struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

// TokenizeResult represents the result of tokenizing one input
type TokenizeResult struct {
	Tokens   []Token       `json:"tokens"`
	Illegal  int           `json:"illegal"`
	Duration time.Duration `json:"duration"`
}

// ParseResult represents the result of parsing one input
type ParseResult struct {
	Program     string                 `json:"program"`
	Tree        map[string]interface{} `json:"tree"`
	Errors      []string               `json:"errors"`
	Diagnostics []Diagnostic           `json:"diagnostics"`
	Statements  int                    `json:"statements"`
	Counts      map[string]int         `json:"counts"`
	Duration    time.Duration          `json:"duration"`
}

// Config holds service configuration
type Config struct {
	// MaxInputLength rejects longer inputs (bytes); 0 disables the check
	MaxInputLength int

	// SkipValues makes let/return skip their values instead of parsing them
	SkipValues bool

	// Store records every request when set
	Store store.Store

	Logger *logging.Logger
}

// Service is the Frege language front-end service
type Service struct {
	logger *logging.Logger
	config Config
}

// NewService creates a new Frege service
func NewService(cfg Config) (*Service, error) {
	if cfg.MaxInputLength < 0 {
		return nil, mdwerror.Newf("max input length must not be negative, got %d", cfg.MaxInputLength).
			WithCode(mdwerror.CodeConfigError).
			WithOperation("service.NewService")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.New("frege-service")
	}

	return &Service{
		logger: logger,
		config: cfg,
	}, nil
}

// Tokenize runs the lexer over input until EOF. The EOF token is included.
func (s *Service) Tokenize(ctx context.Context, input string) (*TokenizeResult, error) {
	if err := s.checkInput(ctx, input, "service.Tokenize"); err != nil {
		return nil, err
	}

	start := time.Now()
	toks := lexer.Tokenize(input)

	result := &TokenizeResult{Tokens: make([]Token, len(toks))}
	lines := make([]string, len(toks))
	for i, tok := range toks {
		result.Tokens[i] = Token{
			Kind:    tok.Kind.String(),
			Literal: tok.Literal,
			Offset:  tok.Pos.Offset,
			Line:    tok.Pos.Line,
			Column:  tok.Pos.Column,
		}
		if tok.Kind == token.ILLEGAL {
			result.Illegal++
		}
		lines[i] = tok.String()
	}
	result.Duration = time.Since(start)

	s.record(ctx, store.ModeTokens, input, strings.Join(lines, "\n"), result.Illegal)

	return result, nil
}

// Parse parses input into a program. Syntax errors are part of the
// result, not a returned error.
func (s *Service) Parse(ctx context.Context, input string) (*ParseResult, error) {
	if err := s.checkInput(ctx, input, "service.Parse"); err != nil {
		return nil, err
	}

	start := time.Now()
	p := parser.New(lexer.New(input),
		parser.WithLogger(s.logger.Logger),
		parser.WithSkipValues(s.config.SkipValues),
	)
	program := p.ParseProgram()

	result := &ParseResult{
		Program:    program.String(),
		Tree:       ast.ToMap(program),
		Errors:     p.Errors(),
		Statements: len(program.Statements),
		Counts:     ast.Count(program),
	}
	for _, d := range p.Diagnostics() {
		result.Diagnostics = append(result.Diagnostics, Diagnostic{
			Kind:    d.Kind.String(),
			Message: d.Message,
			Line:    d.Token.Pos.Line,
			Column:  d.Token.Pos.Column,
		})
	}
	result.Duration = time.Since(start)

	s.record(ctx, store.ModeParse, input, result.Program, len(result.Errors))

	return result, nil
}

// History lists recorded requests. Without a store it returns nothing.
func (s *Service) History(ctx context.Context, filter store.Filter) ([]*store.Entry, error) {
	if s.config.Store == nil {
		return nil, nil
	}
	return s.config.Store.Query(ctx, filter)
}

// Parser canary used by the health check
const (
	canaryInput = "let x = 1 + 2 * -3 == !true;"
	canaryWant  = "let x = ((1 + (2 * (-3))) == (!true));"
	canarySlow  = 50 * time.Millisecond
)

// RegisterHealth adds the parser canary and, with a store, the history
// ping to registry
func (s *Service) RegisterHealth(registry *health.Registry) {
	registry.Add("parser", health.Canary(s.canary, canaryWant, canarySlow))
	if s.config.Store != nil {
		registry.Add("history", health.Ping(s.config.Store.Ping))
	}
}

// canary parses a fixed program outside of history and logging
func (s *Service) canary(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	program, errs := parser.Parse(canaryInput, parser.WithLogger(mdwlog.Discard()))
	if len(errs) > 0 {
		return "", mdwerror.New(strings.Join(errs, "; ")).
			WithCode(mdwerror.CodeMonkeySyntax).
			WithOperation("service.canary")
	}
	return program.String(), nil
}

func (s *Service) checkInput(ctx context.Context, input string, op string) error {
	if err := ctx.Err(); err != nil {
		return mdwerror.Wrap(err, "request cancelled").
			WithCode(mdwerror.CodeServiceUnavailable).
			WithOperation(op)
	}

	if max := s.config.MaxInputLength; max > 0 && len(input) > max {
		return mdwerror.Newf("input is %d bytes, limit is %d", len(input), max).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation(op).
			WithDetail("length", len(input)).
			WithDetail("limit", max)
	}
	return nil
}

// record saves a history entry; failures are logged, never returned
func (s *Service) record(ctx context.Context, mode store.Mode, input, output string, errorCount int) {
	if s.config.Store == nil {
		return
	}

	entry := &store.Entry{
		SessionID:  SessionID(ctx),
		Mode:       mode,
		Input:      input,
		Output:     output,
		ErrorCount: errorCount,
	}
	if err := s.config.Store.Save(ctx, entry); err != nil {
		s.logger.Warn("Failed to record history", "mode", mode, "error", err)
	}
}

// String renders the token like token.Token does
func (t Token) String() string {
	return fmt.Sprintf("{Kind:%s Literal:%q}", t.Kind, t.Literal)
}
