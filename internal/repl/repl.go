// ============================================================================
// meinAFFE (mAF) - Monkey-Sprachwerkzeuge
// ============================================================================
//
// Package:     repl
// Description: Line-oriented read loop echoing tokens or parsed programs
// Author:      msto63
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	mdwerror "github.com/msto63/mAF/foundation/core/error"
	"github.com/msto63/mAF/foundation/utils/stringx"
	"github.com/msto63/mAF/internal/frege/service"
)

// Prompt is printed before every line read
const Prompt = ">> "

// Mode selects what the loop does with each line
type Mode string

const (
	// ModeTokens prints every token of the line (the classic token echo)
	ModeTokens Mode = "tokens"

	// ModeParse prints the rendered program followed by parse errors
	ModeParse Mode = "parse"
)

// ParseMode validates a mode name; "" selects ModeTokens
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeTokens:
		return ModeTokens, nil
	case ModeParse:
		return ModeParse, nil
	default:
		return "", mdwerror.Newf("unknown REPL mode %q (want tokens or parse)", s).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("repl.ParseMode")
	}
}

// Options configure a REPL session
type Options struct {
	Prompt  string
	Mode    Mode
	User    string // greeted on start; empty skips the greeting
	Service *service.Service
}

// Greeting returns the banner printed on start
func Greeting(user string) string {
	return fmt.Sprintf("Hello %s! Welcome to the Monkey programming language REPL!", user)
}

// Start reads lines from in until EOF, answering each on out. Every line is
// lexed from scratch. Lines starting with ':' are commands (:tokens,
// :parse, :quit). Blank lines are ignored.
func Start(ctx context.Context, in io.Reader, out io.Writer, opts Options) error {
	if opts.Prompt == "" {
		opts.Prompt = Prompt
	}
	if opts.Mode == "" {
		opts.Mode = ModeTokens
	}
	if opts.Service == nil {
		svc, err := service.NewService(service.Config{})
		if err != nil {
			return err
		}
		opts.Service = svc
	}

	ctx = service.WithSession(ctx, service.NewSessionID())
	s := &session{out: out, opts: opts}

	if opts.User != "" {
		fmt.Fprintln(out, Greeting(opts.User))
		fmt.Fprintf(out, "Mode: %s (switch with :tokens or :parse)\n", opts.Mode)
	}

	reader := bufio.NewReader(in)
	for {
		fmt.Fprint(out, opts.Prompt)

		line, readErr := reader.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return mdwerror.Wrap(readErr, "failed to read input").
				WithOperation("repl.Start")
		}

		if !stringx.IsBlank(line) {
			if quit := s.handle(ctx, line); quit {
				return nil
			}
		}

		if readErr == io.EOF {
			fmt.Fprintln(out)
			return nil
		}
	}
}

type session struct {
	out  io.Writer
	opts Options
}

// handle answers one line and reports whether the session should end
func (s *session) handle(ctx context.Context, line string) bool {
	trimmed := strings.TrimSpace(line)

	if strings.HasPrefix(trimmed, ":") {
		switch trimmed {
		case ":quit", ":q":
			return true
		case ":tokens":
			s.opts.Mode = ModeTokens
		case ":parse":
			s.opts.Mode = ModeParse
		default:
			fmt.Fprintf(s.out, "unknown command %s (try :tokens, :parse or :quit)\n", trimmed)
			return false
		}
		fmt.Fprintf(s.out, "Mode: %s\n", s.opts.Mode)
		return false
	}

	var err error
	switch s.opts.Mode {
	case ModeParse:
		err = s.parse(ctx, line)
	default:
		err = s.tokens(ctx, line)
	}
	if err != nil {
		fmt.Fprintf(s.out, "error: %s\n", mdwerror.GetCode(err))
		fmt.Fprintf(s.out, "\t%s\n", err)
	}
	return false
}

func (s *session) tokens(ctx context.Context, line string) error {
	result, err := s.opts.Service.Tokenize(ctx, line)
	if err != nil {
		return err
	}

	for _, tok := range result.Tokens {
		if tok.Kind == "EOF" {
			break
		}
		fmt.Fprintln(s.out, tok.String())
	}
	return nil
}

func (s *session) parse(ctx context.Context, line string) error {
	result, err := s.opts.Service.Parse(ctx, line)
	if err != nil {
		return err
	}

	if result.Program != "" {
		fmt.Fprintln(s.out, result.Program)
	}
	if len(result.Errors) > 0 {
		fmt.Fprintln(s.out, "parser errors:")
		for _, msg := range result.Errors {
			fmt.Fprintf(s.out, "\t%s\n", msg)
		}
	}
	return nil
}
