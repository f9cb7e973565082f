package server

import (
	"github.com/msto63/mAF/internal/frege/service"
)

// structpb only accepts generic maps and slices, so results are flattened
// to map[string]interface{} before conversion.

func tokenizeResultMap(r *service.TokenizeResult) map[string]interface{} {
	tokens := make([]interface{}, len(r.Tokens))
	for i, tok := range r.Tokens {
		tokens[i] = map[string]interface{}{
			"kind":    tok.Kind,
			"literal": tok.Literal,
			"offset":  tok.Offset,
			"line":    tok.Line,
			"column":  tok.Column,
		}
	}

	return map[string]interface{}{
		"tokens":      tokens,
		"illegal":     r.Illegal,
		"duration_ms": float64(r.Duration.Microseconds()) / 1000,
	}
}

func parseResultMap(r *service.ParseResult) map[string]interface{} {
	errs := make([]interface{}, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}

	diagnostics := make([]interface{}, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		diagnostics[i] = map[string]interface{}{
			"kind":    d.Kind,
			"message": d.Message,
			"line":    d.Line,
			"column":  d.Column,
		}
	}

	counts := make(map[string]interface{}, len(r.Counts))
	for k, v := range r.Counts {
		counts[k] = v
	}

	return map[string]interface{}{
		"program":     r.Program,
		"tree":        r.Tree,
		"errors":      errs,
		"diagnostics": diagnostics,
		"statements":  r.Statements,
		"counts":      counts,
		"duration_ms": float64(r.Duration.Microseconds()) / 1000,
	}
}
