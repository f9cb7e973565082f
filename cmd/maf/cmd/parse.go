package cmd

import (
	"context"
	"fmt"
	"io"

	mdwerror "github.com/msto63/mAF/foundation/core/error"
	"github.com/msto63/mAF/foundation/monkey/ast"
	"github.com/msto63/mAF/foundation/monkey/lexer"
	"github.com/msto63/mAF/foundation/monkey/parser"
	"github.com/msto63/mAF/internal/frege/server"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/types/known/structpb"
)

var (
	parseFile       string
	parseTree       bool
	parseJSON       bool
	parseValidate   bool
	parseSkipValues bool
	parseRemote     string
)

var parseCmd = &cobra.Command{
	Use:   "parse [quelltext...]",
	Short: "Parst Monkey-Quelltext und gibt ihn kanonisch aus",
	Long: `Parst Monkey-Quelltext mit dem Pratt-Parser und gibt das Programm
in kanonischer, voll geklammerter Form aus.

Bei Parser-Fehlern werden alle Meldungen auf stderr ausgegeben und
der Befehl endet mit Exit-Code 1.

Beispiele:
  maf parse 'let x = 1 + 2 * 3;'
  maf parse -f programm.monkey --tree
  maf parse --json 'a == !b'
  maf parse --remote localhost:9500 '-a * b'`,
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseFile, "file", "f", "", "Quelldatei (- für stdin)")
	parseCmd.Flags().BoolVar(&parseTree, "tree", false, "AST als eingerückten Baum ausgeben")
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "Ergebnis als JSON ausgeben")
	parseCmd.Flags().BoolVar(&parseValidate, "validate", false, "AST nach dem Parsen zusätzlich prüfen")
	parseCmd.Flags().BoolVar(&parseSkipValues, "skip-values", false, "Werte von let/return überspringen statt parsen")
	parseCmd.Flags().StringVar(&parseRemote, "remote", "", "Adresse eines laufenden Frege-Service (gRPC)")
}

func runParse(cmd *cobra.Command, args []string) error {
	src, err := readSource(args, parseFile, cmd.InOrStdin())
	if err != nil {
		return err
	}

	if parseRemote != "" {
		return runRemoteParse(cmd, src)
	}

	a, err := newApp(appOptions{skipValues: parseSkipValues})
	if err != nil {
		return err
	}
	defer a.Close()

	skip := parseSkipValues || a.cfg.Parser.SkipValues

	if parseJSON {
		result, err := a.service.Parse(cmd.Context(), src)
		if err != nil {
			return err
		}
		if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
		if len(result.Errors) > 0 {
			return reportedError{syntaxError(result.Errors)}
		}
		return nil
	}

	p := parser.New(lexer.New(src), parser.WithLogger(a.base), parser.WithSkipValues(skip))
	program := p.ParseProgram()

	out := cmd.OutOrStdout()
	if parseTree {
		fmt.Fprint(out, ast.Dump(program))
	} else if s := program.String(); s != "" {
		fmt.Fprintln(out, s)
	}

	if err := p.Err(); err != nil {
		printParserErrors(cmd.ErrOrStderr(), p.Errors())
		return reportedError{err}
	}

	if parseValidate {
		if err := ast.Validate(program); err != nil {
			return err
		}
	}
	return nil
}

func runRemoteParse(cmd *cobra.Command, src string) error {
	resp, err := callRemote(parseRemote, cmd.OutOrStdout(), func(ctx context.Context, c *server.Client) (*structpb.Struct, error) {
		return c.Parse(ctx, src)
	})
	if err != nil {
		return err
	}

	var msgs []string
	for _, v := range resp.GetFields()["errors"].GetListValue().GetValues() {
		msgs = append(msgs, v.GetStringValue())
	}
	if len(msgs) > 0 {
		return reportedError{syntaxError(msgs)}
	}
	return nil
}

func printParserErrors(w io.Writer, msgs []string) {
	fmt.Fprintln(w, "parser errors:")
	for _, msg := range msgs {
		fmt.Fprintf(w, "\t%s\n", msg)
	}
}

func syntaxError(msgs []string) error {
	return mdwerror.New(fmt.Sprintf("%d parse error(s)", len(msgs))).
		WithCode(mdwerror.CodeMonkeySyntax).
		WithOperation("maf.parse").
		WithDetail("errors", msgs)
}
