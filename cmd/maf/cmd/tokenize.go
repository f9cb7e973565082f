package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/msto63/mAF/internal/frege/server"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/types/known/structpb"
)

var (
	tokenizeFile      string
	tokenizePositions bool
	tokenizeJSON      bool
	tokenizeRemote    string
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [quelltext...]",
	Short: "Zerlegt Monkey-Quelltext in Tokens",
	Long: `Zerlegt Monkey-Quelltext in Tokens und gibt sie zeilenweise aus,
bis einschließlich EOF.

Der Quelltext kommt aus den Argumenten, aus --file oder von stdin.

Beispiele:
  maf tokenize 'let x = 5;'
  maf tokenize -f programm.monkey --positions
  echo 'a == b' | maf tokenize --json
  maf tokenize --remote localhost:9500 'x + 1'`,
	RunE: runTokenize,
}

func init() {
	rootCmd.AddCommand(tokenizeCmd)
	tokenizeCmd.Flags().StringVarP(&tokenizeFile, "file", "f", "", "Quelldatei (- für stdin)")
	tokenizeCmd.Flags().BoolVar(&tokenizePositions, "positions", false, "Zeile:Spalte vor jedem Token ausgeben")
	tokenizeCmd.Flags().BoolVar(&tokenizeJSON, "json", false, "Ergebnis als JSON ausgeben")
	tokenizeCmd.Flags().StringVar(&tokenizeRemote, "remote", "", "Adresse eines laufenden Frege-Service (gRPC)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	src, err := readSource(args, tokenizeFile, cmd.InOrStdin())
	if err != nil {
		return err
	}

	if tokenizeRemote != "" {
		_, err := callRemote(tokenizeRemote, cmd.OutOrStdout(), func(ctx context.Context, c *server.Client) (*structpb.Struct, error) {
			return c.Tokenize(ctx, src)
		})
		return err
	}

	a, err := newApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.service.Tokenize(cmd.Context(), src)
	if err != nil {
		return err
	}

	if tokenizeJSON {
		return writeJSON(cmd.OutOrStdout(), result)
	}

	out := cmd.OutOrStdout()
	for _, tok := range result.Tokens {
		if tokenizePositions {
			fmt.Fprintf(out, "%d:%d\t", tok.Line, tok.Column)
		}
		fmt.Fprintln(out, tok.String())
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
