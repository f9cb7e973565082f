package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "maf",
	Short: "meinAFFE - Werkzeuge für die Monkey-Sprache",
	Long: `meinAFFE ist ein Lexer und Pratt-Parser für die Monkey-Sprache
mit interaktiver REPL, Terminal-UI und gRPC/WebSocket-Service.

Ohne Unterbefehl startet die REPL im Token-Modus.

Befehle:
  repl      - Interaktive REPL (optional als TUI)
  tokenize  - Quelltext in Tokens zerlegen
  parse     - Quelltext parsen und kanonisch ausgeben
  serve     - Frege-Service starten (gRPC + WebSocket)
  history   - Gespeicherte Eingaben anzeigen`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runREPL,
}

// Execute runs the root command and reports a failure on stderr
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !isReported(err) {
		printError("Befehl fehlgeschlagen", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config-Datei (default: ./configs/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose Output")
	addREPLFlags(rootCmd)
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Fehler: %s: %v\n", msg, err)
}

// reportedError marks an error whose details were already printed, so
// Execute only sets the exit code.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

func isReported(err error) bool {
	_, ok := err.(reportedError)
	return ok
}
