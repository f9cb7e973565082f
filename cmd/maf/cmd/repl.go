package cmd

import (
	"context"
	"os"
	"os/signal"
	"os/user"
	"syscall"

	"github.com/msto63/mAF/foundation/utils/stringx"
	"github.com/msto63/mAF/internal/repl"
	"github.com/msto63/mAF/internal/tui"
	"github.com/spf13/cobra"
)

var (
	replTUI  bool
	replMode string
	replUser string
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Startet die interaktive Monkey-REPL",
	Long: `Startet die interaktive REPL.

Im Token-Modus wird jede Zeile in Tokens zerlegt, im Parse-Modus
wird das Programm kanonisch ausgegeben. Umschalten mit :tokens
und :parse, beenden mit :quit oder Ctrl+D.

Beispiele:
  maf repl                # Klassische Zeilen-REPL
  maf repl --mode parse   # Direkt im Parse-Modus
  maf repl --tui          # Terminal-UI (Ctrl+T wechselt den Modus)`,
	Args: cobra.NoArgs,
	RunE: runREPL,
}

func init() {
	rootCmd.AddCommand(replCmd)
	addREPLFlags(replCmd)
}

func addREPLFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&replTUI, "tui", false, "Terminal-UI statt Zeilen-REPL")
	cmd.Flags().StringVar(&replMode, "mode", "", "Startmodus: tokens oder parse (default aus Config)")
	cmd.Flags().StringVar(&replUser, "user", "", "Name für die Begrüßung (default: aktueller Benutzer)")
}

func runREPL(cmd *cobra.Command, args []string) error {
	a, err := newApp(appOptions{history: true, terminalQuiet: replTUI})
	if err != nil {
		return err
	}
	defer a.Close()

	mode, err := repl.ParseMode(stringx.FirstNonBlank(replMode, a.cfg.REPL.Mode))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	name := stringx.FirstNonBlank(replUser, a.cfg.REPL.User, currentUser())
	a.logger.Debug("starting repl", "mode", mode, "tui", replTUI)

	if replTUI {
		return tui.Run(ctx, tui.Config{
			Mode:    mode,
			User:    name,
			Service: a.service,
		})
	}

	return repl.Start(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), repl.Options{
		Prompt:  a.cfg.REPL.Prompt,
		Mode:    mode,
		User:    name,
		Service: a.service,
	})
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return stringx.FirstNonBlank(os.Getenv("USER"), os.Getenv("USERNAME"), "monkey")
}
