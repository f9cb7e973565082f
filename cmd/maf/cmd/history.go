package cmd

import (
	"fmt"
	"strings"
	"time"

	mdwerror "github.com/msto63/mAF/foundation/core/error"
	"github.com/msto63/mAF/foundation/utils/stringx"
	"github.com/msto63/mAF/internal/frege/store"
	"github.com/spf13/cobra"
)

var (
	historySession string
	historyMode    string
	historyFailed  bool
	historyLimit   int
	historyJSON    bool
	historyPrune   time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Zeigt den Verlauf gespeicherter Eingaben",
	Long: `Zeigt die in der History-Datenbank gespeicherten Eingaben von REPL,
TUI und Service, neueste zuerst.

Beispiele:
  maf history
  maf history --mode parse --failed
  maf history --session 3f0c... --json
  maf history --prune 168h   # Einträge älter als 7 Tage löschen`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&historySession, "session", "", "Nur Einträge dieser Session")
	historyCmd.Flags().StringVar(&historyMode, "mode", "", "Nur Einträge dieses Modus (tokens, parse)")
	historyCmd.Flags().BoolVar(&historyFailed, "failed", false, "Nur Einträge mit Parser-Fehlern")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Maximale Anzahl (default aus Config)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Als JSON ausgeben")
	historyCmd.Flags().DurationVar(&historyPrune, "prune", 0, "Einträge löschen, die älter sind als diese Dauer")
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := newApp(appOptions{history: true})
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	if a.store == nil {
		fmt.Fprintln(out, "Verlauf ist deaktiviert (history.disabled = true)")
		return nil
	}

	ctx := cmd.Context()
	if historyPrune > 0 {
		removed, err := a.store.Prune(ctx, historyPrune)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%d Einträge gelöscht\n", removed)
		return nil
	}

	filter := store.Filter{
		SessionID:  historySession,
		Mode:       store.Mode(strings.ToLower(historyMode)),
		OnlyFailed: historyFailed,
		Limit:      historyLimit,
	}
	if filter.Mode != "" && !filter.Mode.Valid() {
		return mdwerror.New(fmt.Sprintf("unknown history mode %q", historyMode)).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("maf.history").
			WithDetail("mode", historyMode)
	}
	if filter.Limit <= 0 {
		filter.Limit = a.cfg.History.Limit
	}

	entries, err := a.service.History(ctx, filter)
	if err != nil {
		return err
	}

	if historyJSON {
		return writeJSON(out, entries)
	}

	total, err := a.store.Count(ctx, store.Filter{SessionID: filter.SessionID, Mode: filter.Mode, OnlyFailed: filter.OnlyFailed})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%d von %d Einträgen\n\n", len(entries), total)
	for _, e := range entries {
		status := "ok"
		if e.ErrorCount > 0 {
			status = fmt.Sprintf("%d Fehler", e.ErrorCount)
		}
		fmt.Fprintf(out, "%s  %s  %s  %s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			stringx.PadRight(string(e.Mode), 6, ' '),
			stringx.PadRight(status, 9, ' '),
			stringx.Truncate(strings.Join(strings.Fields(e.Input), " "), 60, "..."))
	}
	return nil
}
