package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/geoquiz/internal/countries"
	"github.com/abhisek/geoquiz/internal/stats"
	"github.com/abhisek/geoquiz/internal/store"
)

var setsCmd = &cobra.Command{
	Use:   "sets",
	Short: "List the available quiz sets",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := countries.Default()
		if err != nil {
			return fmt.Errorf("load countries: %w", err)
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%-28s  %d countries\n", countries.AllCountries, catalog.Len())
		for _, s := range catalog.QuizSets() {
			fmt.Fprintf(w, "%-28s  %d countries\n", s.Name, len(s.Codes))
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check country data for errors",
	Long:  "Check the bundled country data, or a countries.json given with --file, for errors.",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		catalog, err := loadCatalog(file)
		if err != nil {
			return fmt.Errorf("load countries: %w", err)
		}
		if err := catalog.Validate(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "OK: %d countries, %d quiz sets\n", catalog.Len(), len(catalog.QuizSets()))
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase daily results and learning progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			fmt.Fprint(cmd.OutOrStdout(), "Erase all saved progress? [y/N] ")
			line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(line)); a != "y" && a != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}
		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()
		if err := rt.Env.Progress.ClearAllProgress(cmd.Context()); err != nil {
			return fmt.Errorf("clear progress: %w", err)
		}
		if rt.Env.Events != nil {
			_ = rt.Env.Events.AppendSessionEvent(cmd.Context(), store.SessionEventData{Action: "reset"})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Progress cleared.")
		return nil
	},
}

// printDailyShare prints today's saved daily result. Per-prompt guesses
// are not persisted, so only the summary line is available here.
func printDailyShare(cmd *cobra.Command, rt *runtime) error {
	p, err := rt.Env.Progress.LoadProgress(cmd.Context())
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}
	today := rt.Env.Today().Format(store.DateLayout)
	w := cmd.OutOrStdout()
	for _, e := range p.DailyChallenge.FullEntries {
		if e.Date != today {
			continue
		}
		fmt.Fprintf(w, "GeoQuiz daily %s  %d correct  skill %.0f%%", e.Date, e.Score, e.SkillScore*100)
		if n := stats.CurrentStreak(p.DailyChallenge.Streak, rt.Env.Today()); n > 1 {
			fmt.Fprintf(w, "  🔥 %d", n)
		}
		fmt.Fprintln(w)
		return nil
	}
	return fmt.Errorf("no daily challenge saved for %s", today)
}

func loadCatalog(file string) (*countries.Catalog, error) {
	if file == "" {
		return countries.Default()
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return countries.Load(f)
}

func init() {
	validateCmd.Flags().String("file", "", "Country data file to check instead of the bundled one")
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
