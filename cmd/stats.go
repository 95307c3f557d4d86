package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/geoquiz/internal/screens/history"
	"github.com/abhisek/geoquiz/internal/spacedrep"
	"github.com/abhisek/geoquiz/internal/stats"
	"github.com/abhisek/geoquiz/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print daily results and answer statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		rep, err := history.LoadReport(cmd.Context(), rt.Env.Progress, rt.Env.Events, rt.Env.Today())
		if err != nil {
			return fmt.Errorf("load stats: %w", err)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Streak: %d day(s)", rep.Streak)
		if tier := stats.StreakTier(rep.Streak); tier != stats.TierNone {
			fmt.Fprintf(w, " (%s)", tier)
		}
		fmt.Fprintln(w)
		if rep.Best.Date != "" {
			fmt.Fprintf(w, "Best daily: %s  %d correct  skill %.0f%%\n", rep.Best.Date, rep.Best.Score, rep.Best.SkillScore*100)
		}

		fmt.Fprintln(w)
		fmt.Fprintf(w, "%-10s  %-6s  %s\n", "Date", "Score", "Skill")
		fmt.Fprintln(w, strings.Repeat("─", 28))
		if len(rep.Daily) == 0 {
			fmt.Fprintln(w, "No daily challenges saved yet.")
		}
		for _, e := range rep.Daily {
			fmt.Fprintf(w, "%-10s  %-6d  %.0f%%\n", e.Date, e.Score, e.SkillScore*100)
		}

		if rt.Env.Events == nil {
			return nil
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%-10s  %-7s  %-7s  %s\n", "Type", "Answers", "Correct", "Accuracy")
		fmt.Fprintln(w, strings.Repeat("─", 40))
		for _, t := range rep.Types {
			acc := 0.0
			if t.Total > 0 {
				acc = float64(t.Correct) / float64(t.Total) * 100
			}
			fmt.Fprintf(w, "%-10s  %-7d  %-7d  %.0f%%\n", t.PromptType, t.Total, t.Correct, acc)
		}
		if len(rep.Missed) > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Most missed:")
			for _, m := range rep.Missed {
				name := m.CountryCode
				if c, ok := rt.Env.Catalog.ByCode(m.CountryCode); ok {
					name = c.Name
				}
				fmt.Fprintf(w, "  %-28s %d\n", name, m.Misses)
			}
		}
		return nil
	},
}

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List countries due for review in learning mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		upcoming, _ := cmd.Flags().GetBool("upcoming")
		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		p, err := rt.Env.Progress.LoadProgress(cmd.Context())
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		now := rt.Env.Today()
		sched := spacedrep.NewScheduler(p)
		all := rt.Env.Catalog.All()

		states := sched.DueStates(now, all)
		if upcoming {
			states = sched.Upcoming(now, all)
		}
		w := cmd.OutOrStdout()
		if len(states) == 0 {
			fmt.Fprintln(w, "Nothing to review.")
			return nil
		}
		for _, rs := range states {
			name := rs.Code
			if c, ok := rt.Env.Catalog.ByCode(rs.Code); ok {
				name = c.Name
			}
			fmt.Fprintf(w, "%-28s  %s\n", name, describeReview(rs, now))
		}
		return nil
	},
}

func describeReview(rs spacedrep.ReviewState, now time.Time) string {
	if !rs.HasRecord || rs.LastChecked.IsZero() {
		return "never seen"
	}
	if rs.IsDue(now) {
		return fmt.Sprintf("overdue %.1f day(s), interval %.1f", rs.OverdueDays(now), rs.Rate)
	}
	return fmt.Sprintf("next %s, interval %.1f", rs.NextReview().Format(store.DateLayout), rs.Rate)
}

func init() {
	dueCmd.Flags().Bool("upcoming", false, "List countries not yet due, soonest first")
}
