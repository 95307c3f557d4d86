package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/geoquiz/internal/hints"
	"github.com/abhisek/geoquiz/internal/llm"
	"github.com/abhisek/geoquiz/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM usage",
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize LLM calls by purpose and model",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()
		if rt.Env.Events == nil {
			return fmt.Errorf("LLM usage is not recorded with --no-save")
		}

		ctx := cmd.Context()
		byPurpose, err := rt.Env.Events.LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		byModel, err := rt.Env.Events.LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}

		w := cmd.OutOrStdout()
		if len(byPurpose) == 0 {
			fmt.Fprintln(w, "No LLM calls recorded.")
			return nil
		}
		printUsage(cmd, "Purpose", byPurpose, false)
		fmt.Fprintln(w)
		printUsage(cmd, "Model", byModel, true)
		return nil
	},
}

func printUsage(cmd *cobra.Command, heading string, rows []store.LLMUsageStats, withCost bool) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-28s  %-6s  %-6s  %-8s  %-8s  %-7s", heading, "Calls", "Failed", "In", "Out", "Avg ms")
	if withCost {
		fmt.Fprintf(w, "  %s", "Cost")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("─", 90))
	var total float64
	for _, r := range rows {
		fmt.Fprintf(w, "%-28s  %-6d  %-6d  %-8d  %-8d  %-7d", r.Key, r.Calls, r.Failures, r.InputTokens, r.OutputTokens, r.AvgLatencyMs)
		if withCost {
			if usd, ok := llm.Cost(r.Key, r.InputTokens, r.OutputTokens); ok {
				total += usd
				fmt.Fprintf(w, "  $%.4f", usd)
			} else {
				fmt.Fprint(w, "  -")
			}
		}
		fmt.Fprintln(w)
	}
	if withCost && total > 0 {
		fmt.Fprintf(w, "Estimated total: $%.4f\n", total)
	}
}

var hintCmd = &cobra.Command{
	Use:   "hint <country>",
	Short: "Ask the LLM for a hint about a country",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()
		if rt.Env.Hints == nil {
			return fmt.Errorf("no LLM provider configured; set GEOQUIZ_LLM_PROVIDER and an API key")
		}

		query := strings.Join(args, " ")
		c, ok := rt.Env.Catalog.Lookup(query)
		if !ok {
			return fmt.Errorf("unknown country %q", query)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()
		h, err := rt.Env.Hints.Get(ctx, c, "")
		if err != nil {
			return fmt.Errorf("generate hint: %w", err)
		}
		printHint(cmd, c.Name, h)
		return nil
	},
}

func printHint(cmd *cobra.Command, name string, h hints.Hint) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s\n\n%s\n", name, h.Text)
	for _, f := range h.Facts {
		fmt.Fprintf(w, "  • %s\n", f)
	}
}

func init() {
	llmCmd.AddCommand(llmStatsCmd)
}
