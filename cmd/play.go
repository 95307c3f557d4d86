package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/geoquiz/internal/app"
	"github.com/abhisek/geoquiz/internal/countries"
	"github.com/abhisek/geoquiz/internal/quiz"
	"github.com/abhisek/geoquiz/internal/screens/home"
	"github.com/abhisek/geoquiz/internal/screens/play"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a quiz directly",
	Long:  "Start a quiz without going through the home menu. Modes: quiz, learning, sandbox, daily.",
	RunE: func(cmd *cobra.Command, args []string) error {
		modeFlag, _ := cmd.Flags().GetString("mode")
		set, _ := cmd.Flags().GetString("set")
		typesFlag, _ := cmd.Flags().GetStringSlice("types")

		mode, err := parseMode(modeFlag)
		if err != nil {
			return err
		}
		types, err := parseTypes(typesFlag)
		if err != nil {
			return err
		}

		rt, err := openRuntime(cmd, true)
		if err != nil {
			return err
		}
		defer rt.Close()

		if set != "" && set != countries.AllCountries {
			if _, err := rt.Env.Catalog.QuizSet(set); err != nil {
				return err
			}
		}
		cfg := play.Config{Mode: mode, QuizSet: set, Types: types}
		return app.Run(rt.Env, home.New(rt.Env), play.New(rt.Env, cfg))
	},
}

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Play today's daily challenge",
	RunE: func(cmd *cobra.Command, args []string) error {
		share, _ := cmd.Flags().GetBool("share")
		rt, err := openRuntime(cmd, !share)
		if err != nil {
			return err
		}
		defer rt.Close()
		if share {
			return printDailyShare(cmd, rt)
		}
		cfg := play.Config{Mode: quiz.ModeDailyChallenge}
		return app.Run(rt.Env, home.New(rt.Env), play.New(rt.Env, cfg))
	},
}

func init() {
	playCmd.Flags().String("mode", "quiz", "Game mode: quiz, learning, sandbox or daily")
	playCmd.Flags().String("set", "", "Quiz set name (see `geoquiz sets`)")
	playCmd.Flags().StringSlice("types", nil, "Prompt types to ask: location, name, flag")
	dailyCmd.Flags().Bool("share", false, "Print today's saved result instead of playing")
}

func parseMode(s string) (quiz.GameMode, error) {
	switch strings.ToLower(s) {
	case "quiz", "":
		return quiz.ModeQuiz, nil
	case "learning", "learn":
		return quiz.ModeLearning, nil
	case "sandbox":
		return quiz.ModeSandbox, nil
	case "daily", "dailychallenge":
		return quiz.ModeDailyChallenge, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

func parseTypes(in []string) ([]quiz.PromptType, error) {
	var out []quiz.PromptType
	for _, s := range in {
		t := quiz.PromptType(strings.ToLower(strings.TrimSpace(s)))
		if !t.Valid() {
			return nil, fmt.Errorf("unknown prompt type %q", s)
		}
		out = append(out, t)
	}
	return out, nil
}
