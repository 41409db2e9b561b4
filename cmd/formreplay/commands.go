package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "formreplay",
		Short:        "Replay form interactions described in YAML",
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd(), newCheckCmd())
	return root
}

type replayFlags struct {
	engine  string
	history int
	verbose bool
}

func (f *replayFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.engine, "engine", "", "expression engine: expr, cel or js (defaults to the scenario's engine)")
	cmd.Flags().IntVar(&f.history, "history", 0, "override the scenario's history length (zero disables undo)")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "log rule evaluations to stderr")
}

func (f *replayFlags) options(cmd *cobra.Command) ReplayOptions {
	opts := ReplayOptions{
		Engine: f.engine,
		Logger: newLogger(cmd.ErrOrStderr(), f.verbose),
	}
	if cmd.Flags().Changed("history") {
		history := f.history
		opts.HistoryLength = &history
	}
	return opts
}

func newRunCmd() *cobra.Command {
	flags := &replayFlags{}
	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Replay a scenario and print the final form state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, err := LoadScenario(args[0])
			if err != nil {
				return err
			}
			report, err := Replay(scenario, flags.options(cmd))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}
	flags.register(cmd)
	return cmd
}

func newCheckCmd() *cobra.Command {
	flags := &replayFlags{}
	cmd := &cobra.Command{
		Use:   "check <scenario.yaml>",
		Short: "Compile every rule of a scenario without replaying it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, err := LoadScenario(args[0])
			if err != nil {
				return err
			}
			fieldRules, contextRules, err := Check(scenario, flags.options(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d field rules, %d context rules, %d steps\n",
				fieldRules, contextRules, len(scenario.Steps))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
