package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prosuite/evaluation"
	"github.com/prosuite/evaluation/object"
	"github.com/prosuite/evaluation/vm"
)

func (a *app) newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "eval EXPR",
		Aliases: []string{"e"},
		Short:   "Evaluate an expression",
		Example: `  evaluate eval "1 + 2 * 3"
  evaluate eval --set x=4 --set name=road "UCASE(name) + ':' + x"`,
		Args: cobra.ExactArgs(1),
		RunE: a.runEval,
	}
	cmd.Flags().StringArray("set", nil, "Define a value as name=value (repeatable)")
	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
	cmd.Flags().Bool("trace", false, "Log every executed instruction")
	return cmd
}

func (a *app) runEval(cmd *cobra.Command, args []string) error {
	format := a.v.GetString("output")
	if err := checkOutputFormat(format); err != nil {
		return err
	}
	logger := a.logger(cmd.ErrOrStderr())

	opts := a.evaluationOptions(logger)
	if a.v.GetBool("trace") {
		opts = append(opts, evaluation.WithObserver(vm.ObserverFunc(func(event vm.StepEvent) bool {
			logger.Info().
				Str("address", fmt.Sprintf("%04X", event.Address)).
				Stringer("op", event.Opcode).
				Int("depth", event.StackDepth).
				Str("top", object.FormatLiteral(event.Top)).
				Msg("step")
			return true
		})))
	}

	e, err := evaluation.Create(args[0], opts...)
	if err != nil {
		return err
	}

	environment := a.environment(logger)
	assignments, err := cmd.Flags().GetStringArray("set")
	if err != nil {
		return err
	}
	if err := defineAll(environment, assignments); err != nil {
		return err
	}

	result, err := e.Evaluate(environment, nil)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		return writeJSON(out, map[string]any{
			"clause": e.Clause(),
			"type":   result.Type(),
			"value":  result.Interface(),
		}, a.v.GetBool("no-color"))
	}
	_, err = fmt.Fprintln(out, object.FormatLiteral(result))
	return err
}
