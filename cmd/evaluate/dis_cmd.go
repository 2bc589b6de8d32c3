package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/prosuite/evaluation"
	"github.com/prosuite/evaluation/dis"
)

func (a *app) newDisCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dis EXPR",
		Short: "Disassemble the compiled form of an expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := a.logger(cmd.ErrOrStderr())
			e, err := evaluation.Create(args[0], a.evaluationOptions(logger)...)
			if err != nil {
				return err
			}
			instructions, err := e.Disassemble()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.v.GetBool("no-color") || noColor(out) {
				return dis.Dump(instructions, out)
			}
			color.NoColor = false
			dis.Print(instructions, out)
			return nil
		},
	}
}
