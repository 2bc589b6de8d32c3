package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/prosuite/evaluation/errz"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var red = color.New(color.FgRed).SprintFunc()

// app holds the configuration shared by all commands. Every command tree
// gets its own viper instance so that commands can be built and run
// repeatedly, e.g. in tests.
type app struct {
	v *viper.Viper
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	a.v.SetEnvPrefix("EVALUATE")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "evaluate",
		Short:         "Compile and evaluate expressions",
		Version:       fmt.Sprintf("%s (%s, %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			return a.readConfig()
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Config file (yaml, json or toml)")
	flags.BoolP("verbose", "v", false, "Enable debug logging")
	flags.Bool("no-color", false, "Disable colored output")
	flags.Bool("case-sensitive", false, "Match keywords and names case sensitively")

	root.AddCommand(a.newEvalCmd(), a.newDisCmd(), a.newApplyCmd())
	return root
}

func (a *app) readConfig() error {
	path := a.v.GetString("config")
	if path == "" {
		return nil
	}
	a.v.SetConfigFile(path)
	if err := a.v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		if noColor(os.Stderr) {
			color.NoColor = true
		}
		msg := err.Error()
		var syntaxErr *errz.SyntaxError
		if errors.As(err, &syntaxErr) {
			msg = strings.TrimRight(syntaxErr.FriendlyErrorMessage(), "\n")
		}
		fmt.Fprintf(os.Stderr, "%s\n", red(msg))
		os.Exit(1)
	}
}
