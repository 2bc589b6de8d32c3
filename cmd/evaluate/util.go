package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/prosuite/evaluation"
	"github.com/prosuite/evaluation/env"
)

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func noColor(w io.Writer) bool {
	return os.Getenv("NO_COLOR") != "" || !isTerminal(w)
}

func (a *app) logger(w io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if a.v.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	console := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    a.v.GetBool("no-color") || noColor(w),
		TimeFormat: time.TimeOnly,
	}
	return zerolog.New(console).Level(level).With().Timestamp().Logger()
}

func (a *app) evaluationOptions(logger zerolog.Logger) []evaluation.Option {
	opts := []evaluation.Option{evaluation.WithLogger(logger)}
	if a.v.GetBool("case-sensitive") {
		opts = append(opts, evaluation.WithCaseSensitive())
	}
	return opts
}

func (a *app) environment(logger zerolog.Logger) *env.Standard {
	opts := []env.StandardOption{env.WithLogger(logger)}
	if a.v.GetBool("case-sensitive") {
		opts = append(opts, env.WithCaseSensitive())
	}
	return env.NewStandard(opts...)
}

// defineAll binds each "name=value" assignment in environment. The value
// is evaluated as an expression without bindings; if that fails it is
// taken as a plain string, so that both --set n=42 and --set s=abc work.
func defineAll(environment *env.Standard, assignments []string) error {
	for _, assignment := range assignments {
		name, text, ok := strings.Cut(assignment, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return fmt.Errorf("invalid assignment %q, expected name=value", assignment)
		}
		value, err := evaluation.Eval(text, nil)
		if err != nil {
			environment.DefineValue(name, text)
			continue
		}
		environment.DefineValue(name, value)
	}
	return nil
}

func writeJSON(w io.Writer, value any, plain bool) error {
	var data []byte
	var err error
	if plain || !isTerminal(w) {
		data, err = json.MarshalIndent(value, "", "  ")
	} else {
		data, err = prettyjson.Marshal(value)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func checkOutputFormat(format string) error {
	switch format {
	case "text", "json":
		return nil
	}
	return errors.New("output format must be text or json")
}
