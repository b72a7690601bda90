package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kdlpull/kdlpull/pkgs/kdltester"
)

var log = logrus.New()

func main() {
	var (
		mode    string
		noColor bool
		verbose bool
	)

	rootCmd := &cobra.Command{
		Use:           "kdltester <file.kdl>",
		Short:         "Conformance harness for the kdlpull parser",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
			return run(args[0], mode, !noColor)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&mode, "mode", "m", "emit", "one of emit, check, compare")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log each step of the run")

	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, colorize(err.Error(), colorRed, shouldUseColor(noColor)))
		os.Exit(1)
	}
}

func run(file, mode string, useColor bool) error {
	log.WithFields(logrus.Fields{"file": file, "mode": mode}).Debug("starting run")

	source, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}
	fixturePath := fixturePathFor(file)

	switch mode {
	case "emit":
		log.Debug("parsing source and serializing event stream")
		out, err := kdltester.Emit(string(source))
		if err != nil {
			return fmt.Errorf("emit: %w", err)
		}
		if err := os.WriteFile(fixturePath, out, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", fixturePath, err)
		}
		fmt.Println(colorize(fmt.Sprintf("wrote %s", fixturePath), colorGreen, useColor))
		return nil

	case "check":
		fixture, err := os.ReadFile(fixturePath)
		if err != nil {
			return fmt.Errorf("reading fixture %s: %w", fixturePath, err)
		}
		log.Debug("slicing recorded spans against source")
		if err := kdltester.Check(string(source), fixture); err != nil {
			fmt.Println(colorize(kdltester.Report(false, err.Error()), colorRed, useColor))
			return err
		}
		fmt.Println(colorize(kdltester.Report(true, ""), colorGreen, useColor))
		return nil

	case "compare":
		fixture, err := os.ReadFile(fixturePath)
		if err != nil {
			return fmt.Errorf("reading fixture %s: %w", fixturePath, err)
		}
		log.Debug("re-parsing and diffing against recorded event stream")
		if err := kdltester.Compare(string(source), fixture); err != nil {
			fmt.Println(colorize(kdltester.Report(false, err.Error()), colorRed, useColor))
			return err
		}
		fmt.Println(colorize(kdltester.Report(true, ""), colorGreen, useColor))
		return nil

	default:
		return fmt.Errorf("unrecognized mode %q (want emit, check, or compare)", mode)
	}
}

// fixturePathFor swaps file's extension for .json, matching the reference
// tester's filename.with_extension("json") convention.
func fixturePathFor(file string) string {
	ext := filepath.Ext(file)
	return strings.TrimSuffix(file, ext) + ".json"
}
