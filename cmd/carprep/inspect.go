package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ezoic/carprep/transformation"
)

func newInspectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [artifact]",
		Short: "Print the learned fill values and categories of a preprocessor",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load(cmd, map[string]string{})
			if err != nil {
				return err
			}
			path := cfg.ArtifactPath
			if len(args) == 1 {
				path = args[0]
			}
			return runInspect(cmd.OutOrStdout(), path)
		},
	}
	return cmd
}

func runInspect(w io.Writer, path string) error {
	pre, err := transformation.LoadPreprocessor(path)
	if err != nil {
		return err
	}
	state, err := pre.ExportState()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "artifact: %s\n", path)
	fmt.Fprintf(w, "target %s: %s\n", transformation.TargetColumn, strings.Join(state.Target.Classes, " "))
	for _, spec := range state.Features.Transformers {
		fmt.Fprintf(w, "%s:\n", spec.Name)

		fills := make([]string, len(spec.Columns))
		for _, step := range spec.Steps {
			if step.Imputer != nil {
				copy(fills, step.Imputer.Statistics)
			}
		}
		for k, column := range spec.Columns {
			fmt.Fprintf(w, "  %s: fill=%s categories=[%s]\n",
				column, fills[k], strings.Join(spec.Encoder.Categories[k], " "))
		}
	}
	fmt.Fprintf(w, "outputs: %d\n", pre.Features.NOutputs)
	return nil
}
