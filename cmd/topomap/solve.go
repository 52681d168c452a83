package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSolveCmd(a *app) *cobra.Command {
	var problemPath string

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Compute a placement and print its directive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			prob, err := readProblem(problemPath)
			if err != nil {
				return err
			}
			p, err := a.planner()
			if err != nil {
				return err
			}
			plan, err := p.Plan(prob)
			if err != nil {
				return err
			}

			if plan.Degraded {
				fmt.Fprintf(cmd.ErrOrStderr(), "degraded: %s\n", plan.Reason)
			}
			fmt.Fprintln(cmd.OutOrStdout(), plan.Directive)

			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&problemPath, "problem", "p", "", "YAML problem file (slots + matrix or transfers)")
	fs.String("solver", "", "solver: qap or treematch")
	fs.String("key", "", "directive key")
	fs.Bool("fallback", true, "re-plan with qap when treematch finds no grouping")
	_ = cmd.MarkFlagRequired("problem")

	return cmd
}
