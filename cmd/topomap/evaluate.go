package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/topomap/matrix"
	"github.com/katalvlaran/topomap/placement"
)

func newEvaluateCmd(a *app) *cobra.Command {
	var (
		problemPath string
		directive   string
		groupSize   int
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Report the cost of an existing directive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			prob, err := readProblem(problemPath)
			if err != nil {
				return err
			}
			_, perm, err := placement.ParseDirective(directive)
			if err != nil {
				return err
			}
			p, err := a.planner()
			if err != nil {
				return err
			}
			ev, err := p.Evaluate(prob, perm)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "total_cost: %g\n", ev.Cost)
			fmt.Fprintf(out, "off_node_volume: %g\n", ev.OffNode)
			if groupSize > 0 {
				reordered, err := matrix.Reorder(prob.Comm, perm)
				if err != nil {
					return err
				}
				block, err := matrix.OffNodeVolume(reordered, groupSize)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "block_off_node_volume: %g\n", block)
			}

			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&problemPath, "problem", "p", "", "YAML problem file")
	fs.StringVarP(&directive, "directive", "d", "", "directive to evaluate, KEY=0.s0,1.s1,...")
	fs.IntVar(&groupSize, "group-size", 0, "also report off-block volume for contiguous slot groups of this size")
	_ = cmd.MarkFlagRequired("problem")
	_ = cmd.MarkFlagRequired("directive")

	return cmd
}
