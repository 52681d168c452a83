package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/topomap/matrix"
	"github.com/katalvlaran/topomap/placement"
)

// problemFile is the on-disk problem description. The communication volumes
// come either as a full matrix or as a list of transfers accumulated into an
// N×N matrix, N = len(slots).
type problemFile struct {
	Slots     []string    `yaml:"slots"`
	Matrix    [][]float64 `yaml:"matrix"`
	Transfers []transfer  `yaml:"transfers"`
	// Symmetrize adds every volume to its reverse direction, for traces that
	// only record the sending side.
	Symmetrize bool `yaml:"symmetrize"`
}

type transfer struct {
	From  int     `yaml:"from"`
	To    int     `yaml:"to"`
	Bytes float64 `yaml:"bytes"`
}

func readProblem(path string) (placement.Problem, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return placement.Problem{}, fmt.Errorf("problem: %w", err)
	}

	var pf problemFile
	if err = yaml.Unmarshal(raw, &pf); err != nil {
		return placement.Problem{}, fmt.Errorf("problem %s: %w", path, err)
	}
	if len(pf.Matrix) > 0 && len(pf.Transfers) > 0 {
		return placement.Problem{}, fmt.Errorf("problem %s: both matrix and transfers given", path)
	}

	var comm *matrix.Dense
	if len(pf.Transfers) > 0 {
		if comm, err = matrix.NewSquare(len(pf.Slots)); err != nil {
			return placement.Problem{}, err
		}
		for i, tr := range pf.Transfers {
			if err = matrix.AddTransfer(comm, tr.From, tr.To, tr.Bytes); err != nil {
				return placement.Problem{}, fmt.Errorf("problem %s: transfer %d: %w", path, i, err)
			}
		}
	} else if comm, err = matrix.NewFromRows(pf.Matrix); err != nil {
		return placement.Problem{}, fmt.Errorf("problem %s: %w", path, err)
	}

	if pf.Symmetrize {
		if comm, err = matrix.Symmetrize(comm); err != nil {
			return placement.Problem{}, fmt.Errorf("problem %s: %w", path, err)
		}
	}

	return placement.Problem{Comm: comm, Slots: pf.Slots}, nil
}
