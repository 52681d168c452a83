// Command topomap computes topology-aware process placements.
//
//	topomap solve --problem job.yaml
//	REORDERING=0.12,1.13,2.4,...
//
//	topomap evaluate --problem job.yaml --directive "REORDERING=0.12,..."
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
