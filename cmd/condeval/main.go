// Condeval evaluates package conditions against target configurations.
//
// Usage:
//
//	# Evaluate every condition and check against every target in the file
//	condeval eval -f conditions.yaml
//
//	# Evaluate selected conditions against ad hoc attributes, with a trace
//	condeval eval -f conditions.yaml --attr Dname=STM32F407VG --attr Tcompiler=GCC --trace CM4_GCC
//
//	# Show the reference tree of a condition
//	condeval tree -f conditions.yaml CM4_GCC
//
//	# Check for dangling references, unknown domains and cycles
//	condeval validate -f conditions.yaml
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
