// SPDX-License-Identifier: MIT
// Command lvsparse inspects, converts, generates and stores sparse tensors
// kept in Matrix Market (.mtx) or extended FROSTT (.tns) files.
//
// Configuration comes from an optional TOML file (--config) whose keys are
// levels, value, pointer, index, db, log_level and seed; flags override it.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "lvsparse:", err)
		os.Exit(1)
	}
}
