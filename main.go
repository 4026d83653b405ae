// main is the entry point for the mindscore CLI.
package main

import (
	"github.com/huangsam/mindscore/cmd"
	"github.com/huangsam/mindscore/internal/contract"
	"github.com/huangsam/mindscore/internal/iocache"
)

func main() {
	defer iocache.CloseStore()

	if err := cmd.Execute(); err != nil {
		iocache.CloseStore()
		contract.LogFatal("Command failed", err)
	}
}
