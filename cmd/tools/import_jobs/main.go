package main

import (
	"os"

	"job-listings/cmd/tools/import_jobs/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
