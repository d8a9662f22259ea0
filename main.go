package main

import (
	"os"

	"github.com/BerniceZTT/airlab_end/cmd"
)

func main() {
	os.Exit(cmd.ExitCode(cmd.Execute()))
}
