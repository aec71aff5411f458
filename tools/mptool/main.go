package main

import (
	"github.com/spf13/cobra"

	"github.com/DanielN/multipart-handler/tools/mptool/cmd"
)

func main() {
	err := cmd.Execute()
	cobra.CheckErr(err)
}
