package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mptool",
	Short: "Inspect, unpack and build MIME multipart streams",
}

func Execute() error {
	return rootCmd.Execute()
}

// openInput returns the file named by args, or stdin when no file is
// given. Commands taking a stream accept at most one positional argument.
func openInput(args []string) (io.ReadCloser, error) {
	if len(args) == 0 {
		return os.Stdin, nil
	}
	return os.Open(args[0])
}
