package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	multipart "github.com/DanielN/multipart-handler"
)

var (
	extractCmd = &cobra.Command{
		Use:   "extract [file]",
		Short: "Write the body of one part of a multipart stream to a file or stdout",
		Args:  cobra.MaximumNArgs(1),
		Run:   RunExtract,
	}

	extractContentType string
	extractIndex       int
	extractOutput      string
)

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractContentType, "content-type", "t", "", "content type of the stream, including the boundary parameter")
	extractCmd.Flags().IntVarP(&extractIndex, "part", "n", 0, "zero-based index of the part to extract")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "file to write the part body to instead of stdout")
	_ = extractCmd.MarkFlagRequired("content-type")
}

func RunExtract(_ *cobra.Command, args []string) {
	in, err := openInput(args)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to open input: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = in.Close() }()

	r, err := multipart.NewReader(in, extractContentType)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to read stream: %v\n", err)
		os.Exit(1)
	}

	var part *multipart.Part
	for i := 0; i <= extractIndex; i++ {
		part, err = r.NextPart()
		if err == io.EOF {
			_, _ = fmt.Fprintf(os.Stderr, "Stream has no part %d\n", extractIndex)
			os.Exit(1)
		}
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Failed to read part %d: %v\n", i, err)
			os.Exit(1)
		}
	}

	out := io.WriteCloser(os.Stdout)
	if extractOutput != "" {
		out, err = os.Create(extractOutput)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Failed to create output file: %v\n", err)
			os.Exit(1)
		}
	}

	if _, err := io.Copy(out, part); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to write part body: %v\n", err)
		os.Exit(1)
	}
	if extractOutput != "" {
		if err := out.Close(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Failed to close output file: %v\n", err)
			os.Exit(1)
		}
	}
}
