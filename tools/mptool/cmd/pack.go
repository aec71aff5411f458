package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	multipart "github.com/DanielN/multipart-handler"
	"github.com/DanielN/multipart-handler/header"
)

var (
	packCmd = &cobra.Command{
		Use:   "pack <file>...",
		Short: "Build a multipart stream from files",
		Long: "Build a multipart stream with one part per file, each carrying " +
			"Content-Type, Content-Length and the file name. The stream's " +
			"content type and exact length are reported on stderr.",
		Args: cobra.MinimumNArgs(1),
		Run:  RunPack,
	}

	packSubtype string
	packOutput  string
)

func init() {
	rootCmd.AddCommand(packCmd)

	packCmd.Flags().StringVarP(&packSubtype, "subtype", "s", multipart.DefaultSubtype, "multipart subtype of the stream")
	packCmd.Flags().StringVarP(&packOutput, "output", "o", "", "file to write the stream to instead of stdout")
}

func RunPack(_ *cobra.Command, args []string) {
	parts := make([]multipart.StreamPart, 0, len(args))
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Failed to open %s: %v\n", path, err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		name := filepath.Base(path)
		part, err := multipart.FilePart(name, name, f)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Failed to add %s: %v\n", path, err)
			os.Exit(1)
		}
		part.Header.Set(header.ContentLength, strconv.FormatInt(part.Size, 10))
		parts = append(parts, part)
	}

	s, err := multipart.NewStream(packSubtype, parts)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to compose stream: %v\n", err)
		os.Exit(1)
	}

	out := io.Writer(os.Stdout)
	if packOutput != "" {
		f, err := os.Create(packOutput)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Failed to create output file: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	if _, err := io.Copy(out, s); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to write stream: %v\n", err)
		os.Exit(1)
	}

	_, _ = fmt.Fprintf(os.Stderr, "Content-Type: %s\n", s.ContentType())
	_, _ = fmt.Fprintf(os.Stderr, "Content-Length: %d\n", s.ContentLength())
}
