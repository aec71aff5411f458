package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	multipart "github.com/DanielN/multipart-handler"
)

var (
	listCmd = &cobra.Command{
		Use:   "list [file]",
		Short: "List the parts of a multipart stream with their headers and sizes",
		Args:  cobra.MaximumNArgs(1),
		Run:   RunList,
	}

	listContentType string
	listDecode      bool
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listContentType, "content-type", "t", "", "content type of the stream, including the boundary parameter")
	listCmd.Flags().BoolVarP(&listDecode, "decode", "d", false, "decode RFC 2047 encoded words in header values for display")
	_ = listCmd.MarkFlagRequired("content-type")
}

func RunList(_ *cobra.Command, args []string) {
	in, err := openInput(args)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to open input: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = in.Close() }()

	r, err := multipart.NewReader(in, listContentType)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to read stream: %v\n", err)
		os.Exit(1)
	}

	for i := 0; ; i++ {
		p, err := r.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Failed to read part %d: %v\n", i, err)
			os.Exit(1)
		}

		hdr, err := p.Header()
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Failed to read part %d headers: %v\n", i, err)
			os.Exit(1)
		}

		size, err := io.Copy(io.Discard, p)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Failed to read part %d body: %v\n", i, err)
			os.Exit(1)
		}

		fmt.Printf("part %d (%d bytes)\n", i, size)
		for _, name := range hdr.Names() {
			value, err := hdr.Get(name)
			if listDecode {
				if decoded, derr := hdr.GetDecoded(name); derr == nil {
					value = decoded
				}
			}
			if err == nil {
				fmt.Printf("  %s: %s\n", name, value)
			}
		}
	}
}
