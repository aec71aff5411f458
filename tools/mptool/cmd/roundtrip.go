package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	multipart "github.com/DanielN/multipart-handler"
)

var (
	roundtripCmd = &cobra.Command{
		Use:   "roundtrip [file]",
		Short: "Decode and re-encode a multipart stream and diff the results",
		Long: "Decode a multipart stream, re-encode it with the same subtype and " +
			"boundary, and print a diff of the original against the re-encoded " +
			"bytes. Canonical streams (CRLF line endings, sorted header fields, " +
			"no preamble or epilogue) round-trip byte identically; for others " +
			"the diff shows what re-encoding normalizes. Exits nonzero when the " +
			"two differ.",
		Args: cobra.MaximumNArgs(1),
		Run:  RunRoundtrip,
	}

	roundtripContentType string
)

func init() {
	rootCmd.AddCommand(roundtripCmd)

	roundtripCmd.Flags().StringVarP(&roundtripContentType, "content-type", "t", "", "content type of the stream, including the boundary parameter")
	_ = roundtripCmd.MarkFlagRequired("content-type")
}

func RunRoundtrip(_ *cobra.Command, args []string) {
	in, err := openInput(args)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to open input: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = in.Close() }()

	original, err := io.ReadAll(in)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to read input: %v\n", err)
		os.Exit(1)
	}

	r, err := multipart.NewReader(bytes.NewReader(original), roundtripContentType)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to read stream: %v\n", err)
		os.Exit(1)
	}

	var reencoded bytes.Buffer
	w, err := multipart.NewWriter(&reencoded,
		multipart.WithSubtype(r.Subtype()),
		multipart.WithBoundary(r.Boundary()))
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to create writer: %v\n", err)
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

		pw, err := w.CreatePart()
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Failed to start part %d: %v\n", i, err)
			os.Exit(1)
		}
		for _, name := range hdr.Names() {
			value, err := hdr.Get(name)
			if err != nil {
				continue
			}
			if err := pw.SetHeader(name, value); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "Failed to copy part %d headers: %v\n", i, err)
				os.Exit(1)
			}
		}
		// Commit explicitly so empty bodies keep their header blocks.
		if err := pw.Commit(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Failed to write part %d headers: %v\n", i, err)
			os.Exit(1)
		}
		if _, err := io.Copy(pw, p); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Failed to copy part %d body: %v\n", i, err)
			os.Exit(1)
		}
	}
	if err := w.Close(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to finish stream: %v\n", err)
		os.Exit(1)
	}

	if bytes.Equal(original, reencoded.Bytes()) {
		fmt.Println("Round trip is byte identical.")
		return
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(original), reencoded.String(), false)
	fmt.Print(dmp.DiffPrettyText(diffs))
	fmt.Println()
	os.Exit(1)
}
