package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/opencontainers/go-digest"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/pngraw/pngraw/pngraw"
	"github.com/pngraw/pngraw/pngraw/logger"
)

var (
	verbose    bool
	debug      bool
	noProgress bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pngraw",
		Short: "A CLI tool for inspecting the chunk structure of PNG files",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				logger.SetLogLevel(logger.LogLevelDebug)
			} else if verbose {
				logger.SetLogLevel(logger.LogLevelInfo)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug output")

	// info command
	infoCmd := &cobra.Command{
		Use:   "info <FILE>",
		Short: "Print the image header and inflated stream digest",
		Args:  cobra.ExactArgs(1),
		Run:   runInfo,
	}

	// chunks command
	chunksCmd := &cobra.Command{
		Use:   "chunks <FILE>",
		Short: "List all chunks in the container",
		Args:  cobra.ExactArgs(1),
		Run:   runChunks,
	}

	// raw command
	rawCmd := &cobra.Command{
		Use:   "raw <FILE> [OUTPUT]",
		Short: "Write the inflated scanline stream to a file (default FILE.raw)",
		Args:  cobra.RangeArgs(1, 2),
		Run:   runRaw,
	}
	rawCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable progress bar (progress is enabled by default)")

	rootCmd.AddCommand(infoCmd, chunksCmd, rawCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func readInput(path string) []byte {
	buf, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
		os.Exit(1)
	}
	return buf
}

func runInfo(cmd *cobra.Command, args []string) {
	buf := readInput(args[0])

	img, err := pngraw.Decode(buf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	hdr := img.Header
	fmt.Printf("%s:\n", args[0])
	fmt.Printf("  dimensions:  %dx%d\n", hdr.Width, hdr.Height)
	fmt.Printf("  bit depth:   %d\n", hdr.BitDepth)
	fmt.Printf("  color type:  %s\n", hdr.ColorType)
	fmt.Printf("  interlaced:  %v\n", hdr.Interlaced())
	fmt.Printf("  raw stream:  %d bytes (%s)\n", len(img.Data), digest.FromBytes(img.Data))
}

func runChunks(cmd *cobra.Command, args []string) {
	buf := readInput(args[0])

	chunks, err := pngraw.ParseContainer(buf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Chunks in %s:\n", args[0])
	for i, c := range chunks {
		kind := "critical"
		if c.Type.Ancillary() {
			kind = "ancillary"
		}
		fmt.Printf("%d: %s (%d bytes, crc 0x%08x, %s)\n", i, c.Type, c.Length, c.Crc32, kind)
	}
}

func runRaw(cmd *cobra.Command, args []string) {
	buf := readInput(args[0])

	outputPath := args[0] + ".raw"
	if len(args) > 1 {
		outputPath = args[1]
	}

	chunks, err := pngraw.ParseContainer(buf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	hdr, err := pngraw.ParseHeader(chunks[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing header: %v\n", err)
		os.Exit(1)
	}

	data, err := pngraw.AssembleAndInflate(chunks, &hdr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error inflating image data: %v\n", err)
		os.Exit(1)
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", outputPath, err)
		os.Exit(1)
	}
	defer outFile.Close()

	var dst io.Writer = outFile
	if !noProgress {
		bar := progressbar.DefaultBytes(int64(len(data)), fmt.Sprintf("Writing %s", outputPath))
		dst = io.MultiWriter(outFile, bar)
	}

	if _, err := io.Copy(dst, bytes.NewReader(data)); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outputPath, err)
		os.Exit(1)
	}

	if !noProgress {
		fmt.Println()
	}
	fmt.Printf("Wrote %d raw bytes to %s (%s)\n", len(data), outputPath, digest.FromBytes(data))
}
