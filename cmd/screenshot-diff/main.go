// Command screenshot-diff compares a capture against a baseline under a
// tolerance level.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/plus3/sampleviewer/screenshot"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("screenshot-diff", flag.ContinueOnError)
	fs.SetOutput(stderr)
	expected := fs.String("expected", "", "Baseline image.")
	actual := fs.String("actual", "", "Captured image.")
	levelName := fs.String("level", "Level G", "Tolerance level name.")
	tolerances := fs.String("tolerances", "", "YAML tolerance level file; empty uses the built-in levels.")
	diffOut := fs.String("diff-out", "", "Write a difference image here.")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *expected == "" || *actual == "" {
		fmt.Fprintln(stderr, "both -expected and -actual are required")
		return 2
	}

	levels := screenshot.DefaultToleranceLevels()
	if *tolerances != "" {
		var err error
		if levels, err = screenshot.LoadToleranceLevels(*tolerances); err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
	}

	level := screenshot.FindToleranceLevel(levels, *levelName)
	res, err := screenshot.Compare(*expected, *actual, level)
	fmt.Fprintf(stdout, "%s: %s\n", res.Code, res.Summary())
	if err != nil {
		fmt.Fprintln(stderr, err)
	}
	if res.Code == screenshot.Pass || res.Code == screenshot.ThresholdExceeded {
		fmt.Fprintf(stdout, "standard %f  filtered %f\n", res.StandardDiffScore, res.FilteredDiffScore)
		if best := screenshot.FindBestToleranceLevel(levels, res.FilteredDiffScore, true); best != nil {
			fmt.Fprintf(stdout, "strictest passing level: %s\n", best)
		}
	}

	if *diffOut != "" {
		if err := writeDiff(*expected, *actual, *diffOut); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}
	if !res.Passed() {
		return 1
	}
	return 0
}

func writeDiff(expectedPath, actualPath, out string) error {
	expected, err := screenshot.LoadImage(expectedPath)
	if err != nil {
		return err
	}
	actual, err := screenshot.LoadImage(actualPath)
	if err != nil {
		return err
	}
	return screenshot.WriteDiffImage(expected.RGBA, actual.RGBA, out)
}
