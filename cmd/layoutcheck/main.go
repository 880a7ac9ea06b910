package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/compare"
	layouterrors "github.com/superelastic/nextjs-figma-playwright-wsl-template/pkg/errors"
)

// mismatchError signals a completed comparison whose layouts differ. The
// report has already been printed when it is returned.
type mismatchError struct {
	result *compare.Result
}

func (e *mismatchError) Error() string {
	return fmt.Sprintf("layout mismatch (expected %s, got %s)",
		e.result.Details.Pattern.Expected, e.result.Details.Pattern.Actual)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	return exitCode(root.Execute(), stderr)
}

// exitCode maps a command error to the process exit status and prints the
// fatal banner for anything other than a mismatch.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return compare.ExitMatch
	}

	var mismatch *mismatchError
	if errors.As(err, &mismatch) {
		return compare.ExitMismatch
	}

	fmt.Fprintf(stderr, "❌ layoutcheck: %v\n", err)

	var (
		sourceErr     *layouterrors.SourceError
		renderErr     *layouterrors.RenderError
		validationErr *layouterrors.ValidationError
	)
	switch {
	case errors.As(err, &sourceErr):
		fmt.Fprintln(stderr, "   Run `layoutcheck extract` to refresh the design cache, or drop --strict to use the fixture.")
	case errors.As(err, &renderErr):
		if renderErr.Op == "launch" {
			fmt.Fprintln(stderr, "   Chromium could not be started; check that a browser can be downloaded or is installed.")
		} else {
			fmt.Fprintf(stderr, "   Is the app running at %s?\n", renderErr.URL)
		}
	case errors.As(err, &validationErr):
		fmt.Fprintln(stderr, "   Fix the configuration value above and retry.")
	}

	return compare.ExitFatal
}
