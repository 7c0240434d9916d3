// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplayResult], [DisplayQuietResult], [DisplayProgress].
//
//   - Format* functions return a formatted string without performing I/O.
//     They are pure functions suitable for composition.
//     Examples: [FormatQuietResult].
//
//   - Write* functions write data to files on the filesystem.
//     They handle file creation, directory setup, and error handling.
//     Examples: [WriteResultToFile].

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/lazyreg/internal/format"
	"github.com/agbru/lazyreg/internal/stress"
	"github.com/agbru/lazyreg/internal/ui"
	"github.com/agbru/lazyreg/metrics"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the result (empty for no file output).
	OutputFile string
	// Quiet mode suppresses verbose output.
	Quiet bool
	// Verbose shows runtime statistics alongside the result.
	Verbose bool
}

// FormatQuietResult formats a result as a single machine-readable line
// suitable for scripting.
//
// Parameters:
//   - result: The completed stress run result.
//
// Returns:
//   - string: The formatted result line.
func FormatQuietResult(result stress.Result) string {
	return fmt.Sprintf("gets=%d constructions=%d failures=%d violations=%d elapsed=%s",
		result.Gets, result.Constructions, result.Failures, result.Violations,
		result.Elapsed)
}

// DisplayQuietResult outputs a result in quiet mode (minimal output).
//
// Parameters:
//   - out: The output writer.
//   - result: The completed stress run result.
func DisplayQuietResult(out io.Writer, result stress.Result) {
	fmt.Fprintln(out, FormatQuietResult(result))
}

// DisplayResult displays a colorized stress run report.
//
// Parameters:
//   - out: The output writer.
//   - result: The completed stress run result.
//   - verbose: If true, runtime statistics are appended.
func DisplayResult(out io.Writer, result stress.Result, verbose bool) {
	fmt.Fprintf(out, "\n%s--- Stress Run Summary ---%s\n", ui.ColorBold(), ui.ColorReset())

	fmt.Fprintf(out, "  Get calls:       %s%s%s\n",
		ui.ColorPrimary(), format.FormatCount(result.Gets), ui.ColorReset())
	fmt.Fprintf(out, "  Constructions:   %s%s%s (expected %s)\n",
		ui.ColorPrimary(), format.FormatCount(result.Constructions), ui.ColorReset(),
		format.FormatCount(result.ExpectedConstructions))
	fmt.Fprintf(out, "  Retried failures: %s%s%s\n",
		ui.ColorWarning(), format.FormatCount(result.Failures), ui.ColorReset())
	fmt.Fprintf(out, "  Duration:        %s%s%s\n",
		ui.ColorInfo(), format.FormatExecutionDuration(result.Elapsed), ui.ColorReset())
	fmt.Fprintf(out, "  Throughput:      %s%s%s\n",
		ui.ColorInfo(), format.FormatRate(result.Throughput()), ui.ColorReset())

	if result.Violations == 0 && result.Constructions <= result.ExpectedConstructions {
		fmt.Fprintf(out, "  Invariants:      %s✅ held%s\n",
			ui.ColorSuccess(), ui.ColorReset())
	} else {
		fmt.Fprintf(out, "  Invariants:      %s❌ violated (%d identity, %d constructions)%s\n",
			ui.ColorError(), result.Violations, result.Constructions, ui.ColorReset())
	}

	if verbose {
		DisplayRuntimeStats(out, result.Runtime)
	}
}

// DisplayRuntimeStats shows process runtime statistics after a run.
func DisplayRuntimeStats(out io.Writer, rt metrics.RuntimeSnapshot) {
	fmt.Fprintf(out, "\nRuntime Stats:\n")
	fmt.Fprintf(out, "  Heap in use:     %s\n", format.FormatBytes(rt.HeapAlloc))
	fmt.Fprintf(out, "  OS memory:       %s\n", format.FormatBytes(rt.Sys))
	fmt.Fprintf(out, "  GC cycles:       %d\n", rt.NumGC)
	fmt.Fprintf(out, "  Goroutines:      %d\n", rt.Goroutines)
}

// DisplayResultWithConfig displays a result with the given output
// configuration. This is a unified function that handles all output modes.
//
// Parameters:
//   - out: The output writer.
//   - result: The completed stress run result.
//   - config: Output configuration.
//
// Returns:
//   - error: An error if file output fails.
func DisplayResultWithConfig(out io.Writer, result stress.Result, config OutputConfig) error {
	if config.Quiet {
		DisplayQuietResult(out, result)
	} else {
		DisplayResult(out, result, config.Verbose)
	}

	// Save to file if requested
	if config.OutputFile != "" {
		if err := WriteResultToFile(result, config); err != nil {
			return err
		}
		if !config.Quiet {
			fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
				ui.ColorSuccess(), ui.ColorPrimary(), config.OutputFile, ui.ColorReset())
		}
	}

	return nil
}

// WriteResultToFile writes a stress run result to a file.
//
// Parameters:
//   - result: The completed stress run result.
//   - config: Output configuration.
//
// Returns:
//   - error: An error if the file cannot be written.
func WriteResultToFile(result stress.Result, config OutputConfig) error {
	if config.OutputFile == "" {
		return nil
	}

	// Ensure directory exists
	dir := filepath.Dir(config.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(config.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	// Write header
	fmt.Fprintf(file, "# Lazy Registry Stress Result\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Duration: %s\n", result.Elapsed)
	fmt.Fprintf(file, "\n")

	// Write result
	fmt.Fprintln(file, FormatQuietResult(result))

	return nil
}
