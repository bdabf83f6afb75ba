package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mocap-data/calibration.report/internal/version"
)

func main() {
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	command := flag.Arg(0)
	args := flag.Args()[1:]

	switch command {
	case "run":
		handleRun(args)
	case "merge":
		handleMerge(args)
	case "report":
		handleReport(args)
	case "history":
		handleHistory(args)
	case "runs":
		handleRuns(args)
	case "version":
		fmt.Printf("calibration-report %s\n", version.String())
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`calibration-report - regression diagnostics for motion-capture calibration

Usage: calibration-report <command> [options]

Commands:
  run        Compute board statistics for one triangulated recording and
             deposit the per-run row and artifacts
  merge      Fold the collected per-platform rows into the historical dataset
  report     Render the HTML report, PNG trend plot and summary table
  history    Print the merged history, version ordered per OS
  runs       List recorded diagnostic executions from the run database
  version    Show build information
  help       Show this help message

Common Flags:
  -config <file>    TOML configuration file (defaults are used when omitted)

Run 'calibration-report <command> -h' for command flags.`)
}
