// Command cdpconform replays a scripted sequence of CDP request/response
// pairs against a running adapter and reports PASS/FAIL per case,
// reimplementing CdpTestClient's conformance checks against the Go
// adapter's wire surface.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	testCasesFile   string
	delayMs         int
	externalCommand string
	logFile         string
)

func main() {
	root := &cobra.Command{
		Use:   "cdpconform <discovery-url>",
		Short: "Replays a scripted CDP conformance test file against a running adapter.",
		Args:  cobra.ExactArgs(1),
		RunE:  runConform,
	}
	root.Flags().StringVarP(&testCasesFile, "test-cases", "t", "", "Scripted test-case file (required).")
	root.Flags().IntVarP(&delayMs, "delay", "d", 500, "Milliseconds to wait before connecting.")
	root.Flags().StringVarP(&externalCommand, "external-command", "e", "", "Process to spawn before connecting; its stdout/stderr is redirected to --logfile.")
	root.Flags().StringVarP(&logFile, "logfile", "l", "log.txt", "Log file for --external-command output.")
	root.MarkFlagRequired("test-cases")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runConform's error return maps to cobra's usage-error exit code 1. Test
// case failures are reported as PASS/FAIL lines on stdout but do not
// change the process exit code, matching the driver's "exit 0 on
// completion, 1 on usage error" contract.
func runConform(cmd *cobra.Command, args []string) error {
	driver, err := newDriver(args[0], testCasesFile, externalCommand, logFile, delayMs)
	if err != nil {
		return err
	}
	defer driver.Close()

	_, err = driver.Run()
	return err
}
