// ABOUTME: Entry point for the cerebra-dl command line tool
// ABOUTME: Dispatches to the studies, download and labels subcommands
package main

import (
	"fmt"
	"os"
)

// Exit codes
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitInvalidArgs  = 2
	ExitAuthError    = 3
	ExitExportError  = 4
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return ExitInvalidArgs
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "studies":
		return runStudies(cmdArgs)
	case "download":
		return runDownload(cmdArgs)
	case "labels":
		return runLabels(cmdArgs)
	case "help", "-h", "--help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		return ExitInvalidArgs
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: cerebra-dl <command> [options]

Commands:
  studies   List studies the account can access
  download  Download channel data for studies into CSV or EDF files
  labels    Dump one label group as CSV

Credentials come from the environment (a .env file is read if present):
  CEREBRA_EMAIL, CEREBRA_PASSWORD   account login
  CEREBRA_API_KEY                   bearer token, wins when set
  CEREBRA_API_URL                   platform URL override
  CEREBRA_PARTY_ID                  act on behalf of another party

Run 'cerebra-dl <command> -h' for command-specific help.`)
}
