// ABOUTME: The studies subcommand: list studies matching a search term
// ABOUTME: Prints one aligned row per study to stdout
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
)

func runStudies(args []string) int {
	fs := flag.NewFlagSet("studies", flag.ExitOnError)
	search := fs.String("search", "", "Only studies whose name matches this term")
	verbose := fs.Bool("verbose", false, "Debug logging")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: cerebra-dl studies [options]

List the studies the account can access.

Options:`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	ctx, cancel := signalContext()
	defer cancel()

	client, log, code := setup(*verbose)
	if code != ExitSuccess {
		return code
	}
	defer log.Sync()

	if err := client.Connect(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitAuthError
	}

	studies, err := client.Studies(ctx, *search, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPATIENT")
	for _, s := range studies {
		patient := ""
		if s.Patient != nil && s.Patient.User != nil {
			patient = s.Patient.User.FullName
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID, s.Name, patient)
	}
	w.Flush()
	return ExitSuccess
}
