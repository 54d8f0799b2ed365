// Package cli wires the retrace subcommands. It owns no domain logic:
// commands call the session and storage layers through plain functions and
// render their ordered outputs.
package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Import    *ImportCommand
	Status    *StatusCommand
	Visits    *VisitsCommand
	Domains   *DomainsCommand
	Entries   *EntriesCommand
	Terms     *TermsCommand
	Anonymize *AnonymizeCommand
	Export    *ExportCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "retrace"
	parser.LongDescription = "Import a copy of your browsing history, analyze it, and anonymize it irreversibly."

	cmds := &commands{
		Import:    &ImportCommand{globals: &globals, version: version},
		Status:    &StatusCommand{globals: &globals, version: version},
		Visits:    &VisitsCommand{globals: &globals, version: version},
		Domains:   &DomainsCommand{globals: &globals, version: version},
		Entries:   &EntriesCommand{globals: &globals, version: version},
		Terms:     &TermsCommand{globals: &globals, version: version},
		Anonymize: &AnonymizeCommand{globals: &globals, version: version},
		Export:    &ExportCommand{globals: &globals, version: version},
	}

	parser.AddCommand("import", "Import a browsing history snapshot", "Locate (or accept) a browser history artifact and load it into a fresh canonical store.", cmds.Import)
	parser.AddCommand("status", "Show the imported history summary", "Show the active browser, resolved date range, and domain count.", cmds.Status)
	parser.AddCommand("visits", "Aggregate visits by domain", "Group visits by stemmed domain over an optional date or date range.", cmds.Visits)
	parser.AddCommand("domains", "List domains with contributing urls", "Group canonical urls by stemmed domain, with ids for anonymization.", cmds.Domains)
	parser.AddCommand("entries", "List individual visits", "Flat per-visit listing with human-readable dates.", cmds.Entries)
	parser.AddCommand("terms", "Extract search terms", "Extract and aggregate search terms found in imported urls.", cmds.Terms)
	parser.AddCommand("anonymize", "Anonymize selected history rows", "Irreversibly anonymize rows by domain, by search term, or by explicit id.", cmds.Anonymize)
	parser.AddCommand("export", "Export the canonical history", "Write the full url x visit join as semicolon-separated records.", cmds.Export)

	return parser, &globals, cmds
}

// Run is the main entry point for the retrace CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the
// matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parsing (go-flags requires a subcommand,
	// but --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("retrace %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
