package main

import (
	"fmt"
	"io"
)

// commandHelp is the help shown by 'mdpress help <name>'.
type commandHelp struct {
	name    string
	summary string
	print   func(w io.Writer)
}

var commands = []commandHelp{
	{"convert", "Convert markup files to PDF (default)", printConvertUsage},
	{"doctor", "Check Chrome, the mermaid CLI and the temp directory", printDoctorUsage},
	{"version", "Show version information", func(w io.Writer) {
		fmt.Fprint(w, "Usage: mdpress version\n\nShow version information.\n")
	}},
	{"help", "Show help for a command", func(w io.Writer) {
		fmt.Fprint(w, "Usage: mdpress help [command]\n\nShow help for a command.\n")
	}},
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, "Usage: mdpress [flags] [input [output [template]]]\n")
	fmt.Fprint(w, "       mdpress <command> [args]\n\nCommands:\n")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", c.name, c.summary)
	}
	fmt.Fprint(w, "\nRun 'mdpress help <command>' for details on a specific command.\n")
}

// printConvertUsage lists the convert flags by group, straight from their
// declarations.
func printConvertUsage(w io.Writer) {
	fmt.Fprint(w, `Usage: mdpress [convert] [flags] [input [output [template]]]

Convert markup files to paginated PDF.

Arguments:
  input     File or directory (default: input.defaultDir, then ".")
  output    PDF file or directory (default: next to each source)
  template  CSS file or built-in style layered on the house style
`)
	for _, g := range convertFlagGroups(&convertFlags{}) {
		fmt.Fprintf(w, "\n%s:\n%s", g.title, g.flags.FlagUsages())
	}
	fmt.Fprint(w, "\nEnvironment:\n")
	for _, name := range envVarNames() {
		fmt.Fprintf(w, "  %s\n", name)
	}
}

func printDoctorUsage(w io.Writer) {
	fmt.Fprint(w, `Usage: mdpress doctor [--json]

Check Chrome, the mermaid CLI and the temp directory.

Flags:
      --json    Machine-readable output
`)
}

// runHelp prints help for args[0], or the command list.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}
	for _, c := range commands {
		if c.name == args[0] {
			c.print(env.Stdout)
			return
		}
	}
	fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
	printUsage(env.Stderr)
}
