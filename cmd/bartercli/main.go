package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/iov-one/barter"
)

// commands is a register of all availables commands that can be executed by
// this program. The name is used to match with the first argument given.
//
// A command function is given stdin, stdout and the command line arguments
// except the program name and the command name. It is the responsibility of
// the command function to parse the arguments using the flag package.
//
// Every command that changes the state runs as a single transaction against
// the store kept in the home directory. Either all of its changes are
// committed or none.
//
//   $ bartercli init -genesis genesis.yml
//   $ bartercli create-escrow -from $ALICE -offer "10 BBB" -want "5 AAA"
//   $ bartercli exchange -escrow 1 -from $BOB
//   $ bartercli withdraw -escrow 1 -from $ALICE
//
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"balance":       cmdBalance,
	"cancel":        cmdCancel,
	"create-escrow": cmdCreateEscrow,
	"exchange":      cmdExchange,
	"init":          cmdInit,
	"list-escrows":  cmdListEscrows,
	"show-escrow":   cmdShowEscrow,
	"version":       cmdVersion,
	"withdraw":      cmdWithdraw,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s is a command line client for barter escrows.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	// Skip two first arguments. Second argument is the command name that
	// we just consumed.
	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	fmt.Fprintln(out, barter.Version())
	return nil
}
