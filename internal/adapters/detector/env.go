// Package detector inspects the process environment to decide how output is styled.
package detector

import (
	"os"

	"golang.org/x/term"
)

// Environment describes the terminal the process writes to.
type Environment struct {
	// TTY is true when stdout is a terminal.
	TTY bool
	// CI is true when running under a CI system.
	CI bool
	// NoColor is true when NO_COLOR is set.
	NoColor bool
}

// DetectEnvironment inspects stdout and the environment variables of the process.
func DetectEnvironment() Environment {
	return DetectFrom(os.Getenv, term.IsTerminal(int(os.Stdout.Fd())))
}

// DetectFrom builds an Environment from a variable lookup and a TTY flag.
func DetectFrom(getenv func(string) string, isTTY bool) Environment {
	ci := getenv("CI")
	return Environment{
		TTY:     isTTY,
		CI:      ci == "true" || ci == "1",
		NoColor: getenv("NO_COLOR") != "",
	}
}

// Colors reports whether colored output should be produced.
// noColors is the user override from the command line.
func (e Environment) Colors(noColors bool) bool {
	if noColors || e.NoColor {
		return false
	}
	return e.TTY || e.CI
}
