package deps

import (
	"os"

	"golang.org/x/sys/unix"
)

// DisplaySocket returns the first display socket the process may connect to.
func DisplaySocket() (string, error) {
	for _, path := range displayCandidates(os.Getenv) {
		if unix.Access(path, unix.R_OK|unix.W_OK) == nil {
			return path, nil
		}
	}
	return "", ErrNoDisplay
}
