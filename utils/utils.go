// Package utils provides small filesystem helpers shared by the CLI.
package utils

import (
	"os"

	"github.com/mitchellh/go-homedir"
)

// ExpandPath expands a leading tilde and environment variables in a path.
func ExpandPath(path string) string {
	s, err := homedir.Expand(os.ExpandEnv(path))
	if err != nil {
		return path
	}
	return s
}
