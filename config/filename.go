package config

import (
	"os"
	"strings"
	"unicode"
)

// CleanFileName removes characters not allowed in file names on the current
// platform. Control characters are always removed.
func CleanFileName(in string) string {
	out := trimFileName(strings.Map(func(sym rune) rune {
		if unicode.IsControl(sym) || strings.ContainsRune(forbiddenChars, sym) {
			return -1
		}
		return sym
	}, in))
	if len(out) == 0 {
		out = "_bad_file_name_"
	}
	return out
}

// colorAllowed honors NO_COLOR convention (https://no-color.org).
func colorAllowed() bool {
	_, set := os.LookupEnv("NO_COLOR")
	return !set
}
