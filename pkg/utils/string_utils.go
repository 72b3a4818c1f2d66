// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"regexp"
	"strings"
)

var (
	ansiRegex    = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)
	controlRegex = regexp.MustCompile(`[\x00-\x08\x0B-\x0C\x0E-\x1F]`)
)

// RemoveLineCleanChars removes ANSI escape codes and other terminal control
// characters from a string. Collector output passes through here before it
// lands in the log file; the copy shown to the user stays untouched.
func RemoveLineCleanChars(s string) string {
	s = ansiRegex.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "\r", "")
	return controlRegex.ReplaceAllString(s, "")
}
