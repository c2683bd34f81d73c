// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"regexp"
	"strconv"

	"github.com/pdiddy/citegraph/pkg/types"
)

// dirPattern matches paper directory names: "2301.07041", "2301.07041v2".
// Group 1 is the base id, group 2 the optional version number.
var dirPattern = regexp.MustCompile(`^(\d{4}\.\d{4,5})(?:v(\d+))?$`)

// ParseDirName splits a paper directory name into its base id and version.
// Directories without a suffix are version 0. ok is false for names that are
// not paper directories.
func ParseDirName(name string) (base types.PaperID, version int, ok bool) {
	m := dirPattern.FindStringSubmatch(name)
	if m == nil {
		return "", 0, false
	}
	if m[2] != "" {
		v, err := strconv.Atoi(m[2])
		if err != nil {
			return "", 0, false
		}
		version = v
	}
	return m[1], version, true
}

// PublicationKey returns the integer value of the id's first four
// characters, the YYMM prefix of arXiv identifiers. ok is false when the
// prefix is not numeric.
func PublicationKey(id types.PaperID) (key int, ok bool) {
	if len(id) < 4 {
		return 0, false
	}
	for i := 0; i < 4; i++ {
		if id[i] < '0' || id[i] > '9' {
			return 0, false
		}
		key = key*10 + int(id[i]-'0')
	}
	return key, true
}
