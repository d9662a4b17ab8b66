package version

import (
	_ "embed" // for go:embed
	"strconv"
	"strings"
)

// VERSION holds the server's version
//
//go:embed VERSION
var VERSION string

// Version segments
var (
	MAJOR int
	MINOR int
	FIX   int
	PRE   int
)

func init() {
	VERSION = strings.TrimSpace(VERSION)
	MAJOR, MINOR, FIX, PRE = parse(VERSION)
}

// parse splits a version of the form MAJOR.MINOR.FIX[-prN]
func parse(v string) (major, minor, fix, pre int) {
	parts := strings.SplitN(v, ".", 3)
	if len(parts) != 3 {
		return
	}
	major, _ = strconv.Atoi(parts[0])
	minor, _ = strconv.Atoi(parts[1])
	fixPre := strings.SplitN(parts[2], "-", 2)
	fix, _ = strconv.Atoi(fixPre[0])
	if len(fixPre) > 1 {
		pre, _ = strconv.Atoi(strings.TrimPrefix(fixPre[1], "pr"))
	}
	return
}
