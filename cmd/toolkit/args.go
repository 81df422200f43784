package main

import (
	"flag"
	"fmt"
	"strconv"
)

func parseID(name, raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, raw)
	}
	return id, nil
}

// singleID parses the one positional id a command expects
func singleID(fs *flag.FlagSet, name string) (int, error) {
	if fs.NArg() != 1 {
		return 0, fmt.Errorf("usage: toolkit %s <%s>", fs.Name(), name)
	}
	return parseID(name, fs.Arg(0))
}

func ids(name string, raw []string) ([]int, error) {
	out := make([]int, 0, len(raw))
	for _, r := range raw {
		id, err := parseID(name, r)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// setFlags reports which flags were given explicitly
func setFlags(fs *flag.FlagSet) map[string]bool {
	seen := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { seen[f.Name] = true })
	return seen
}
