package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	_ "github.com/nathants/cwevent/cmd/events"
	_ "github.com/nathants/cwevent/cmd/greeting"
	_ "github.com/nathants/cwevent/cmd/lambda"
	"github.com/nathants/cwevent/lib"
)

func usage() {
	var fns []string
	for k := range lib.Commands {
		fns = append(fns, k)
	}
	sort.Strings(fns)
	for _, fn := range fns {
		description := strings.TrimSpace(lib.Description(fn))
		description = strings.SplitN(description, "\n", 2)[0]
		fmt.Printf("%-24s %s\n", fn, description)
	}
}

func main() {
	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "--help" {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	fn, ok := lib.Commands[cmd]
	if !ok {
		usage()
		os.Exit(1)
	}
	var args []string
	for _, a := range os.Args[1:] {
		if len(a) > 2 && a[0] == '-' && a[1] != '-' {
			for _, k := range a[1:] {
				args = append(args, fmt.Sprintf("-%s", string(k)))
			}
		} else {
			args = append(args, a)
		}
	}
	os.Args = args
	fn()
}
