package lib

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

// Commands maps a cli command name to its entrypoint, populated by init() in cmd/...
var Commands = make(map[string]func())

// Args maps a cli command name to its go-arg struct, used for usage text
var Args = make(map[string]interface{})

type description interface {
	Description() string
}

func Description(cmd string) string {
	d, ok := Args[cmd].(description)
	if !ok {
		return ""
	}
	return d.Description()
}

func Contains(parts []string, part string) bool {
	for _, p := range parts {
		if p == part {
			return true
		}
	}
	return false
}

func Last(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

var stdoutIsTerminal = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

// Pformat renders a value as indented json for a terminal, compact json otherwise
func Pformat(i interface{}) string {
	var (
		data []byte
		err  error
	)
	if stdoutIsTerminal {
		data, err = json.MarshalIndent(i, "", "    ")
	} else {
		data, err = json.Marshal(i)
	}
	if err != nil {
		return fmt.Sprintf("%#v", i)
	}
	return string(data)
}

func PreviewString(preview bool) string {
	if !preview {
		return ""
	}
	return "preview: "
}
