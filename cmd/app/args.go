package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"
)

const (
	flagQuiet   = "quiet"
	flagPDFName = "pdf-name"
	flagOut     = "out"
	flagFormat  = "format"
	flagPort    = "port"
)

var errMissingDirectory = errors.New("missing <directory> argument")

func quietFlag() cli.Flag {
	return &cli.BoolFlag{Name: flagQuiet, Aliases: []string{"q"}, Usage: "Suppress diagnostics"}
}

// invocation is a parsed subcommand call.
type invocation struct {
	dir    string
	quiet  bool
	port   int
	values map[string]string
}

// valueFlags lists the string flags a subcommand may carry.
var valueFlags = []string{flagPDFName, flagOut, flagFormat}

// parseInvocation reads the directory argument and the subcommand flags.
// Flags written after the directory are left in the argument list by the
// flag parser, so they are picked up here as well.
func parseInvocation(cmd *cli.Command) (invocation, error) {
	inv := invocation{
		quiet:  cmd.Bool(flagQuiet),
		port:   int(cmd.Int(flagPort)),
		values: make(map[string]string, len(valueFlags)),
	}
	for _, name := range valueFlags {
		inv.values[name] = cmd.String(name)
	}
	return inv, inv.scan(cmd.Args().Slice())
}

func (inv *invocation) scan(args []string) error {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			continue
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			if inv.dir != "" {
				return fmt.Errorf("unexpected argument %q", arg)
			}
			inv.dir = arg
			continue
		}

		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		switch name {
		case "q", flagQuiet:
			inv.quiet = true
			continue
		case flagPDFName, flagOut, flagFormat, flagPort:
		default:
			return fmt.Errorf("unknown flag %q", arg)
		}
		if !hasValue {
			if i+1 >= len(args) {
				return fmt.Errorf("flag %q needs a value", arg)
			}
			i++
			value = args[i]
		}
		if name == flagPort {
			port, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid --%s %q: %w", flagPort, value, err)
			}
			inv.port = port
			continue
		}
		inv.values[name] = value
	}

	if inv.dir == "" {
		return errMissingDirectory
	}
	return nil
}
