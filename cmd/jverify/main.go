// Command jverify assembles textual method listings and checks the JSR/RET
// subroutine structure of every method, printing the region assignment or
// the structural violation that rejected the method.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jverify/jverify/asm"
	"github.com/jverify/jverify/dis"
	"github.com/jverify/jverify/errz"
	"github.com/jverify/jverify/subroutine"
)

var red = color.New(color.FgRed).SprintFunc()

func fatal(msg interface{}) {
	var s string
	switch msg := msg.(type) {
	case string:
		s = msg
	case error:
		s = msg.Error()
	default:
		s = fmt.Sprintf("%v", msg)
	}
	fmt.Fprintf(os.Stderr, "%s\n", red(s))
	os.Exit(1)
}

func main() {
	verbose := flag.Bool("v", false, "enable debug logging")
	noColor := flag.Bool("no-color", false, "disable colored output")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if flag.NArg() == 0 {
		fatal("usage: jverify [-v] [-no-color] file.jasm ...")
	}

	useColor := !*noColor && isatty.IsTerminal(os.Stdout.Fd())

	var result error
	for _, path := range flag.Args() {
		if err := verifyFile(path, useColor); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if result != nil {
		fatal(result)
	}
}

func verifyFile(path string, useColor bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	methods, err := asm.ParseFile(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	var result error
	for _, m := range methods {
		log.Debug().Str("method", m.Name()).Str("id", m.ID()).Msg("building subroutine table")
		t, err := subroutine.NewTable(m)
		if err != nil {
			var se *errz.StructuralError
			if errors.As(err, &se) {
				fmt.Fprintf(os.Stderr, "%s: method %s rejected:\n%s", path, m.Name(), red(se.FriendlyErrorMessage()))
			}
			result = multierror.Append(result, fmt.Errorf("%s: method %s: %w", path, m.Name(), err))
			continue
		}
		log.Debug().Str("method", m.Name()).Int("regions", len(t.Subroutines())).Msg("subroutine table built")
		fmt.Printf("%s:\n", m.Name())
		rows := dis.Disassemble(m, t)
		if useColor {
			dis.FPrint(os.Stdout, rows)
		} else {
			dis.Print(os.Stdout, rows)
		}
	}
	return result
}
