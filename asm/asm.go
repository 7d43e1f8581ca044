// Package asm parses textual method listings into bytecode Methods.
//
// The format is line oriented: one mnemonic per line, integer operands for
// local-variable instructions, label operands for branches. `.method NAME`
// begins a method, `.handler START END HANDLER` declares an exception
// handler by labels (END inclusive), `LABEL:` binds a label to the next
// instruction, and `#` starts a comment.
//
//	.method demo
//	    jsr sub
//	    return
//	sub:
//	    astore 2
//	    ret 2
package asm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jverify/jverify/bytecode"
	"github.com/jverify/jverify/op"
)

// ParseError reports a syntax problem with the line it occurred on.
type ParseError struct {
	Line int
	Msg  string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func errorf(line int, format string, args ...any) *ParseError {
	return &ParseError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// ParseFile parses every method in the input.
func ParseFile(r io.Reader) ([]*bytecode.Method, error) {
	var methods []*bytecode.Method
	var cur *bytecode.Assembler
	finish := func() error {
		if cur == nil {
			return nil
		}
		m, err := cur.Assemble()
		if err != nil {
			return fmt.Errorf("method %q: %w", cur.Name(), err)
		}
		methods = append(methods, m)
		cur = nil
		return nil
	}

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == ".method" {
			if len(fields) != 2 {
				return nil, errorf(lineno, ".method takes a single name")
			}
			if err := finish(); err != nil {
				return nil, err
			}
			cur = bytecode.NewAssembler(fields[1])
			continue
		}
		if cur == nil {
			return nil, errorf(lineno, "%q before any .method directive", fields[0])
		}
		if fields[0] == ".handler" {
			if len(fields) != 4 {
				return nil, errorf(lineno, ".handler takes start, end and handler labels")
			}
			cur.Handler(fields[1], fields[2], fields[3])
			continue
		}
		if strings.HasSuffix(fields[0], ":") {
			cur.Label(strings.TrimSuffix(fields[0], ":"))
			fields = fields[1:]
			if len(fields) == 0 {
				continue
			}
		}
		if err := parseInstruction(cur, fields, lineno); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := finish(); err != nil {
		return nil, err
	}
	return methods, nil
}

// Parse parses a listing containing exactly one method.
func Parse(src string) (*bytecode.Method, error) {
	methods, err := ParseFile(strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	if len(methods) != 1 {
		return nil, fmt.Errorf("expected one method, found %d", len(methods))
	}
	return methods[0], nil
}

func parseInstruction(a *bytecode.Assembler, fields []string, lineno int) error {
	code, ok := op.ByName(fields[0])
	if !ok {
		return errorf(lineno, "unknown mnemonic %q", fields[0])
	}
	operands := fields[1:]
	info := op.GetInfo(code)
	switch info.Kind {
	case op.KindLocal, op.KindRet:
		if info.ImplicitSlot >= 0 {
			if len(operands) != 0 {
				return errorf(lineno, "%s takes no operands", info.Name)
			}
			a.EmitLocal(code, info.ImplicitSlot)
			return nil
		}
		// iinc carries a slot and an increment; only the slot matters to
		// the analysis, the increment is accepted and dropped.
		want := 1
		if code == op.Iinc {
			want = 2
		}
		if len(operands) != want {
			return errorf(lineno, "%s takes %d operand(s)", info.Name, want)
		}
		slot, err := strconv.Atoi(operands[0])
		if err != nil || slot < 0 {
			return errorf(lineno, "%s: bad local slot %q", info.Name, operands[0])
		}
		a.EmitLocal(code, slot)
	case op.KindCall, op.KindJump, op.KindCondBranch:
		if len(operands) != 1 {
			return errorf(lineno, "%s takes a single label", info.Name)
		}
		a.EmitBranch(code, operands[0])
	case op.KindSwitch:
		if len(operands) == 0 {
			return errorf(lineno, "%s takes a default label and case labels", info.Name)
		}
		a.EmitSwitch(code, operands[0], operands[1:]...)
	default:
		if len(operands) != 0 {
			return errorf(lineno, "%s takes no operands", info.Name)
		}
		a.Emit(code)
	}
	return nil
}
