// Package dis renders method bodies as disassembly listings, optionally
// annotated with the subroutine region each instruction belongs to.
package dis

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/jverify/jverify/bytecode"
	"github.com/jverify/jverify/internal/table"
	"github.com/jverify/jverify/op"
	"github.com/jverify/jverify/subroutine"
)

// Row represents a single disassembled instruction.
type Row struct {
	Offset  int
	Name    string
	Operand string
	Region  string
}

// Disassemble returns one row per instruction of the method. When t is
// non-nil each row carries the region the instruction belongs to, or
// "dead code" for instructions outside every region.
func Disassemble(m *bytecode.Method, t *subroutine.Table) []Row {
	var rows []Row
	for _, ins := range m.Instructions() {
		info := op.GetInfo(ins.Opcode())
		row := Row{
			Offset:  ins.Offset(),
			Name:    info.Name,
			Operand: operand(ins, info),
		}
		if t != nil {
			if sub, ok := t.SubroutineOf(ins); ok {
				row.Region = sub.String()
			} else {
				row.Region = "dead code"
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func operand(ins *bytecode.Instruction, info op.Info) string {
	switch info.Kind {
	case op.KindCall, op.KindJump, op.KindCondBranch:
		return fmt.Sprintf("->%d", ins.Targets()[0].Offset())
	case op.KindSwitch:
		var parts []string
		for n, t := range ins.Targets() {
			if n == 0 {
				parts = append(parts, fmt.Sprintf("default->%d", t.Offset()))
			} else {
				parts = append(parts, fmt.Sprintf("->%d", t.Offset()))
			}
		}
		return strings.Join(parts, " ")
	case op.KindLocal, op.KindRet:
		if info.ImplicitSlot < 0 {
			return strconv.Itoa(ins.LocalSlot())
		}
	}
	return ""
}

// Print writes a plain table of the given rows.
func Print(w io.Writer, rows []Row) {
	render(w, rows, false)
}

// FPrint writes a colorized table of the given rows.
func FPrint(w io.Writer, rows []Row) {
	render(w, rows, true)
}

func render(w io.Writer, rows []Row, colorize bool) {
	plain := func(a ...interface{}) string { return fmt.Sprint(a...) }
	name, region := plain, plain
	if colorize {
		name = color.New(color.Bold).SprintFunc()
		region = color.New(color.FgYellow).SprintFunc()
	}
	var lines [][]string
	for _, row := range rows {
		lines = append(lines, []string{
			strconv.Itoa(row.Offset),
			name(row.Name),
			row.Operand,
			region(row.Region),
		})
	}
	table.NewTable(w).
		WithHeader([]string{"OFFSET", "OPCODE", "OPERAND", "REGION"}).
		WithColumnAlignment([]table.Alignment{
			table.AlignRight,
			table.AlignLeft,
			table.AlignRight,
			table.AlignLeft,
		}).
		WithHeaderAlignment([]table.Alignment{
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
		}).
		WithRows(lines).
		Render()
}
