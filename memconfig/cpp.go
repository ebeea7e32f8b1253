package memconfig

import (
	"fmt"
	"strings"

	"github.com/sarchlab/drammap/bitmatrix"
)

// CppSource renders the table as a C++ initialize_configs function body,
// one MemConfiguration literal per config followed by the identifier
// lookup table. The output depends only on the table contents, so
// rendering twice yields identical bytes.
func (t *Table) CppSource() string {
	var sb strings.Builder

	sb.WriteString("void DRAMAddr::initialize_configs() {\n")
	for _, c := range t.configs {
		writeCppConfig(&sb, c)
	}

	sb.WriteString("  DRAMAddr::Configs = {\n")
	for i, c := range t.configs {
		sb.WriteString("      {")
		sb.WriteString(cppIdentifier(c.Identifier))
		sb.WriteString(", ")
		sb.WriteString(cppVarName(c.Name))
		sb.WriteString("}")
		if i < len(t.configs)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(" };\n")
	sb.WriteString("}\n")

	return sb.String()
}

func writeCppConfig(sb *strings.Builder, c Config) {
	w := c.Width()

	fmt.Fprintf(sb, "  struct MemConfiguration %s = {\n", cppVarName(c.Name))
	fmt.Fprintf(sb, "      .IDENTIFIER = %s,\n", cppIdentifier(c.Identifier))
	fmt.Fprintf(sb, "      .BK_SHIFT = %d,\n", c.BankShift)
	fmt.Fprintf(sb, "      .BK_MASK = (0b%0*b),\n", w, c.BankMask)
	fmt.Fprintf(sb, "      .ROW_SHIFT = %d,\n", c.RowShift)
	fmt.Fprintf(sb, "      .ROW_MASK = (0b%0*b),\n", w, c.RowMask)
	fmt.Fprintf(sb, "      .COL_SHIFT = %d,\n", c.ColShift)
	fmt.Fprintf(sb, "      .COL_MASK = (0b%0*b),\n", w, c.ColMask)
	writeCppMatrix(sb, ".DRAM_MTX", c.DRAMMatrix, true)
	writeCppMatrix(sb, ".ADDR_MTX", c.AddrMatrix, false)
	sb.WriteString("  };\n")
}

// writeCppMatrix emits one matrix initializer. The trailing spaces after
// the opening brace are part of the established block format; keeping
// them lets regenerated blocks diff cleanly against committed ones.
func writeCppMatrix(
	sb *strings.Builder,
	field string,
	m bitmatrix.Matrix,
	comma bool,
) {
	fmt.Fprintf(sb, "      %s = {          \n", field)

	rows := m.Rows()
	for i, row := range rows {
		fmt.Fprintf(sb, "          0b%0*b", m.Width(), row)
		if i < len(rows)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("       }")
	if comma {
		sb.WriteString(",")
	}
	sb.WriteString("\n")
}

func cppIdentifier(id uint64) string {
	chans, dimms, ranks, banks := DecodeIdentifier(id)
	return fmt.Sprintf("(CHANS(%dUL) | DIMMS(%dUL) | RANKS(%dUL) | BANKS(%dUL))",
		chans, dimms, ranks, banks)
}

// cppVarName turns a scheme name into a C identifier for the generated
// struct variable.
func cppVarName(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			sb.WriteRune(r)
		case r >= '0' && r <= '9':
			if sb.Len() == 0 {
				sb.WriteString("cfg_")
			}
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}

	if sb.Len() == 0 {
		return "dram_cfg"
	}
	return sb.String()
}
