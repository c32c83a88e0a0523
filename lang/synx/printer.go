package synx

import (
	"strconv"
	"strings"
)

// String implementations make every Datum a fmt.Stringer, printed in the
// reader's own surface syntax so that read(print(d)) round-trips (modulo
// unspecified whitespace), per the spec's reader round-trip property.

func (b Boolean) String() string {
	switch b {
	case BooleanTrue:
		return "#t"
	case BooleanFalse:
		return "#f"
	default:
		return "#maybe"
	}
}

func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}

func (s String) String() string {
	return strconv.Quote(string(s))
}

func (s Sym) String() string {
	if s.Identity == 0 {
		return s.Name
	}
	return s.Name + "%" + strconv.FormatUint(s.Identity, 10)
}

func (l Label) String() string { return "@" + string(l) }

func (Empty) String() string { return "()" }

func (p *Pair) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	writePairTail(&sb, p, true)
	sb.WriteByte(')')
	return sb.String()
}

func writePairTail(sb *strings.Builder, d Datum, first bool) {
	switch v := d.(type) {
	case Empty:
		return
	case *Pair:
		if !first {
			sb.WriteByte(' ')
		}
		sb.WriteString(v.Car.String())
		writePairTail(sb, v.Cdr, false)
	default:
		sb.WriteString(" . ")
		sb.WriteString(v.String())
	}
}

func (s *Syntax) String() string {
	return s.Datum.String()
}
