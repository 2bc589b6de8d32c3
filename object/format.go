package object

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// FormatNumber formats f independent of locale: integral values without a
// fractional part, very large or very small magnitudes in exponent form.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	abs := math.Abs(f)
	if abs == 0 || (abs >= 1e-5 && abs < 1e15) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'G', -1, 64)
}

// FormatLiteral renders v the way it would be written in an expression:
// null, true, false, numbers in invariant form, strings double-quoted and
// escaped.
func FormatLiteral(v Value) string {
	var sb strings.Builder
	WriteLiteral(&sb, v)
	return sb.String()
}

// WriteLiteral appends the literal form of v to sb.
func WriteLiteral(sb *strings.Builder, v Value) {
	switch v.k {
	case nullKind:
		sb.WriteString("null")
	case stringKind:
		WriteString(sb, v.s)
	case objectKind:
		fmt.Fprint(sb, v.o)
	default:
		sb.WriteString(v.String())
	}
}

// FormatString double-quotes s, escaping quotes, backslashes and control
// characters.
func FormatString(s string) string {
	var sb strings.Builder
	WriteString(&sb, s)
	return sb.String()
}

// WriteString appends the quoted form of s to sb.
func WriteString(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for _, c := range s {
		switch c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if unicode.IsControl(c) {
				fmt.Fprintf(sb, `\u%04x`, c)
			} else {
				sb.WriteRune(c)
			}
		}
	}
	sb.WriteByte('"')
}

// FormatArgs renders each value in literal form, for error messages.
func FormatArgs(args []Value) []string {
	formatted := make([]string, len(args))
	for i, arg := range args {
		formatted[i] = FormatLiteral(arg)
	}
	return formatted
}
