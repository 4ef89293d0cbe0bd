package pyparser

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"
)

// decodeStringNode decodes one string literal or an implicit concatenation of them.
// Formatted strings (f"...", t"...") are not constants and report ok=false.
func decodeStringNode(src string) (ConstKind, string, bool) {
	var sb strings.Builder
	kind := ConstString
	first := true
	i := 0
	for {
		i = skipLiteralGap(src, i)
		if i >= len(src) {
			break
		}

		start := i
		for i < len(src) && isPrefixLetter(src[i]) {
			i++
		}
		prefix := strings.ToLower(src[start:i])
		if strings.ContainsAny(prefix, "ft") {
			return 0, "", false
		}
		if i >= len(src) || (src[i] != '"' && src[i] != '\'') {
			return 0, "", false
		}

		litKind := ConstString
		if strings.Contains(prefix, "b") {
			litKind = ConstBytes
		}
		if first {
			kind = litKind
			first = false
		} else if kind != litKind {
			return 0, "", false
		}

		quote := src[i : i+1]
		if strings.HasPrefix(src[i:], strings.Repeat(quote, 3)) {
			quote = strings.Repeat(quote, 3)
		}
		i += len(quote)
		bodyStart := i
		for i < len(src) && !strings.HasPrefix(src[i:], quote) {
			if src[i] == '\\' {
				i++
			}
			i++
		}
		if i > len(src) {
			return 0, "", false
		}
		body := src[bodyStart:i]
		i += len(quote)

		if strings.Contains(prefix, "r") {
			sb.WriteString(body)
		} else {
			sb.WriteString(unescape(body, litKind == ConstBytes))
		}
	}
	if first {
		return 0, "", false
	}
	if kind == ConstBytes {
		// str(b"...") keeps the literal form
		return kind, src, true
	}
	return kind, sb.String(), true
}

func isPrefixLetter(b byte) bool {
	switch b {
	case 'r', 'R', 'b', 'B', 'u', 'U', 'f', 'F', 't', 'T':
		return true
	}
	return false
}

// skipLiteralGap skips whitespace, line continuations and comments between concatenated literals
func skipLiteralGap(src string, i int) int {
	for i < len(src) {
		switch src[i] {
		case ' ', '\t', '\n', '\r', '\f', '\\':
			i++
		case '#':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		default:
			return i
		}
	}
	return i
}

// unescape resolves backslash escapes of a non-raw literal body
func unescape(s string, bytesLit bool) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch != '\\' || i+1 >= len(s) {
			sb.WriteByte(ch)
			continue
		}
		i++
		switch c := s[i]; c {
		case '\n':
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		case '\\', '\'', '"':
			sb.WriteByte(c)
		case 'a':
			sb.WriteByte('\a')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'v':
			sb.WriteByte('\v')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(s) && j < i+3 && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			v, _ := strconv.ParseUint(s[i:j], 8, 32)
			writeCode(&sb, rune(v), bytesLit)
			i = j - 1
		case 'x':
			i = writeHexEscape(&sb, s, i, 2, bytesLit)
		case 'u':
			if bytesLit {
				sb.WriteString("\\u")
				continue
			}
			i = writeHexEscape(&sb, s, i, 4, false)
		case 'U':
			if bytesLit {
				sb.WriteString("\\U")
				continue
			}
			i = writeHexEscape(&sb, s, i, 8, false)
		default:
			// unknown escapes (including \N{...}) stay as written
			sb.WriteByte('\\')
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// writeHexEscape decodes \xHH, \uHHHH, \UHHHHHHHH starting at s[i] (the letter)
// and returns the index of the last consumed byte.
func writeHexEscape(sb *strings.Builder, s string, i, digits int, bytesLit bool) int {
	end := i + 1 + digits
	if end > len(s) {
		sb.WriteByte('\\')
		sb.WriteByte(s[i])
		return i
	}
	v, err := strconv.ParseUint(s[i+1:end], 16, 32)
	if err != nil {
		sb.WriteByte('\\')
		sb.WriteByte(s[i])
		return i
	}
	writeCode(sb, rune(v), bytesLit)
	return end - 1
}

func writeCode(sb *strings.Builder, r rune, bytesLit bool) {
	if bytesLit || r < utf8.RuneSelf {
		sb.WriteByte(byte(r))
		return
	}
	sb.WriteRune(r)
}

// numberConstant builds an int/float/complex constant whose Value matches Python's str()
func numberConstant(b exprBase) Expr {
	lit := b.src
	if strings.HasSuffix(lit, "j") || strings.HasSuffix(lit, "J") {
		return &Constant{exprBase: b, Kind: ConstComplex, Value: strings.ToLower(lit)}
	}
	if isIntLiteral(lit) {
		n, ok := new(big.Int).SetString(normalizeIntLiteral(lit), 0)
		if ok {
			return &Constant{exprBase: b, Kind: ConstInt, Value: n.String()}
		}
		return &Raw{exprBase: b, Kind: "integer"}
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(lit, "_", ""), 64)
	if err != nil {
		return &Raw{exprBase: b, Kind: "float"}
	}
	return &Constant{exprBase: b, Kind: ConstFloat, Value: FormatFloat(f)}
}

func isIntLiteral(lit string) bool {
	l := strings.ToLower(lit)
	if strings.HasPrefix(l, "0x") || strings.HasPrefix(l, "0o") || strings.HasPrefix(l, "0b") {
		return true
	}
	return !strings.ContainsAny(l, ".e")
}

// normalizeIntLiteral turns decimal literals with leading zeros ("00") into something
// big.Int does not read as octal.
func normalizeIntLiteral(lit string) string {
	l := strings.ToLower(strings.ReplaceAll(lit, "_", ""))
	if len(l) > 1 && l[0] == '0' && l[1] >= '0' && l[1] <= '9' {
		l = strings.TrimLeft(l, "0")
		if l == "" {
			return "0"
		}
	}
	return l
}

// FormatFloat renders a float the way Python's repr/str does
func FormatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	if f == 0 {
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp := 0
	if idx := strings.IndexByte(sci, 'e'); idx >= 0 {
		exp, _ = strconv.Atoi(sci[idx+1:])
	}
	if exp < -4 || exp >= 16 {
		return sci
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
