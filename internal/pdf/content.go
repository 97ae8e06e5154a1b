package pdf

import "bytes"

// encodeTextLiteral renders s as a PDF string literal in WinAnsi
// (cp1252) encoding, escaping the string delimiters. Characters outside the
// code page degrade to '?'.
func encodeTextLiteral(s string) []byte {
	var b bytes.Buffer
	b.WriteByte('(')
	for _, r := range s {
		c, ok := winAnsiByte(r)
		if !ok {
			c = '?'
		}
		switch c {
		case '(', ')', '\\':
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	b.WriteByte(')')
	return b.Bytes()
}

func winAnsiByte(r rune) (byte, bool) {
	switch {
	case r < 0x80:
		return byte(r), true
	case r >= 0xA0 && r <= 0xFF:
		return byte(r), true
	}
	if b, ok := winAnsiExtra[r]; ok {
		return b, true
	}
	return 0, false
}

// The 0x80-0x9F block is where cp1252 departs from Latin-1.
var winAnsiExtra = map[rune]byte{
	'€': 0x80, // €
	'‚': 0x82,
	'ƒ': 0x83,
	'„': 0x84,
	'…': 0x85, // …
	'†': 0x86,
	'‡': 0x87,
	'ˆ': 0x88,
	'‰': 0x89,
	'Š': 0x8A,
	'‹': 0x8B,
	'Œ': 0x8C, // Œ
	'Ž': 0x8E,
	'‘': 0x91,
	'’': 0x92,
	'“': 0x93,
	'”': 0x94,
	'•': 0x95,
	'–': 0x96,
	'—': 0x97,
	'˜': 0x98,
	'™': 0x99,
	'š': 0x9A,
	'›': 0x9B,
	'œ': 0x9C, // œ
	'ž': 0x9E,
	'Ÿ': 0x9F,
}
