package raptor

import "github.com/dnaspool/infodna/base"

// mapBitsToBase maps a 2-bit value to a Base: 0->A, 1->C, 2->G, 3->T. This is
// the info-DNA packing scheme spec §3 calls out by name - both packet
// payloads and the 4-base header use it.
func mapBitsToBase(bits byte) base.Base {
	switch bits & 0b11 {
	case 0:
		return base.A
	case 1:
		return base.C
	case 2:
		return base.G
	default:
		return base.T
	}
}

// mapByteToBases maps one byte to 4 bases, high two bits first.
func mapByteToBases(b byte) []base.Base {
	return []base.Base{
		mapBitsToBase(b >> 6),
		mapBitsToBase(b >> 4),
		mapBitsToBase(b >> 2),
		mapBitsToBase(b),
	}
}

// mapHalfByteToBases maps the low nibble of b to 2 bases, high two bits
// first; the high nibble is dropped. Used for the info-DNA header fields,
// which take 2 bases each rather than the 4 bases mapByteToBases uses for
// packet payloads.
func mapHalfByteToBases(b byte) []base.Base {
	return []base.Base{
		mapBitsToBase(b >> 2),
		mapBitsToBase(b),
	}
}

// mapBytesToBases maps a byte slice to its DNA encoding, 4 bases per byte.
func mapBytesToBases(bs []byte) []base.Base {
	out := make([]base.Base, 0, len(bs)*4)
	for _, b := range bs {
		out = append(out, mapByteToBases(b)...)
	}
	return out
}
