// Package eonum implements the little-packed 1-to-4 byte integer encoding
// shared by the EMF map loader and the client wire protocol (§4.2, §6):
// "the loader must use the same decoder the wire protocol uses". The wire
// protocol's frame codec itself is out of this module's scope (§1); this
// package is the one piece of that codec the core does need, because the
// EMF file format embeds numbers with it.
//
// Each byte of the encoding carries a base-253 digit offset by one (so 0x00
// never appears on the wire and a zero digit is 0x01), with byte value 254 reserved as a
// sentinel meaning "this digit position is unused" — a four-byte-wide field
// whose value fits in fewer bytes pads the unused high digits with 254
// rather than 0.
package eonum

const (
	sentinel = 254

	base1 = 253
	base2 = base1 * base1
	base3 = base1 * base1 * base1
)

// EncodeNumber encodes n (0 <= n < base3*253) into exactly 4 bytes.
func EncodeNumber(n int64) [4]byte {
	var out [4]byte = [4]byte{sentinel, sentinel, sentinel, sentinel}

	value := n
	if value >= base3 {
		out[3] = byte(value/base3 + 1)
		value %= base3
	}
	if value >= base2 {
		out[2] = byte(value/base2 + 1)
		value %= base2
	}
	if value >= base1 {
		out[1] = byte(value/base1 + 1)
		value %= base1
	}
	out[0] = byte(value + 1)
	return out
}

// DecodeNumber reverses EncodeNumber. A sentinel byte contributes 0 to its
// digit position rather than participating in the base-253 expansion.
func DecodeNumber(b [4]byte) int64 {
	var value int64
	if b[3] != sentinel {
		value += int64(b[3]-1) * base3
	}
	if b[2] != sentinel {
		value += int64(b[2]-1) * base2
	}
	if b[1] != sentinel {
		value += int64(b[1]-1) * base1
	}
	if b[0] != sentinel {
		value += int64(b[0] - 1)
	}
	return value
}

// EncodeNumberN encodes n into the first width bytes of a 1-4 byte field,
// the form the EMF format uses for narrower fixed-width counts (§4.2).
func EncodeNumberN(n int64, width int) []byte {
	full := EncodeNumber(n)
	return full[:width]
}

// DecodeNumberN decodes a 1-4 byte little-packed field, padding missing
// high bytes with the sentinel before decoding.
func DecodeNumberN(b []byte) int64 {
	var full [4]byte = [4]byte{sentinel, sentinel, sentinel, sentinel}
	copy(full[:], b)
	return DecodeNumber(full)
}
