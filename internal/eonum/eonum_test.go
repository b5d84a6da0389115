package eonum

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []int64{0, 1, 252, 253, 254, 255, 1000, 63882, base2 - 1, base2, base3 - 1, base3, base3 * 100}
	for _, n := range cases {
		enc := EncodeNumber(n)
		got := DecodeNumber(enc)
		if got != n {
			t.Errorf("round trip %d: got %d, encoded %v", n, got, enc)
		}
	}
}

func TestEncodeNeverEmitsReservedLowBytes(t *testing.T) {
	for _, n := range []int64{0, 1, 2, base1 - 1} {
		enc := EncodeNumber(n)
		if enc[0] == 0x00 || enc[0] != byte(n+1) {
			t.Errorf("EncodeNumber(%d)[0] = %#x, want %#x (digit plus one, never 0x00)", n, enc[0], byte(n+1))
		}
	}
}

func TestDecodeNumberNPadsWithSentinel(t *testing.T) {
	// A single byte field (width 1) should decode the same as a 4-byte
	// field whose top 3 bytes are the sentinel.
	one := []byte{5}
	if got := DecodeNumberN(one); got != 4 {
		t.Fatalf("DecodeNumberN(%v) = %d, want 4", one, got)
	}
}
