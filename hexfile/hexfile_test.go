package hexfile

import (
	"bytes"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"empty", nil, ""},
		{"one word", []byte{0xb7, 0x00, 0x00, 0x10}, "100000b7\n"},
		{"padded", []byte{0x6f, 0x00, 0x00, 0x00, 'H', 'i'}, "0000006f\n00006948\n"},
		{"single byte", []byte{0xff}, "000000ff\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := qt.New(t)
			var buf bytes.Buffer
			c.Assert(Encode(&buf, test.in), qt.IsNil)
			c.Assert(buf.String(), qt.Equals, test.want)
		})
	}
}

func TestEncodeLeavesInputAlone(t *testing.T) {
	c := qt.New(t)
	in := make([]byte, 3, 8)
	var buf bytes.Buffer
	c.Assert(Encode(&buf, in), qt.IsNil)
	c.Assert(in, qt.HasLen, 3)
}

func TestDecode(t *testing.T) {
	c := qt.New(t)
	got, err := Decode(strings.NewReader("// boot\n100000b7\n\n  00006948  // tail\n"))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []byte{0xb7, 0x00, 0x00, 0x10, 'H', 'i', 0, 0})
}

func TestDecodeErrors(t *testing.T) {
	c := qt.New(t)
	_, err := Decode(strings.NewReader("0000006f\nzz\n"))
	c.Assert(err, qt.ErrorMatches, `line 2: .*invalid syntax`)

	_, err = Decode(strings.NewReader("@100\n0000006f\n"))
	c.Assert(err, qt.ErrorMatches, `line 1: address records are not supported`)

	_, err = Decode(strings.NewReader("100000000\n"))
	c.Assert(err, qt.ErrorMatches, `line 1: .*value out of range`)
}

func TestRoundTripGreeting(t *testing.T) {
	c := qt.New(t)
	in := []byte("Hello, World from Rust on PicoRV32!\r\n")
	var buf bytes.Buffer
	c.Assert(Encode(&buf, in), qt.IsNil)
	c.Assert(strings.Count(buf.String(), "\n"), qt.Equals, 10)

	out, err := Decode(&buf)
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.DeepEquals, Pad(in))
}
