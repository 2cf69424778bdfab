// Package hexfile reads and writes memory images in the format Verilog's
// $readmemh expects for a 32-bit wide memory: one little-endian word per
// line, printed as eight hex digits, most significant byte first.
package hexfile

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Pad extends b with zeros to a multiple of four bytes.
func Pad(b []byte) []byte {
	if r := len(b) % 4; r != 0 {
		b = append(b, make([]byte, 4-r)...)
	}
	return b
}

// Encode writes bin as readmemh words. A trailing partial word is zero
// padded.
func Encode(w io.Writer, bin []byte) error {
	bw := bufio.NewWriter(w)
	bin = Pad(append([]byte(nil), bin...))
	for i := 0; i < len(bin); i += 4 {
		if _, err := fmt.Fprintf(bw, "%08x\n", binary.LittleEndian.Uint32(bin[i:])); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Decode reads readmemh words back into a flat little-endian image. Blank
// lines and // comments are skipped.
func Decode(r io.Reader) ([]byte, error) {
	var out []byte
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		s := sc.Text()
		if i := strings.Index(s, "//"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if strings.HasPrefix(s, "@") {
			return nil, fmt.Errorf("line %d: address records are not supported", line)
		}
		v, err := strconv.ParseUint(s, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = binary.LittleEndian.AppendUint32(out, uint32(v))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
