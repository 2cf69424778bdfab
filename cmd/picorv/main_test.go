package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"picorv/asm"
	"picorv/board"
	"picorv/firmware"
)

func execute(c *qt.C, args ...string) (string, error) {
	c.Helper()
	out, _, err := executeWithStderr(c, args...)
	return out, err
}

func executeWithStderr(c *qt.C, args ...string) (stdout, stderr string, err error) {
	c.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeBin(c *qt.C, words ...uint32) string {
	c.Helper()
	var b []byte
	for _, w := range words {
		b = binary.LittleEndian.AppendUint32(b, w)
	}
	path := filepath.Join(c.TempDir(), "fw.bin")
	c.Assert(os.WriteFile(path, b, 0o644), qt.IsNil)
	return path
}

func TestRunBuiltinImage(t *testing.T) {
	c := qt.New(t)
	out, err := execute(c, "run")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Equals, firmware.Greeting)
}

func TestRunPicoSoC(t *testing.T) {
	c := qt.New(t)
	out, err := execute(c, "run", "--board", "picosoc")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Equals, firmware.Greeting)
}

func TestImageThenRunHex(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(c.TempDir(), "hello.hex")
	_, err := execute(c, "image", "-o", path, "--text", "hi\n")
	c.Assert(err, qt.IsNil)

	b, err := os.ReadFile(path)
	c.Assert(err, qt.IsNil)
	first, _, _ := strings.Cut(string(b), "\n")
	c.Assert(first, qt.Matches, `[0-9a-f]{8}`)

	out, err := execute(c, "run", "--hex", path)
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Equals, "hi\n")
}

func TestImageBinAndMakeHex(t *testing.T) {
	c := qt.New(t)
	dir := c.TempDir()
	bin := filepath.Join(dir, "hello.bin")
	hex := filepath.Join(dir, "hello.hex")

	_, err := execute(c, "image", "-o", bin)
	c.Assert(err, qt.IsNil)
	_, err = execute(c, "makehex", bin, hex)
	c.Assert(err, qt.IsNil)

	out, err := execute(c, "run", "--bin", bin)
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Equals, firmware.Greeting)

	out, err = execute(c, "run", "--hex", hex)
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Equals, firmware.Greeting)
}

func TestImageUnknownFormat(t *testing.T) {
	c := qt.New(t)
	_, err := execute(c, "image", "-o", filepath.Join(c.TempDir(), "x"), "--format", "srec")
	c.Assert(err, qt.ErrorMatches, `unknown format "srec" \(want bin or hex\)`)
}

func TestRunUnknownBoard(t *testing.T) {
	c := qt.New(t)
	_, err := execute(c, "run", "--board", "arty")
	c.Assert(errors.Is(err, board.ErrBoardNotFound), qt.IsTrue)
}

func TestRunTrapReportsError(t *testing.T) {
	c := qt.New(t)
	bin := filepath.Join(c.TempDir(), "ecall.bin")
	c.Assert(os.WriteFile(bin, []byte{0x73, 0, 0, 0}, 0o644), qt.IsNil)
	_, err := execute(c, "run", "--board", "picosoc", "--bin", bin)
	c.Assert(err, qt.ErrorMatches, `after 0 steps: trap: ecall at pc=00100000 inst=00000073`)
}

func TestRunSourcesAreExclusive(t *testing.T) {
	c := qt.New(t)
	_, err := execute(c, "run", "--bin", "a", "--hex", "b")
	c.Assert(err, qt.ErrorMatches, `.*\[bin hex\] were all set.*|.*none of the others can be.*`)
}

func TestBoardsFromFile(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(c.TempDir(), "boards.yaml")
	c.Assert(os.WriteFile(path, []byte(`
boards:
  - name: tiny
    description: small test board
    ram_size: 0x400
    uart_tx: 0x10000000
`), 0o644), qt.IsNil)

	out, err := execute(c, "boards", "--boards", path)
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "tiny")
	c.Assert(out, qt.Contains, "0x10000000")

	out, err = execute(c, "run", "--boards", path, "--board", "tiny")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Equals, firmware.Greeting)
}

func TestBoardsBuiltin(t *testing.T) {
	c := qt.New(t)
	out, err := execute(c, "boards")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "picorv32")
	c.Assert(out, qt.Contains, "picosoc")
}

func TestRunLogsCaughtTraps(t *testing.T) {
	c := qt.New(t)
	bin := writeBin(c, asm.ECALL, asm.NOP, asm.NOP, asm.NOP, asm.JAL(asm.Zero, 0))
	_, stderr, err := executeWithStderr(c, "run", "--bin", bin)
	c.Assert(err, qt.IsNil)
	c.Assert(stderr, qt.Equals, "picorv: caught trap: ecall at pc=00000000 inst=00000073\n")
}

func TestRunLogsStepBudget(t *testing.T) {
	c := qt.New(t)
	bin := writeBin(c, asm.NOP, asm.JAL(asm.Zero, -4))
	_, stderr, err := executeWithStderr(c, "run", "--board", "picosoc", "--bin", bin, "--steps", "10")
	c.Assert(err, qt.IsNil)
	c.Assert(stderr, qt.Equals, "picorv: stopped after 10 steps without halting\n")
}

func TestRunStopsOnNestedTrap(t *testing.T) {
	c := qt.New(t)
	bin := writeBin(c, asm.ECALL)
	_, stderr, err := executeWithStderr(c, "run", "--bin", bin)
	c.Assert(err, qt.ErrorMatches, `after 1 steps: trap: illegal instruction at pc=00000010 inst=00000000`)
	c.Assert(stderr, qt.Equals, "picorv: caught trap: ecall at pc=00000000 inst=00000073\n")
}
