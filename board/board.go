// Package board describes the memory maps of the PicoRV32 boards the host
// tools know about. Built-in profiles live in boards.yaml; users can supply
// their own file in the same format.
package board

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// Default is the profile used when none is named.
const Default = "picorv32"

//go:embed boards.yaml
var rawBoards []byte

var builtin Profiles

var (
	ErrBoardNotFound = errors.New("board not found")
	ErrInvalid       = errors.New("invalid board profile")
)

type Profile struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	RAMBase     uint32  `yaml:"ram_base"`
	RAMSize     uint32  `yaml:"ram_size"`
	ResetPC     uint32  `yaml:"reset_pc"`
	FaultVector *uint32 `yaml:"fault_vector,omitempty"`
	UARTTx      uint32  `yaml:"uart_tx"`
}

type Profiles []Profile

type file struct {
	Boards Profiles `yaml:"boards"`
}

func init() {
	var err error
	if builtin, err = Parse(rawBoards); err != nil {
		panic(err)
	}
}

// Builtin returns the profiles compiled into the binary.
func Builtin() Profiles {
	ps := make(Profiles, len(builtin))
	for i, p := range builtin {
		ps[i] = p.clone()
	}
	return ps
}

// clone returns p with its own copy of the optional fields.
func (p Profile) clone() Profile {
	if p.FaultVector != nil {
		fv := *p.FaultVector
		p.FaultVector = &fv
	}
	return p
}

// Parse decodes and validates a boards file.
func Parse(b []byte) (Profiles, error) {
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse boards: %w", err)
	}
	var errs []error
	for _, p := range f.Boards {
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return f.Boards, nil
}

// Load reads a boards file from disk.
func Load(path string) (Profiles, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ps, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ps, nil
}

// Resolve finds name in the boards file at path, or among the built-in
// profiles when path is empty.
func Resolve(name, path string) (Profile, error) {
	ps := Builtin()
	if path != "" {
		var err error
		if ps, err = Load(path); err != nil {
			return Profile{}, err
		}
	}
	if name == "" {
		name = Default
	}
	return ps.Lookup(name)
}

func (ps Profiles) Lookup(name string) (Profile, error) {
	i := slices.IndexFunc(ps, func(p Profile) bool {
		return strings.EqualFold(p.Name, name)
	})
	if i < 0 {
		return Profile{}, fmt.Errorf("%w: %q", ErrBoardNotFound, name)
	}
	return ps[i].clone(), nil
}

func (ps Profiles) Names() []string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}
	slices.Sort(names)
	return names
}

// InRAM reports whether addr is backed by RAM.
func (p Profile) InRAM(addr uint32) bool {
	return addr >= p.RAMBase && uint64(addr) < uint64(p.RAMBase)+uint64(p.RAMSize)
}

// Validate checks that the memory map is usable. All problems are reported.
func (p Profile) Validate() error {
	var errs []error
	if p.Name == "" {
		errs = append(errs, errors.New("missing name"))
	}
	if p.RAMSize == 0 {
		errs = append(errs, errors.New("ram_size is zero"))
	}
	if uint64(p.RAMBase)+uint64(p.RAMSize) > 1<<32 {
		errs = append(errs, errors.New("RAM runs past the 32-bit address space"))
	}
	if p.RAMSize != 0 && p.InRAM(p.UARTTx) {
		errs = append(errs, fmt.Errorf("uart_tx 0x%08x lies inside RAM", p.UARTTx))
	}
	if p.ResetPC%4 != 0 {
		errs = append(errs, fmt.Errorf("reset_pc 0x%08x is not word aligned", p.ResetPC))
	}
	if p.RAMSize != 0 && !p.InRAM(p.ResetPC) {
		errs = append(errs, fmt.Errorf("reset_pc 0x%08x is outside RAM", p.ResetPC))
	}
	if fv := p.FaultVector; fv != nil {
		if *fv%4 != 0 {
			errs = append(errs, fmt.Errorf("fault_vector 0x%08x is not word aligned", *fv))
		}
		if p.RAMSize != 0 && !p.InRAM(*fv) {
			errs = append(errs, fmt.Errorf("fault_vector 0x%08x is outside RAM", *fv))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w %q: %w", ErrInvalid, p.Name, errors.Join(errs...))
	}
	return nil
}
