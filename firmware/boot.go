package firmware

// State of the boot sequence.
type State uint8

const (
	Reset State = iota
	Transmitting
	Halted
	Faulted
)

func (s State) String() string {
	switch s {
	case Reset:
		return "reset"
	case Transmitting:
		return "transmitting"
	case Halted:
		return "halted"
	case Faulted:
		return "faulted"
	}
	return "unknown"
}

// Machine runs the boot sequence against one transmit register.
type Machine struct {
	tx    Register
	state State

	// idle runs on every turn of the halt loop and must have no side
	// effects on the device.
	idle func()
}

func New(tx Register) *Machine {
	return &Machine{tx: tx, idle: func() {}}
}

func (m *Machine) State() State { return m.state }

// Boot sends Greeting and halts. It never returns. A panic while
// transmitting ends in Fault.
func (m *Machine) Boot() {
	defer func() {
		if r := recover(); r != nil {
			m.Fault(r)
		}
	}()

	m.state = Transmitting
	Puts(m.tx, Greeting)

	m.Halt()
}

// Halt parks the core forever. Nothing is written after it is entered.
func (m *Machine) Halt() {
	if m.state != Faulted {
		m.state = Halted
	}
	for {
		m.idle()
	}
}

// Fault is the catch-all handler for unrecoverable errors. It never touches
// the UART, since the UART may be what faulted, and never returns. The
// fault value is dropped; there is nowhere to report it.
func (m *Machine) Fault(any) {
	m.state = Faulted
	m.Halt()
}
