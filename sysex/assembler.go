package sysex

import "github.com/qypat/qypat/sevenbit"

// Block is one reassembled AL stream: the concatenation, in arrival
// order, of every bulk-dump envelope's decoded payload seen at that AL,
// plus the still-7-bit-encoded payload of the first envelope seen at
// that AL. The assembler retains that first message verbatim
// (pre-decode) because the QY70 tempo encoding lives in the raw payload.
type Block struct {
	Decoded     []byte
	FirstRawEnc []byte
}

// Assembler groups bulk-dump envelopes by AL and decodes each payload.
// It also runs the bulk-dump session state machine: Init ->
// awaitingData, a Bulk-Dump with a matching device number self-loops,
// Close -> closed. A Bulk-Dump received before Init, or with a
// mismatched device number, is an error; in Tolerant mode it is still
// accumulated, with a warning.
type Assembler struct {
	opts    Options
	state   SessionState
	device  byte
	haveDev bool
	blocks  map[byte]*Block
	order   []byte // AL values in first-seen order, for deterministic iteration
}

// SessionState is the bulk-dump session's three states.
type SessionState int

const (
	StateIdle SessionState = iota
	StateAwaitingData
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingData:
		return "awaiting_data"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// NewAssembler returns an Assembler in the idle state.
func NewAssembler(opts Options) *Assembler {
	return &Assembler{opts: opts, state: StateIdle, blocks: make(map[byte]*Block)}
}

// State returns the assembler's current session state.
func (a *Assembler) State() SessionState { return a.state }

// SessionError describes a bulk-dump session-FSM violation.
type SessionError struct {
	Msg string
}

func (e *SessionError) Error() string { return e.Msg }

// Feed processes one envelope from a scanned stream, in order. Init,
// Close, and BulkDump envelopes drive the session FSM; every other kind
// is ignored. Feed returns an error only in strict (non-Tolerant) mode,
// when a BulkDump arrives in the idle state or from an unexpected device.
func (a *Assembler) Feed(env Envelope) error {
	switch env.Kind {
	case KindInit:
		a.state = StateAwaitingData
		a.device = env.Device
		a.haveDev = true
		return nil
	case KindClose:
		a.state = StateClosed
		return nil
	case KindBulkDump:
		return a.feedBulkDump(env)
	default:
		return nil
	}
}

func (a *Assembler) feedBulkDump(env Envelope) error {
	mismatched := a.state == StateIdle || (a.haveDev && env.Device != a.device)
	if mismatched && !a.opts.Tolerant {
		if a.state == StateIdle {
			return &SessionError{Msg: "bulk-dump received in idle state"}
		}
		return &SessionError{Msg: "bulk-dump device number mismatch"}
	}

	al := env.Addr.AL
	blk, ok := a.blocks[al]
	if !ok {
		blk = &Block{FirstRawEnc: append([]byte(nil), env.EncodedPayload...)}
		a.blocks[al] = blk
		a.order = append(a.order, al)
	}
	blk.Decoded = append(blk.Decoded, sevenbit.Decode(env.EncodedPayload)...)
	return nil
}

// Blocks returns the reassembled per-AL blocks, keyed by AL. The map has
// no order; Order gives the first-seen order of AL.
func (a *Assembler) Blocks() map[byte]*Block {
	return a.blocks
}

// Order returns the AL values in the order their first envelope arrived.
func (a *Assembler) Order() []byte {
	return append([]byte(nil), a.order...)
}

// AssembleAll is a convenience wrapper: feed every envelope in envs
// through a fresh Assembler and return its blocks.
func AssembleAll(envs []Envelope, opts Options) (map[byte]*Block, []error) {
	a := NewAssembler(opts)
	var errs []error
	for _, e := range envs {
		if err := a.Feed(e); err != nil {
			errs = append(errs, err)
		}
	}
	return a.Blocks(), errs
}
