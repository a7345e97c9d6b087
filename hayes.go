// Package hayes implements a Hayes/V.250 AT-command emulator for a
// serial-to-packet bridge. It interprets command lines arriving one
// byte at a time from a serial link, maintains the S-register and
// preference model, emits standard result codes, and arbitrates
// between command mode and online mode, including the +++ escape
// sequence with flush-back of aborted escape bytes.
//
// The core is synchronous and single-owner: one call to
// Modem.ReceiveByte per received byte, no internal goroutines and no
// locking. The caller owns the receive loop and forwards online data
// bytes to the packet interface whenever ReceiveByte returns false.
//
// Example usage:
//
//	m, err := hayes.NewModem(&hayes.ModemConfig{
//		Output:  tty,
//		Sink:    packetSink,
//		BitRate: 19200,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	for {
//		b := readByte(tty)
//		if !m.ReceiveByte(b) {
//			packetSink.Forward(b)
//		}
//	}
package hayes

import (
	"errors"
	"io"
)

var (
	// ErrConfigRequired is returned when a required configuration
	// parameter is missing.
	ErrConfigRequired = errors.New("config required")
)

// lineCapacity is the fixed command-line buffer size. Receiving a
// 41st character aborts the line with an ERROR result.
const lineCapacity = 40

const defaultBitRate = 19200

// Restarter is the external restart collaborator invoked by ATZ and
// AT&F. Restart is expected not to return; if it does, processing of
// the current command line stops and no further state is touched.
type Restarter interface {
	Restart()
}

// DataSink receives bytes destined for the packet interface. The
// modem itself only uses it to flush escape characters that turn out
// not to complete an escape sequence; ordinary online traffic is
// forwarded by the caller when ReceiveByte returns false.
type DataSink interface {
	Forward(b byte)
}

// ModemConfig contains the configuration parameters for creating a
// new modem session. Output and Sink are required; other fields have
// reasonable defaults.
type ModemConfig struct {
	// Output receives character echo and all result and
	// informational text (required).
	Output io.Writer
	// Sink receives flushed escape bytes (required).
	Sink DataSink
	// Restarter handles ATZ and AT&F restarts. Defaults to a no-op.
	Restarter Restarter
	// BitRate is the link bit rate reported by CONNECT results
	// (default: 19200).
	BitRate int
	// FirmwareVersion is the version string reported by ATI3.
	FirmwareVersion string
	// Identity overrides the default Plug-and-Play identity record
	// reported by ATI9.
	Identity *Identity
	// BootOnline starts the session off-hook, in-call and online,
	// for links that come up with an established connection. The
	// default is command mode, on-hook.
	BootOnline bool
}

// Metrics contains cumulative counters for a modem session.
type Metrics struct {
	// RxBytes is the total number of bytes consumed by ReceiveByte.
	RxBytes int
	// TxBytes is the total number of bytes emitted to the output sink.
	TxBytes int
	// ForwardedBytes is the total number of escape bytes flushed to
	// the data sink.
	ForwardedBytes int
	// Commands is the total number of command lines executed,
	// including A/ replays.
	Commands int
}

// Modem is one emulated modem session. It owns the preference and
// S-register model, the command-line buffer and the call/link state.
// All state is mutated in place by the single processing context;
// Modem must not be shared between goroutines.
type Modem struct {
	out       io.Writer
	sink      DataSink
	restarter Restarter
	bitRate   int
	fwVersion string
	id        Identity

	prefs prefs
	sregs [registerCount]byte

	cmdBuf    [lineCapacity]byte
	cmdLen    int
	lastLen   int
	lastChar  byte
	inCommand bool

	onHook   bool
	inCall   bool
	online   bool
	inEscape bool
	escCount int

	// dialPause is the pause time in seconds accumulated from the
	// ','/'W'/'@' modifiers of the last dial string. Recorded but
	// not enforced as a delay.
	dialPause int

	metrics Metrics
}

type prefs struct {
	echo    bool
	quiet   bool
	verbose bool
	report  byte
}

type nopRestarter struct{}

func (nopRestarter) Restart() {}

// NewModem creates a new modem session with the specified
// configuration. The session starts with echo on, verbose results,
// report level 7 and the documented S-register defaults.
//
// Returns ErrConfigRequired if config is nil or a required field is
// missing.
func NewModem(config *ModemConfig) (*Modem, error) {
	if config == nil {
		return nil, ErrConfigRequired
	}
	if config.Output == nil || config.Sink == nil {
		return nil, ErrConfigRequired
	}

	m := &Modem{
		out:       config.Output,
		sink:      config.Sink,
		restarter: config.Restarter,
		bitRate:   config.BitRate,
		fwVersion: config.FirmwareVersion,
		id:        defaultIdentity(),
	}
	if m.restarter == nil {
		m.restarter = nopRestarter{}
	}
	if m.bitRate == 0 {
		m.bitRate = defaultBitRate
	}
	if m.fwVersion == "" {
		m.fwVersion = "0.0.0"
	}
	if config.Identity != nil {
		m.id = *config.Identity
	}

	m.prefs = prefs{echo: true, verbose: true, report: 7}
	m.setupRegisters()

	if config.BootOnline {
		m.inCall = true
		m.online = true
	} else {
		m.onHook = true
	}
	return m, nil
}

// ReceiveByte consumes one byte from the serial link. It returns true
// when the byte was fully handled, and false when the caller must
// forward the byte to the data sink itself; any pending escape
// characters have already been flushed by then.
func (m *Modem) ReceiveByte(c byte) bool {
	m.metrics.RxBytes++
	if !m.online {
		m.recv(c)
		return true
	}
	if c == m.sregs[regEscape] {
		if m.inEscape && m.escCount == 2 {
			m.inEscape = false
			m.escCount = 0
			m.online = false
			m.report(ResultOK)
			return true
		}
		m.inEscape = true
		m.escCount++
		return true
	}
	if m.inEscape {
		// Not an escape sequence after all: the pending escape bytes
		// are data and must reach the link.
		m.inEscape = false
		for ; m.escCount > 0; m.escCount-- {
			m.forward(m.sregs[regEscape])
		}
	}
	return false
}

// recv handles one byte while in command mode: line entry, backspace
// editing and AT/A/ attention detection.
func (m *Modem) recv(c byte) {
	m.echoByte(c)
	switch {
	case m.inCommand:
		switch {
		case c == m.sregs[regCR]:
			m.execute(m.cmdBuf[:m.cmdLen])
			m.inCommand = false
			m.lastLen = m.cmdLen
			m.cmdLen = 0
		case c == m.sregs[regBackspace]:
			if m.cmdLen > 0 {
				m.cmdLen--
			}
			// Removal does not record the backspace itself.
			return
		case m.cmdLen == lineCapacity:
			m.report(ResultError)
			m.inCommand = false
			m.lastLen = 0
			m.cmdLen = 0
		default:
			m.cmdBuf[m.cmdLen] = c
			m.cmdLen++
		}
	case m.lastChar == 'A':
		switch c {
		case '/':
			// Replay the previous command line. The buffer still
			// holds it; only the length was reset.
			m.inCommand = true
			m.cmdLen = m.lastLen
			m.execute(m.cmdBuf[:m.cmdLen])
			m.inCommand = false
			m.cmdLen = 0
		case 'T':
			// Attention recognized; neither the A nor the T is
			// stored in the buffer.
			m.inCommand = true
		}
	}
	m.lastChar = c
}

// echoByte echoes a received character back to the output sink when
// the echo preference is enabled. A line feed immediately following a
// carriage return is swallowed to avoid double-advancing the terminal
// on CR-LF pairs.
func (m *Modem) echoByte(c byte) {
	if !m.prefs.echo {
		return
	}
	if c == m.sregs[regLF] && m.lastChar == m.sregs[regCR] {
		return
	}
	m.emit(c)
}

func (m *Modem) emit(c byte) {
	// The output sink is assumed always ready.
	_, _ = m.out.Write([]byte{c})
	m.metrics.TxBytes++
}

// print emits s followed by the configured carriage return character.
func (m *Modem) print(s string) {
	for k := 0; k < len(s); k++ {
		m.emit(s[k])
	}
	m.emit(m.sregs[regCR])
}

func (m *Modem) forward(c byte) {
	m.sink.Forward(c)
	m.metrics.ForwardedBytes++
}

// Online reports whether the session is in online (data-forwarding)
// mode.
func (m *Modem) Online() bool {
	return m.online
}

// OnHook reports whether the emulated hook relay is on-hook.
func (m *Modem) OnHook() bool {
	return m.onHook
}

// InCall reports whether a call is active.
func (m *Modem) InCall() bool {
	return m.inCall
}

// Metrics returns a snapshot of the session counters.
func (m *Modem) Metrics() Metrics {
	return m.metrics
}
