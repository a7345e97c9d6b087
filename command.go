package hayes

import "strings"

// commandFn handles one sub-command starting at line[i], which is the
// command character itself. It returns how many characters it
// consumed, counting the command character, and whether processing of
// the rest of the line stops.
type commandFn func(m *Modem, line []byte, i int) (advance int, stop bool)

var commandTable = map[byte]commandFn{
	'A': (*Modem).cmdAnswer,
	'D': (*Modem).cmdDial,
	'E': (*Modem).cmdEcho,
	'H': (*Modem).cmdHangup,
	'I': (*Modem).cmdInquire,
	'O': (*Modem).cmdOnline,
	'Q': (*Modem).cmdQuiet,
	'S': (*Modem).cmdRegister,
	'V': (*Modem).cmdVerbose,
	'X': (*Modem).cmdReportLevel,
	'Z': (*Modem).cmdReset,
	'&': (*Modem).cmdVendor,
	'$': (*Modem).cmdListCommands,
}

// execute runs one completed command line. The AT attention sequence
// is not part of the line. Sub-commands are dispatched left to right;
// each handler reports its own result, so a chained line produces one
// result per sub-command.
func (m *Modem) execute(line []byte) {
	m.metrics.Commands++
	if len(line) == 0 {
		m.report(ResultOK)
		return
	}
	i := 0
	for i < len(line) {
		h, ok := commandTable[line[i]]
		if !ok {
			if !isLetter(line[i]) {
				i++
				continue
			}
			h = (*Modem).cmdStub
		}
		advance, stop := h(m, line, i)
		if stop {
			return
		}
		i += advance
	}
}

// cmdFlag implements the E/Q/V boolean commands. A missing suffix
// applies the off variant before reporting, so a bare V acknowledges
// tersely and a bare Q un-silences its own OK. With a suffix present
// the result is reported before the preference changes, so switching
// quiet mode on still acknowledges the command that did it; an invalid
// suffix applies the off variant and is left for the next command.
func (m *Modem) cmdFlag(line []byte, i int, set func(bool)) (int, bool) {
	if i+1 == len(line) {
		set(false)
		m.report(ResultOK)
		return 1, false
	}
	m.report(ResultOK)
	if line[i+1] != '0' && line[i+1] != '1' {
		set(false)
		return 1, false
	}
	set(line[i+1] == '1')
	return 2, false
}

func (m *Modem) cmdEcho(line []byte, i int) (int, bool) {
	return m.cmdFlag(line, i, func(v bool) { m.prefs.echo = v })
}

func (m *Modem) cmdQuiet(line []byte, i int) (int, bool) {
	return m.cmdFlag(line, i, func(v bool) { m.prefs.quiet = v })
}

func (m *Modem) cmdVerbose(line []byte, i int) (int, bool) {
	return m.cmdFlag(line, i, func(v bool) { m.prefs.verbose = v })
}

// cmdReportLevel implements ATX: a digit 0-7 selects the result
// reporting level, anything else resets it to 0 and is left for the
// next command.
func (m *Modem) cmdReportLevel(line []byte, i int) (int, bool) {
	if i+1 < len(line) && isDigit(line[i+1]) && line[i+1] <= '7' {
		m.prefs.report = line[i+1] - '0'
		m.report(ResultOK)
		return 2, false
	}
	m.prefs.report = 0
	m.report(ResultOK)
	return 1, false
}

// cmdAnswer implements ATA. Answering always succeeds: off-hook,
// in-call, OK. Any argument other than 0 is left for the next
// command.
func (m *Modem) cmdAnswer(line []byte, i int) (int, bool) {
	advance := 1
	if i+1 < len(line) {
		if line[i+1] != '0' {
			return 1, false
		}
		advance = 2
	}
	m.onHook = false
	m.inCall = true
	m.report(ResultOK)
	return advance, false
}

// cmdHangup implements ATH. The bare form always goes on-hook and
// drops the call, reporting OK whether or not a call was active,
// matching physical-modem behavior. H0/H1 move just the hook relay,
// silently.
func (m *Modem) cmdHangup(line []byte, i int) (int, bool) {
	if i+1 < len(line) && (line[i+1] == '0' || line[i+1] == '1') {
		m.onHook = line[i+1] == '0'
		return 2, false
	}
	m.onHook = true
	m.inCall = false
	m.report(ResultOK)
	return 1, false
}

// cmdOnline implements ATO: return to online mode. Terminates the
// line either way.
func (m *Modem) cmdOnline(line []byte, i int) (int, bool) {
	if m.onHook || !m.inCall {
		m.report(ResultNoCarrier)
		return len(line) - i, true
	}
	m.online = true
	m.report(ResultOK)
	return len(line) - i, true
}

// cmdReset implements ATZ. Restart is expected not to return; if it
// does, the rest of the line is discarded.
func (m *Modem) cmdReset(line []byte, i int) (int, bool) {
	m.restarter.Restart()
	return len(line) - i, true
}

// cmdInquire implements ATIn; the numeric argument is mandatory.
func (m *Modem) cmdInquire(line []byte, i int) (int, bool) {
	if i+1 == len(line) {
		m.report(ResultError)
		return 1, false
	}
	if !isDigit(line[i+1]) {
		m.report(ResultError)
		return 2, false
	}
	code, n := parseDigits(line, i+1)
	if !m.inquire(code) {
		m.report(ResultError)
		return 1 + n, false
	}
	m.report(ResultOK)
	return 1 + n, false
}

// cmdRegister implements ATS: ATSn? queries, ATSn=v assigns, ATS$
// lists. Reserved indices and malformed forms report ERROR; the
// malformed forms discard the remainder of the line.
func (m *Modem) cmdRegister(line []byte, i int) (int, bool) {
	if i+1 == len(line) {
		m.report(ResultError)
		return 1, false
	}
	if line[i+1] == '$' {
		m.print("Sn? Sn=v S$")
		m.report(ResultOK)
		return 2, false
	}
	if !isDigit(line[i+1]) {
		m.report(ResultError)
		return len(line) - i, true
	}
	reg, n := parseDigits(line, i+1)
	if reservedRegister(int(reg)) {
		m.report(ResultError)
		return len(line) - i, true
	}
	j := i + 1 + n
	if j == len(line) {
		m.report(ResultError)
		return len(line) - i, true
	}
	switch line[j] {
	case '?':
		m.print(m.formatRegister(int(reg)))
		m.report(ResultOK)
		return j + 1 - i, false
	case '=':
		if charRegister(int(reg)) {
			if j+1 == len(line) {
				m.report(ResultError)
				return len(line) - i, true
			}
			m.sregs[reg] = line[j+1]
			m.report(ResultOK)
			return j + 2 - i, false
		}
		v, vn := parseDigits(line, j+1)
		m.sregs[reg] = v
		m.report(ResultOK)
		return j + 1 + vn - i, false
	default:
		m.report(ResultError)
		return len(line) - i, true
	}
}

// dialModifiers are the characters legal inside a dial string besides
// the digits themselves: pauses, waits, auxiliary tone digits, the
// stay-in-command-mode terminator and separators.
const dialModifiers = ",@.W#!$&;*\"-"

// cmdDial implements ATD. Dialing always terminates the line;
// whatever follows the dial string is never re-entered into the
// chain.
func (m *Modem) cmdDial(line []byte, i int) (int, bool) {
	if i+1 == len(line) {
		m.report(ResultError)
		return 1, true
	}
	switch c := line[i+1]; {
	case c == 'L':
		// Redial the last number.
		m.onHook = false
		m.dial(true)
	case c == 'P' || c == 'R' || c == 'T':
		m.dialNumber(line, i+2)
	case isDigit(c):
		// A bare digit run dials touch-tone.
		m.dialNumber(line, i+1)
	case c == 'S':
		// Stored-number dialing needs a phonebook; not available.
		m.report(ResultError)
	case c == '$':
		m.print("DL DPn DRn DTn DS D$")
		m.report(ResultOK)
	default:
		m.report(ResultError)
	}
	return len(line) - i, true
}

// dialNumber scans a dial string, honoring ';' (remain in command
// mode after dialing) and accumulating pause time per S8 for each
// ','/'W'/'@' modifier, then dials.
func (m *Modem) dialNumber(line []byte, i int) {
	goOnline := true
	pause := 0
	for ; i < len(line); i++ {
		c := line[i]
		if !isDigit(c) && strings.IndexByte(dialModifiers, c) < 0 {
			break
		}
		switch c {
		case ';':
			goOnline = false
		case ',', 'W', '@':
			pause += int(m.sregs[8])
		}
	}
	m.onHook = false
	m.dialPause = pause
	m.dial(goOnline)
}

// dial marks the link in-call and reports the negotiated rate. The
// actual transport is the bridge's concern, not the emulator's.
func (m *Modem) dial(goOnline bool) {
	m.inCall = true
	m.online = goOnline
	m.report(ResultConnectBaud)
}

// cmdVendor implements the AT& extension prefix. Only &F (factory
// reset) and &$ (vendor command list) are implemented.
func (m *Modem) cmdVendor(line []byte, i int) (int, bool) {
	if i+1 == len(line) {
		m.report(ResultError)
		return 1, false
	}
	switch line[i+1] {
	case 'F':
		if i+2 == len(line) {
			m.report(ResultError)
			return 2, false
		}
		if line[i+2] != '0' {
			// Reported as an error, but the reset proceeds anyway,
			// matching observed hardware behavior.
			m.report(ResultError)
		}
		m.restarter.Restart()
		return len(line) - i, true
	case '$':
		m.print("&F0 &$")
		m.report(ResultOK)
		return len(line) - i, true
	default:
		m.report(ResultError)
		return 2, false
	}
}

// cmdListCommands implements AT$: list the base command set.
func (m *Modem) cmdListCommands(line []byte, i int) (int, bool) {
	m.print("A D E H I O Q S V X Z & $")
	m.report(ResultOK)
	return len(line) - i, true
}

// cmdStub covers otherwise unimplemented letter commands such as L
// (speaker volume) and M (speaker mode): a single digit argument is
// accepted, anything else is an error.
func (m *Modem) cmdStub(line []byte, i int) (int, bool) {
	if i+1 < len(line) && isDigit(line[i+1]) {
		m.report(ResultOK)
		return 2, false
	}
	m.report(ResultError)
	return 1, false
}
