package hayes

import "fmt"

// registerCount is the size of the S-register file. Indices up to 38
// are potentially accessible; see reservedRegister.
const registerCount = 40

// Character-typed register indices. These hold a raw character code
// rather than a numeric magnitude.
const (
	regEscape    = 2 // escape character, default '+'
	regCR        = 3 // carriage return character
	regLF        = 4 // line feed character
	regBackspace = 5 // backspace character
	regXon       = 22
	regXoff      = 23
)

// setupRegisters loads the documented power-on defaults.
func (m *Modem) setupRegisters() {
	for i := range m.sregs {
		m.sregs[i] = 0
	}
	m.sregs[regEscape] = '+'
	m.sregs[regCR] = '\r'
	m.sregs[regLF] = '\n'
	m.sregs[regBackspace] = 8
	m.sregs[regXon] = 17  // DC1
	m.sregs[regXoff] = 19 // DC3

	// S0: auto-answer after N rings
	// S1: count of rings from inbound calls
	m.sregs[6] = 2   // S6:  wait time before blind dialing, seconds
	m.sregs[7] = 60  // S7:  wait time for carrier signal, seconds
	m.sregs[8] = 2   // S8:  pause time per dial-string comma, seconds
	m.sregs[9] = 6   // S9:  carrier detect time, 1/10 second
	m.sregs[10] = 7  // S10: carrier loss wait time, 1/10 second
	m.sregs[11] = 70 // S11: tone duration and interval, milliseconds
	m.sregs[12] = 50 // S12: escape code guard time, half-seconds
	m.sregs[21] = 10 // S21: break time, 1/100 second
	m.sregs[25] = 5  // S25: DTR recognition time, 1/100 second
}

// reservedRegister reports whether S-register n is reserved or
// unimplemented. Reserved indices are rejected on every access.
func reservedRegister(n int) bool {
	switch {
	case n == 14 || n == 15 || n == 17 || n == 20 || n == 24:
		return true
	case n >= 26 && n <= 37:
		return true
	case n > 38:
		return true
	}
	return false
}

// charRegister reports whether S-register n holds a raw character
// code. Character registers are assigned the literal byte supplied
// and are never range-checked beyond byte width.
func charRegister(n int) bool {
	return (n >= regEscape && n <= regBackspace) || n == regXon || n == regXoff
}

// formatRegister renders a register for an ATSn? query: Snn=vvv for
// numeric registers, Snn=c for character registers.
func (m *Modem) formatRegister(n int) string {
	if charRegister(n) {
		return fmt.Sprintf("S%02d=%c", n, m.sregs[n])
	}
	return fmt.Sprintf("S%02d=%03d", n, m.sregs[n])
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

// parseDigits reads up to three consecutive decimal digits from line
// starting at i. It returns the parsed value saturated to one byte
// and the number of digits consumed; no digits yields (0, 0).
func parseDigits(line []byte, i int) (byte, int) {
	v, n := 0, 0
	for n < 3 && i+n < len(line) && isDigit(line[i+n]) {
		v = v*10 + int(line[i+n]-'0')
		n++
	}
	if v > 255 {
		v = 255
	}
	return byte(v), n
}
