package hayes

import (
	"fmt"
	"strconv"
)

// Result is the abstract outcome of a command or link event. Each
// outcome maps to a verbose phrase and a legacy numeric code; codes
// 5, 9 and 10 are intentionally unused, matching the historical
// standard.
type Result int

const (
	ResultOK Result = iota
	ResultConnect
	ResultRing
	ResultNoCarrier
	ResultError
	// ResultConnectBaud is CONNECT qualified by the configured link
	// bit rate; its rendering depends on the verbose preference.
	ResultConnectBaud
	ResultNoDialtone
	ResultBusy
	ResultNoAnswer
	ResultRinging
)

// String returns the verbose result phrase.
func (r Result) String() string {
	switch r {
	case ResultOK:
		return "OK"
	case ResultConnect, ResultConnectBaud:
		return "CONNECT"
	case ResultRing:
		return "RING"
	case ResultNoCarrier:
		return "NO CARRIER"
	case ResultError:
		return "ERROR"
	case ResultNoDialtone:
		return "NO DIALTONE"
	case ResultBusy:
		return "BUSY"
	case ResultNoAnswer:
		return "NO ANSWER"
	case ResultRinging:
		return "RINGING"
	default:
		return "Unknown"
	}
}

// code returns the legacy numeric result code.
func (r Result) code() int {
	switch r {
	case ResultOK:
		return 0
	case ResultConnect, ResultConnectBaud:
		return 1
	case ResultRing:
		return 2
	case ResultNoCarrier:
		return 3
	case ResultNoDialtone:
		return 6
	case ResultBusy:
		return 7
	case ResultNoAnswer:
		return 8
	case ResultRinging:
		return 11
	default:
		return 4 // ERROR
	}
}

// connectCodes maps a link bit rate to its historical USRobotics
// terse result code. Lookup is exact-match only; unmapped rates fall
// back to the plain CONNECT code.
var connectCodes = map[int]int{
	56000: 232,
	54666: 228,
	53333: 224,
	52000: 220,
	50666: 216,
	49333: 212,
	48000: 208,
	46666: 204,
	45333: 200,
	44000: 196,
	42666: 192,
	41333: 188,
	37333: 184,
	33333: 180,
	33600: 155,
	31200: 151,
	28800: 107,
	26400: 103,
	24000: 99,
	21600: 91,
	19200: 85,
	16800: 43,
	14400: 25,
	12000: 21,
	7200:  20,
	4800:  18,
	1200:  15,
	9600:  13,
	2400:  10,
}

// report renders an outcome to the output sink, honoring the quiet
// and verbose preferences.
func (m *Modem) report(r Result) {
	if m.prefs.quiet {
		return
	}
	if r == ResultConnectBaud {
		m.reportConnectBaud()
		return
	}
	if m.prefs.verbose {
		m.print(r.String())
		return
	}
	m.print(strconv.Itoa(r.code()))
}

func (m *Modem) reportConnectBaud() {
	if m.prefs.verbose {
		m.print(fmt.Sprintf("CONNECT %d", m.bitRate))
		return
	}
	code, ok := connectCodes[m.bitRate]
	if !ok {
		code = ResultConnect.code()
	}
	m.print(strconv.Itoa(code))
}
