package hayes

import (
	"fmt"
	"strings"
)

const (
	modelName   = "ESP_SR"
	romChecksum = "A0B1"
)

const (
	pnpBegin = '('
	pnpSep   = '\\'
	pnpEnd   = ')'
)

// Identity is the Plug-and-Play identity record reported by ATI9, per
// the Microsoft External COM Device Specification. It is static
// configuration, immutable after session construction.
type Identity struct {
	UpperRev  byte
	LowerRev  byte
	EisaID    string
	ProductID string
	SerialNo  string
	ClassID   string
	DeviceID  string
	UserName  string
}

func defaultIdentity() Identity {
	return Identity{
		UpperRev:  0x01,
		LowerRev:  0x24,
		EisaID:    "ESP",
		ProductID: "ESRH",
		SerialNo:  "00000000",
		ClassID:   "MODEM",
		DeviceID:  "ESPESRH,ATM1152",
		UserName:  "espbridge Hayes-compatible modem",
	}
}

// serialize renders the record in the abbreviated PnP COM device
// form.
func (id Identity) serialize() string {
	return fmt.Sprintf("%c%d%d%s%s%c%c%s%c%s%c",
		pnpBegin, id.UpperRev, id.LowerRev, id.EisaID, id.ProductID,
		pnpSep, pnpSep, id.ClassID, pnpSep, id.DeviceID, pnpEnd)
}

// inquire emits the informational payload for ATIn. It returns false
// for unknown codes, which the dispatcher turns into ERROR.
func (m *Modem) inquire(code byte) bool {
	switch code {
	case 0:
		m.print(modelName)
	case 1:
		m.print(romChecksum)
	case 2:
		// RAM test: nothing beyond the OK result.
	case 3:
		m.print(m.fwVersion)
	case 4:
		m.printSettings()
	case 5, 6, 7, 10, 11:
		// NVRAM and link-diagnostic listings: accepted, no payload.
	case 9:
		m.print(m.id.serialize())
	case 19:
		m.printDiagnostics()
	default:
		return false
	}
	return true
}

// printSettings emits the ATI4 settings dump: preferences, link
// parameters and all accessible S-registers.
func (m *Modem) printSettings() {
	m.print(modelName + " Settings...")
	m.print(fmt.Sprintf("E%d L2 M1 Q%d V%d X%d",
		b2i(m.prefs.echo), b2i(m.prefs.quiet), b2i(m.prefs.verbose), m.prefs.report))
	m.print(fmt.Sprintf("BAUD=%d PARITY=N WORDLEN=8", m.bitRate))
	hook := "ON"
	if !m.onHook {
		hook = "OFF"
	}
	m.print(fmt.Sprintf("DIAL=HUNT %s HOOK TIMER", hook))

	var row []string
	for n := 0; n <= 38; n++ {
		if reservedRegister(n) {
			continue
		}
		row = append(row, fmt.Sprintf("S%02d=%03d", n, m.sregs[n]))
		if len(row) == 8 {
			m.print(strings.Join(row, "  "))
			row = row[:0]
		}
	}
	if len(row) > 0 {
		m.print(strings.Join(row, "  "))
	}
}

// printDiagnostics emits the ATI19 dump of the command buffer and
// link state. The dump reflects live state: the line being executed
// is still in the buffer.
func (m *Modem) printDiagnostics() {
	m.print(fmt.Sprintf("E%dQ%dV%dX%d",
		b2i(m.prefs.echo), b2i(m.prefs.quiet), b2i(m.prefs.verbose), m.prefs.report))
	m.print(fmt.Sprintf("cmdbuf=%q len=%d lastlen=%d lchr=%q",
		m.cmdBuf[:m.cmdLen], m.cmdLen, m.lastLen, m.lastChar))
	m.print(fmt.Sprintf("online=%d on-hook=%d in-call=%d in-cmd=%d n-escs=%d",
		b2i(m.online), b2i(m.onHook), b2i(m.inCall), b2i(m.inCommand), m.escCount))
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
