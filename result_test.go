package hayes

import "testing"

func TestResultString(t *testing.T) {
	tests := []struct {
		r    Result
		want string
	}{
		{ResultOK, "OK"},
		{ResultConnect, "CONNECT"},
		{ResultRing, "RING"},
		{ResultNoCarrier, "NO CARRIER"},
		{ResultError, "ERROR"},
		{ResultConnectBaud, "CONNECT"},
		{ResultNoDialtone, "NO DIALTONE"},
		{ResultBusy, "BUSY"},
		{ResultNoAnswer, "NO ANSWER"},
		{ResultRinging, "RINGING"},
		{Result(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.r.String(); got != tt.want {
			t.Errorf("Result(%d).String() = %q, want %q", tt.r, got, tt.want)
		}
	}
}

func TestResultCodes(t *testing.T) {
	// Codes 5, 9 and 10 are intentionally unused.
	want := map[Result]int{
		ResultOK:         0,
		ResultConnect:    1,
		ResultRing:       2,
		ResultNoCarrier:  3,
		ResultError:      4,
		ResultNoDialtone: 6,
		ResultBusy:       7,
		ResultNoAnswer:   8,
		ResultRinging:    11,
	}
	for r, code := range want {
		if got := r.code(); got != code {
			t.Errorf("%v.code() = %d, want %d", r, got, code)
		}
	}
}

func TestReport(t *testing.T) {
	t.Run("verbose", func(t *testing.T) {
		m, out, _, _ := testModem(t)
		m.report(ResultNoCarrier)
		if got := out.String(); got != "NO CARRIER\r" {
			t.Errorf("output = %q, want %q", got, "NO CARRIER\r")
		}
	})

	t.Run("terse", func(t *testing.T) {
		m, out, _, _ := testModem(t)
		m.prefs.verbose = false
		m.report(ResultNoCarrier)
		if got := out.String(); got != "3\r" {
			t.Errorf("output = %q, want %q", got, "3\r")
		}
	})

	t.Run("quiet suppresses everything", func(t *testing.T) {
		m, out, _, _ := testModem(t)
		m.prefs.quiet = true
		m.report(ResultError)
		m.report(ResultConnectBaud)
		if out.Len() != 0 {
			t.Errorf("output = %q, want nothing", out.String())
		}
	})
}

func TestReportConnectBaud(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		bitRate int
		want    string
	}{
		{"verbose includes rate", true, 19200, "CONNECT 19200\r"},
		{"verbose unmapped rate", true, 115200, "CONNECT 115200\r"},
		{"terse mapped rate", false, 19200, "85\r"},
		{"terse top rate", false, 56000, "232\r"},
		{"terse legacy rate", false, 2400, "10\r"},
		{"terse unmapped rate falls back", false, 115200, "1\r"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, out, _, _ := testModem(t)
			m.prefs.verbose = tt.verbose
			m.bitRate = tt.bitRate
			m.report(ResultConnectBaud)
			if got := out.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}
