// Command hayesd bridges a serial device or PTY to a TCP packet peer
// through the Hayes AT-command emulator. The front end talks to the
// emulated modem; once online, data bytes pass through to the peer.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"

	"github.com/aymanbagabas/go-pty"
	"github.com/jessevdk/go-flags"
	"go.bug.st/serial"

	"github.com/espbridge/hayes"
)

type options struct {
	Device   string `short:"d" long:"device" description:"serial device to attach to (e.g. /dev/ttyUSB0)"`
	Baud     int    `short:"b" long:"baud" default:"19200" description:"serial baud rate"`
	Pty      bool   `short:"p" long:"pty" description:"create a PTY front end instead of opening a serial device"`
	Connect  string `short:"c" long:"connect" required:"true" description:"TCP address of the packet peer"`
	Online   bool   `long:"online" description:"boot directly into online mode"`
	Firmware string `long:"firmware" default:"1.2.4" description:"firmware version reported by ATI3"`
	LogLevel string `long:"log-level" default:"info" choice:"debug" choice:"info" choice:"warn" choice:"error" description:"log level"`
}

// connSink forwards flushed escape bytes to the packet peer.
type connSink struct {
	conn net.Conn
	log  *slog.Logger
}

func (s *connSink) Forward(b byte) {
	if _, err := s.conn.Write([]byte{b}); err != nil {
		s.log.Error("peer write failed", "error", err)
	}
}

// sessionRestarter stands in for a hardware restart: it
// marks the session for an in-process rebuild. Restart is only ever
// called from within ReceiveByte on the bridge goroutine, so a plain
// flag is enough.
type sessionRestarter struct {
	requested bool
}

func (r *sessionRestarter) Restart() {
	r.requested = true
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	switch opts.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	front, err := openFrontEnd(&opts)
	if err != nil {
		logger.Error("front end setup failed", "error", err)
		os.Exit(1)
	}
	defer front.Close()

	peer, err := net.Dial("tcp", opts.Connect)
	if err != nil {
		logger.Error("peer connection failed", "address", opts.Connect, "error", err)
		os.Exit(1)
	}
	defer peer.Close()
	logger.Info("bridge up", "peer", opts.Connect)

	if err := run(front, peer, logger, &opts); err != nil {
		logger.Error("bridge terminated", "error", err)
		os.Exit(1)
	}
}

// openFrontEnd opens the serial device, or creates a PTY and prints
// its path for clients to attach to.
func openFrontEnd(opts *options) (io.ReadWriteCloser, error) {
	if opts.Pty == (opts.Device != "") {
		return nil, errors.New("exactly one of --device or --pty is required")
	}
	if opts.Pty {
		p, err := pty.New()
		if err != nil {
			return nil, fmt.Errorf("create pty: %w", err)
		}
		fmt.Printf("tty path: %s\n", p.Name())
		return p, nil
	}
	port, err := serial.Open(opts.Device, &serial.Mode{BaudRate: opts.Baud})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", opts.Device, err)
	}
	return port, nil
}

// run owns the modem session: it feeds front-end bytes to ReceiveByte
// one at a time, forwards unhandled online bytes to the peer, and
// relays peer traffic back to the front end while online.
func run(front io.ReadWriteCloser, peer net.Conn, logger *slog.Logger, opts *options) error {
	restart := &sessionRestarter{}
	cfg := hayes.ModemConfig{
		Output:          front,
		Sink:            &connSink{conn: peer, log: logger},
		Restarter:       restart,
		BitRate:         opts.Baud,
		FirmwareVersion: opts.Firmware,
		BootOnline:      opts.Online,
	}
	m, err := hayes.NewModem(&cfg)
	if err != nil {
		return fmt.Errorf("create modem: %w", err)
	}

	frontCh := readBytes(front)
	peerCh := readBytes(peer)

	for {
		select {
		case b, ok := <-frontCh:
			if !ok {
				logger.Info("front end closed")
				return nil
			}
			if !m.ReceiveByte(b) {
				if _, err := peer.Write([]byte{b}); err != nil {
					return fmt.Errorf("peer write: %w", err)
				}
			}
			if restart.requested {
				restart.requested = false
				logger.Info("restart requested, rebuilding session")
				if m, err = hayes.NewModem(&cfg); err != nil {
					return fmt.Errorf("rebuild modem: %w", err)
				}
			}
		case b, ok := <-peerCh:
			if !ok {
				logger.Info("peer closed")
				return nil
			}
			if m.Online() {
				if _, err := front.Write([]byte{b}); err != nil {
					return fmt.Errorf("front end write: %w", err)
				}
			}
		}
	}
}

// readBytes pumps single bytes from r into a channel so the bridge
// loop can own all modem state on one goroutine.
func readBytes(r io.Reader) <-chan byte {
	ch := make(chan byte)
	go func() {
		defer close(ch)
		buf := make([]byte, 1)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				ch <- buf[0]
			}
			if err != nil {
				return
			}
		}
	}()
	return ch
}
