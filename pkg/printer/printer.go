package printer

import (
	"context"
	"net"
	"os"
	"time"

	"github.com/pkg/errors"
)

// Printer sends raw ESC/POS data to a thermal printer
type Printer interface {
	Print(ctx context.Context, data []byte) error
	// IsConnected probes the device without printing
	IsConnected(ctx context.Context) bool
	Close() error
}

// Device kinds accepted by New
const (
	KindUSB     = "usb"
	KindNetwork = "network"
	KindNone    = "none"
)

// usbPrinter writes to a device file such as /dev/usb/lp0, opened per job
type usbPrinter struct {
	path string
}

func NewUSBPrinter(devicePath string) Printer {
	return &usbPrinter{path: devicePath}
}

func (p *usbPrinter) Print(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return errors.Wrapf(err, "printer: open %s", p.path)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return errors.Wrapf(err, "printer: write %s", p.path)
	}
	return nil
}

func (p *usbPrinter) IsConnected(context.Context) bool {
	_, err := os.Stat(p.path)
	return err == nil
}

func (p *usbPrinter) Close() error { return nil }

// networkPrinter dials a raw TCP port (usually 9100) per job
type networkPrinter struct {
	address      string
	dialer       net.Dialer
	writeTimeout time.Duration
}

// NewNetworkPrinter connects to address, e.g. "192.168.1.100:9100"
func NewNetworkPrinter(address string) Printer {
	return &networkPrinter{
		address:      address,
		dialer:       net.Dialer{Timeout: 5 * time.Second},
		writeTimeout: 10 * time.Second,
	}
}

func (p *networkPrinter) Print(ctx context.Context, data []byte) error {
	conn, err := p.dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return errors.Wrapf(err, "printer: connect %s", p.address)
	}
	defer conn.Close()

	deadline := time.Now().Add(p.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)

	if _, err := conn.Write(data); err != nil {
		return errors.Wrapf(err, "printer: write %s", p.address)
	}
	return nil
}

func (p *networkPrinter) IsConnected(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	conn, err := p.dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (p *networkPrinter) Close() error { return nil }

// ErrNoPrinter is returned by the null printer so callers can tell the
// receipt was not printed
var ErrNoPrinter = errors.New("printer: no printer configured")

type nullPrinter struct{}

func NewNullPrinter() Printer { return nullPrinter{} }

func (nullPrinter) Print(context.Context, []byte) error { return ErrNoPrinter }
func (nullPrinter) IsConnected(context.Context) bool    { return false }
func (nullPrinter) Close() error                        { return nil }

// New builds the printer for kind: usb needs usbPath, network needs address
func New(kind, usbPath, address string) (Printer, error) {
	switch kind {
	case KindUSB:
		if usbPath == "" {
			return nil, errors.New("printer: PRINTER_USB_PATH is required for usb printers")
		}
		return NewUSBPrinter(usbPath), nil
	case KindNetwork:
		if address == "" {
			return nil, errors.New("printer: PRINTER_ADDRESS is required for network printers")
		}
		return NewNetworkPrinter(address), nil
	case KindNone, "":
		return NewNullPrinter(), nil
	}
	return nil, errors.Errorf("printer: unknown type %q (use usb, network or none)", kind)
}
