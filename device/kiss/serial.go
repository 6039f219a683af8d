package kiss

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// connectSerial opens a connection to a serial KISS TNC
func connectSerial(devicePath string, baud int) (io.ReadWriteCloser, error) {
	if devicePath == "" {
		return nil, fmt.Errorf("no device path (e.g., /dev/ttyUSB0 or COM3) provided for KISS serial")
	}

	port, err := serial.Open(devicePath, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", devicePath, err)
	}

	// Reads time out so Close can interrupt a quiet port.
	if err := port.SetReadTimeout(1 * time.Second); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}

	return retryingPort{port}, nil
}

// retryingPort hides read timeouts (0 bytes, nil error) from bufio, which
// gives up with io.ErrNoProgress after too many empty reads.
type retryingPort struct {
	serial.Port
}

func (p retryingPort) Read(b []byte) (int, error) {
	for {
		n, err := p.Port.Read(b)
		if n > 0 || err != nil {
			return n, err
		}
	}
}
