package kiss

import (
	"bufio"
	"bytes"
	"io"
)

// KISS protocol constants
const (
	FEND  byte = 0xC0 // Frame End
	FESC  byte = 0xDB // Frame Escape
	TFEND byte = 0xDC // Transposed Frame End
	TFESC byte = 0xDD // Transposed Frame Escape

	cmdData byte = 0x00 // data frame on port 0
)

// Decoder reads KISS frames from an io.Reader
type Decoder struct {
	r       *bufio.Reader
	frame   bytes.Buffer
	inFrame bool
}

// NewDecoder creates a new KISS frame decoder
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// ReadFrame reads a single, complete, un-escaped KISS frame including the
// command byte. Partial frames survive a read error and resume on the next call.
func (d *Decoder) ReadFrame() ([]byte, error) {
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			return nil, err
		}

		switch {
		case b == FEND:
			if d.inFrame && d.frame.Len() > 0 {
				out := append([]byte(nil), d.frame.Bytes()...)
				d.frame.Reset()
				return out, nil
			}
			// Start of frame, or FEND FEND padding.
			d.inFrame = true

		case !d.inFrame:
			// Line noise between frames.

		case b == FESC:
			next, err := d.r.ReadByte()
			if err != nil {
				return nil, err
			}
			switch next {
			case TFEND:
				d.frame.WriteByte(FEND)
			case TFESC:
				d.frame.WriteByte(FESC)
			default:
				// Protocol error; keep the byte.
				d.frame.WriteByte(next)
			}

		default:
			d.frame.WriteByte(b)
		}
	}
}

// EncodeFrame wraps an AX.25 frame as a KISS data frame for port 0.
func EncodeFrame(ax25 []byte) []byte {
	out := make([]byte, 0, len(ax25)+4)
	out = append(out, FEND, cmdData)
	for _, b := range ax25 {
		switch b {
		case FEND:
			out = append(out, FESC, TFEND)
		case FESC:
			out = append(out, FESC, TFESC)
		default:
			out = append(out, b)
		}
	}
	return append(out, FEND)
}
