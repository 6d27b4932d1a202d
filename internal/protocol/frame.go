// Package protocol implements the game wire format: each message is a UTF-8
// string preceded by its byte length as a big-endian uint16. Requests are
// colon separated "verb:arg:arg".
package protocol

import (
	"encoding/binary"
	"errors"
	"io"
)

const MaxFrame = 1<<16 - 1

var ErrFrameTooLarge = errors.New("frame_too_large")

func ReadFrame(r io.Reader) (string, error) {
	var head [2]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return "", err
	}
	buf := make([]byte, binary.BigEndian.Uint16(head[:]))
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return "", err
	}
	return string(buf), nil
}

// WriteFrame writes s as one frame with a single Write call.
func WriteFrame(w io.Writer, s string) error {
	if len(s) > MaxFrame {
		return ErrFrameTooLarge
	}
	buf := make([]byte, 2+len(s))
	binary.BigEndian.PutUint16(buf, uint16(len(s)))
	copy(buf[2:], s)
	_, err := w.Write(buf)
	return err
}
