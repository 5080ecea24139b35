// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package loopback wires a Transmitter directly to a Receiver through an
// in-memory buffer, for testing schemas and harnesses without a real
// transport.
package loopback

import (
	"io"

	"code.hybscloud.com/adhoc"
)

// Loopback pumps bytes a Transmitter produces straight into a Receiver.
//
// PumpOnce is not reentrant: a second call made while one is already in
// flight returns immediately without touching tx or rx, rather than
// interleaving two partial pumps into the same Receiver. The in-flight flag
// is released only once the full read-then-write pump for this call has
// completed (including the write into rx), not as soon as the read half
// finishes -- releasing it early would let a reentrant call start writing
// into rx while this call's write is still outstanding, corrupting rx's
// single in-flight primitive state.
type Loopback struct {
	Tx *adhoc.Transmitter
	Rx *adhoc.Receiver

	buf     []byte
	pumping bool
}

// New returns a Loopback with an internal transfer buffer of bufSize bytes
// (at least 1).
func New(tx *adhoc.Transmitter, rx *adhoc.Receiver, bufSize int) *Loopback {
	if bufSize < 1 {
		bufSize = 4096
	}
	return &Loopback{Tx: tx, Rx: rx, buf: make([]byte, bufSize)}
}

// PumpOnce drains whatever Tx has queued (up to one buffer's worth) into Rx.
//
// n is the number of bytes moved. (0, adhoc.ErrWouldBlock) means Tx had
// nothing queued; (0, nil) is also what a call made while another PumpOnce
// is in flight returns. Any other error aborts
// the pump and should be treated as fatal to both sides, matching
// Receiver/Transmitter's own "state is corrupt past this point" contract.
func (l *Loopback) PumpOnce() (n int, err error) {
	if l.pumping {
		return 0, nil
	}
	l.pumping = true
	defer func() { l.pumping = false }()

	rn, rerr := l.Tx.Read(l.buf)
	if rn == 0 {
		return 0, rerr
	}
	wn, werr := l.Rx.Write(l.buf[:rn])
	if werr != nil {
		return wn, werr
	}
	if wn != rn {
		return wn, io.ErrShortWrite
	}
	if rerr != nil && rerr != adhoc.ErrWouldBlock {
		return rn, rerr
	}
	return rn, nil
}

// PumpUntilBlocked calls PumpOnce repeatedly until Tx reports ErrWouldBlock,
// returning the total bytes moved. Any other error stops the loop and is
// returned directly.
func (l *Loopback) PumpUntilBlocked() (total int, err error) {
	for {
		n, err := l.PumpOnce()
		total += n
		if err == nil && n > 0 {
			continue
		}
		if err == adhoc.ErrWouldBlock {
			return total, nil
		}
		return total, err
	}
}
