// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adhoc

import (
	"errors"

	"code.hybscloud.com/iox"
)

var (
	// ErrInvalidArgument reports a nil Consumer/Producer or an out-of-range option.
	ErrInvalidArgument = errors.New("adhoc: invalid argument")

	// ErrUnexpectedPackEnd reports that a Consumer accepted a packet id but
	// handed back a nil LeafDst, leaving the receiver with nothing to drive.
	// The stream is treated as corrupt from this point on.
	ErrUnexpectedPackEnd = errors.New("adhoc: unexpected end of pack")

	// ErrInvalidUTF8 reports that the streaming string decoder rejected its
	// input. Receiver.GetString returns it to the calling leaf codec after
	// clearing its partial string; the Receiver itself neither discards the
	// packet nor resets its frame stack.
	ErrInvalidUTF8 = errors.New("adhoc: invalid utf-8 in string field")

	// ErrVarintOverflow reports a varint with more continuation bytes than its
	// encoding allows: more than 5 for u4, more than 10 for u8.
	ErrVarintOverflow = errors.New("adhoc: varint overflow")

	// ErrTooLong reports a sized-varint payload, string, or collection length that
	// exceeds what its length-prefix width class can represent.
	ErrTooLong = errors.New("adhoc: value too long for its wire encoding")
)

// ErrWouldBlock and ErrMore are non-blocking control-flow signals from
// code.hybscloud.com/iox, re-exported for callers of Receiver.Write and
// Transmitter.Read.
//
//   - ErrWouldBlock: Transmitter.Read returns (0, ErrWouldBlock) when the
//     producer has nothing to send and no byte was written. A Read that stops
//     mid-packet because p is full returns (n, nil), and Receiver.Write never
//     returns ErrWouldBlock: a Write that ends mid-packet returns (n, nil)
//     with state preserved for the next call.
//   - ErrMore: neither Receiver.Write nor Transmitter.Read returns it.
var (
	ErrWouldBlock = iox.ErrWouldBlock
	ErrMore       = iox.ErrMore
)
