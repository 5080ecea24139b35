// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package adhoc implements a resumable, streaming binary wire codec.
//
// A Receiver and Transmitter each drive a stack of schema-specific leaf
// decoders/encoders (LeafDst/LeafSrc) across arbitrary chunk boundaries: a
// call to Write or Read may stop partway through a packet when its input or
// output runs out, and the next call picks up exactly where the last one
// left off. Neither type blocks or spawns goroutines, and neither allocates
// frames once its frame arena has warmed up to the working nesting depth;
// string fields still allocate on each GetString and WriteString.
//
// Application code never touches the wire format directly. It implements
// Consumer/Producer to allocate packet destinations/sources by id, and
// LeafDst/LeafSrc (generated or hand-written per schema) to read or write
// each field using the primitives on *Receiver and *Transmitter: GetFixed,
// GetVarint4/8, GetString, GetBits, and their Put/Write counterparts on the
// transmit side.
//
// The bitslist subpackage provides the bit-packed list types (List,
// NullableList, BoolNullList) used for dense array fields; Receiver and
// Transmitter also import it directly, sharing BoolNullList's tri-bool
// encoding for the inline optional-bool bit-stream primitive rather than
// hand-rolling a second copy of the same 2-bit mapping.
package adhoc
