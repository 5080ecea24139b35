// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adhoc

import "time"

// Options configures a Receiver or Transmitter.
type Options struct {
	// InitialFrameCapacity pre-sizes the frame arena to avoid reallocating
	// while nesting depth warms up. Zero uses a small built-in default.
	InitialFrameCapacity int

	// RetryDelay records a retry/wait policy for an adapter that sees
	// ErrWouldBlock from the underlying transport:
	//   - negative: nonblock, return ErrWouldBlock immediately
	//   - zero: yield (runtime.Gosched) and retry
	//   - positive: sleep for the duration and retry
	// Receiver, Transmitter and the loopback package do not read it: their
	// Write, Read and PumpOnce never wait or retry.
	RetryDelay time.Duration
}

var defaultOptions = Options{
	InitialFrameCapacity: 8,
	RetryDelay:           -1,
}

// Option configures a Receiver or Transmitter at construction time.
type Option func(*Options)

// WithInitialFrameCapacity pre-sizes the frame arena.
func WithInitialFrameCapacity(n int) Option {
	return func(o *Options) { o.InitialFrameCapacity = n }
}

// WithRetryDelay sets Options.RetryDelay.
func WithRetryDelay(d time.Duration) Option {
	return func(o *Options) { o.RetryDelay = d }
}

// WithBlock sets RetryDelay to zero, the yield-and-retry policy.
func WithBlock() Option {
	return func(o *Options) { o.RetryDelay = 0 }
}

// WithNonblock sets RetryDelay to -1, the return-immediately policy.
func WithNonblock() Option {
	return func(o *Options) { o.RetryDelay = -1 }
}
