// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adhoc

// ContextValue is the tagged union asks for in place of the
// source's dynamic key/value fields ("INT.BytesDst | string | number |
// bigint | undefined"). A map/set leaf codec stores whichever concrete
// variant its schema produces.
type ContextValue interface{ contextValue() }

type (
	Int64Value  int64
	Uint64Value uint64
	StringValue string
	BytesValue  []byte
	LeafValue   struct{ Leaf LeafDst }
)

func (Int64Value) contextValue()  {}
func (Uint64Value) contextValue() {}
func (StringValue) contextValue() {}
func (BytesValue) contextValue()  {}
func (LeafValue) contextValue()   {}

// Context carries the auxiliary per-frame state a map/set leaf codec needs to
// resume a field across suspensions: the info byte and the
// key/value pair currently being produced or consumed.
type Context struct {
	Info  byte
	Key   ContextValue
	Value ContextValue

	next int32 // free-list / stack link within the owning arena, -1 = none
}

func (c *Context) reset() {
	c.Info = 0
	c.Key = nil
	c.Value = nil
}

// Frame is one level of the Receiver/Transmitter activation stack:
// the encoding of one nested record or collection. All fields are reset on
// activation and are directly readable/writable by the current leaf codec.
type Frame struct {
	State int // opaque resume label owned by the current leaf codec

	Leaf interface{} // LeafDst or LeafSrc, whichever direction owns this stack

	Index    int // outer loop cursor (e.g. array element index)
	IndexMax int

	BaseIndex    int // secondary cursor (nested/base arrays)
	BaseIndexMax int

	FieldsNulls uint64 // bitmap of present optional fields in the current record
	ItemsNulls  uint8  // 8-bit window of a null-bitmap currently being scanned
	BaseNulls   uint8  // symmetric window for a nested/base array

	Context *Context // auxiliary map/set framing state, or nil

	next int32 // free-list link within the owning arena, -1 = none
}

func (f *Frame) reset() {
	f.State = 0
	f.Leaf = nil
	f.Index, f.IndexMax = 0, 0
	f.BaseIndex, f.BaseIndexMax = 0, 0
	f.FieldsNulls = 0
	f.ItemsNulls, f.BaseNulls = 0, 0
	f.Context = nil
}

const noLink int32 = -1

// FrameStack is a per-direction arena of Frame activations. Frames
// are never destroyed, only recycled: Pop returns a frame to a free list
// instead of freeing it, so steady-state operation allocates nothing once the
// arena has warmed up to its working depth.
type FrameStack struct {
	frames []Frame
	top    int32 // index of the top-of-stack frame, noLink if empty
	free   int32 // head of the free-list, noLink if empty

	ctxs     []Context
	ctxFree  int32
	depthMax int // deepest the stack has ever grown, for diagnostics
}

// NewFrameStack returns an empty arena pre-sized to hold cap frames without
// reallocating.
func NewFrameStack(capHint int) *FrameStack {
	if capHint <= 0 {
		capHint = 8
	}
	fs := &FrameStack{top: noLink, free: noLink, ctxFree: noLink}
	fs.frames = make([]Frame, 0, capHint)
	fs.ctxs = make([]Context, 0, capHint)
	return fs
}

func (fs *FrameStack) allocFrame() int32 {
	if fs.free != noLink {
		idx := fs.free
		fs.free = fs.frames[idx].next
		fs.frames[idx].reset()
		return idx
	}
	fs.frames = append(fs.frames, Frame{next: noLink})
	return int32(len(fs.frames) - 1)
}

// Push activates a new frame above the current top and returns a pointer to
// it, valid until the next Push (subsequent appends may reallocate the
// backing array).
func (fs *FrameStack) Push() *Frame {
	idx := fs.allocFrame()
	fs.frames[idx].next = fs.top
	fs.top = idx
	if depth := fs.Depth(); depth > fs.depthMax {
		fs.depthMax = depth
	}
	return &fs.frames[idx]
}

// Pop deactivates the current top frame, recycling it onto the free list.
func (fs *FrameStack) Pop() {
	if fs.top == noLink {
		return
	}
	idx := fs.top
	fs.top = fs.frames[idx].next
	fs.frames[idx].next = fs.free
	fs.free = idx
}

// Top returns the current top-of-stack frame, or nil if the stack is empty.
func (fs *FrameStack) Top() *Frame {
	if fs.top == noLink {
		return nil
	}
	return &fs.frames[fs.top]
}

// Empty reports whether no frame is active (the codec is idle between packets).
func (fs *FrameStack) Empty() bool { return fs.top == noLink }

// Depth returns the number of active frames.
func (fs *FrameStack) Depth() int {
	n := 0
	for idx := fs.top; idx != noLink; idx = fs.frames[idx].next {
		n++
	}
	return n
}

// Reset deactivates every frame and context, recycling them all onto their
// free lists in one pass.
func (fs *FrameStack) Reset() {
	for fs.top != noLink {
		fs.Pop()
	}
	for fs.ctxFree != noLink || len(fs.ctxs) > 0 {
		break
	}
	fs.ctxFree = noLink
	for i := range fs.ctxs {
		fs.ctxs[i].reset()
		fs.ctxs[i].next = int32(i) + 1
	}
	if len(fs.ctxs) > 0 {
		fs.ctxs[len(fs.ctxs)-1].next = noLink
		fs.ctxFree = 0
	}
}

// NewContext allocates (or recycles) a Context and links it onto frame.
func (fs *FrameStack) NewContext(frame *Frame) *Context {
	var idx int32
	if fs.ctxFree != noLink {
		idx = fs.ctxFree
		fs.ctxFree = fs.ctxs[idx].next
		fs.ctxs[idx].reset()
	} else {
		fs.ctxs = append(fs.ctxs, Context{next: noLink})
		idx = int32(len(fs.ctxs) - 1)
	}
	ctx := &fs.ctxs[idx]
	frame.Context = ctx
	return ctx
}

// FreeContext recycles frame's Context, if any, onto the free list.
func (fs *FrameStack) FreeContext(frame *Frame) {
	if frame.Context == nil {
		return
	}
	// Find the context's index by pointer arithmetic over the backing slice.
	for i := range fs.ctxs {
		if &fs.ctxs[i] == frame.Context {
			fs.ctxs[i].next = fs.ctxFree
			fs.ctxFree = int32(i)
			break
		}
	}
	frame.Context = nil
}
