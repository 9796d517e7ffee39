package pattern

// Phrase is the opaque event-stream byte run held on behalf of a track or
// section. It is a plain byte slice — no field within it is ever
// interpreted by this module — given its own name only so call sites
// read as "phrase bytes", not "some bytes".
type Phrase = []byte

// CloneBytes returns an independently-owned copy of b. The qy70 decoder
// uses this where a byte run crosses from a borrowed input buffer
// (the buffer passed into a decoder is borrowed for the duration of the
// call and never retained) into a Pattern, Section, or Track field that
// the Pattern subsequently owns exclusively.
func CloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
