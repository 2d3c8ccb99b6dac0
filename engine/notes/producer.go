package notes

// PassStatus is the result of one pagination step reported by a NoteProducer.
// It is either "finished" with the number of records remaining in the buffer,
// or "has more notes" asserting the buffer was filled to capacity.
type PassStatus struct {
	hasMore   bool
	remaining uint32
}

// Finished reports that the producer is exhausted and wrote remaining records
// into the buffer. remaining must not exceed the buffer's capacity.
//
// Parameters:
//   - remaining: the number of records written, all of which should be drawn
//
// Returns:
//   - PassStatus: the finished status
func Finished(remaining uint32) PassStatus {
	return PassStatus{remaining: remaining}
}

// HasMoreNotes reports that the producer filled the entire buffer and more
// records remain for a subsequent pagination step.
//
// Returns:
//   - PassStatus: the has-more status
func HasMoreNotes() PassStatus {
	return PassStatus{hasMore: true}
}

// HasMore returns true if the producer has records left beyond this step.
func (s PassStatus) HasMore() bool {
	return s.hasMore
}

// Remaining returns the record count of a finished step. Only meaningful when
// HasMore() is false.
func (s PassStatus) Remaining() uint32 {
	return s.remaining
}

// NoteProducer supplies note records to the render pass one buffer at a time.
// The orchestrator calls FillBuffer repeatedly within a frame until the
// producer reports Finished.
type NoteProducer interface {
	// FillBuffer writes 0..len(buf) note records into buf in ascending time
	// order and reports how the step ended. The producer must not retain buf
	// beyond the call. Returning HasMoreNotes asserts that exactly len(buf)
	// records were written; returning Finished(n) asserts n <= len(buf).
	//
	// Parameters:
	//   - buf: the destination buffer, sized to the pass's buffer capacity
	//
	// Returns:
	//   - PassStatus: Finished with the written count, or HasMoreNotes
	FillBuffer(buf []NoteVertex) PassStatus
}

// KeyView supplies the per-key horizontal extents used to position notes for
// one frame. Implementations write one entry per key id, in key-id order,
// covering the table's full size.
type KeyView interface {
	// KeyPositions overwrites table with the current per-key extents.
	//
	// Parameters:
	//   - table: the destination table, one entry per key id
	KeyPositions(table *[KeyTableSize]KeyPosition)
}
