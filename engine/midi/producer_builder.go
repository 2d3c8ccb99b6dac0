package midi

// StreamProducerOption is a functional option applied during NewStreamProducer.
type StreamProducerOption func(*streamProducer)

// WithKeyRange limits the producer to notes within the inclusive key range
// [firstKey, lastKey]. Notes outside the range are skipped entirely. If
// firstKey > lastKey the two are swapped.
//
// Parameters:
//   - firstKey: the lowest emitted key
//   - lastKey: the highest emitted key
//
// Returns:
//   - StreamProducerOption: a function that applies the key range option
func WithKeyRange(firstKey, lastKey uint8) StreamProducerOption {
	return func(p *streamProducer) {
		if firstKey > lastKey {
			firstKey, lastKey = lastKey, firstKey
		}
		p.firstKey = firstKey
		p.lastKey = lastKey
	}
}
