package payterm

import "log"

// SequenceSource yields the sequence number for the next outbound
// request. The terminal tracks continuity per device, so deriving the
// next value must not race across concurrent transactions; the engine
// serializes calls per device before consulting this.
type SequenceSource interface {
	NextSequence() string
}

type logSequenceSource struct {
	store      LogStore
	deviceID   string
	defaultSeq string
}

// NewLogSequenceSource derives the next sequence from the latest
// logged response for the device, falling back to the configured
// default when there is no decodable history.
func NewLogSequenceSource(store LogStore, deviceID, defaultSeq string) SequenceSource {
	return &logSequenceSource{store: store, deviceID: deviceID, defaultSeq: defaultSeq}
}

func (s *logSequenceSource) NextSequence() string {
	latest, err := s.store.Latest(s.deviceID)
	if err != nil {
		// Never block issuance on the lookup; the fallback is visible
		// in the log for diagnosis.
		log.Printf("sequence lookup failed for device %s, using default: %v", s.deviceID, err)
		return s.defaultSeq
	}
	if latest == nil || latest.ResponseDocument == nil {
		return s.defaultSeq
	}
	resp, err := DecodeResponse([]byte(*latest.ResponseDocument))
	if err != nil || resp.SequenceNo == "" {
		return s.defaultSeq
	}
	return resp.SequenceNo
}
