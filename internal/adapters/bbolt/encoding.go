// Binary encoding for run report blobs.
//
// A run is stored as two values: the summary, msgpack-encoded, and the match
// list as a packed little-endian array. Match lists dominate the size of a
// report, so they skip the generic codec.
//
// Match list format (little-endian):
//
//	version:    uint8 (matchFormatV1)
//	matchCount: uint32
//	matches:    [matchCount]× (PatternID:uint32 + Start:uint32 + End:uint32)
package bbolt

import (
	"encoding/binary"
	"fmt"

	"github.com/corey/gapseek/internal/ports"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	matchFormatV1 = 1
	headerSize    = 5
	recordSize    = 12
)

// encodeMatches packs matches into a single pre-sized buffer.
func encodeMatches(matches []ports.MatchRecord) []byte {
	buf := make([]byte, headerSize+len(matches)*recordSize)
	buf[0] = matchFormatV1
	binary.LittleEndian.PutUint32(buf[1:], uint32(len(matches)))

	offset := headerSize
	for _, m := range matches {
		binary.LittleEndian.PutUint32(buf[offset:], m.PatternID)
		binary.LittleEndian.PutUint32(buf[offset+4:], m.Start)
		binary.LittleEndian.PutUint32(buf[offset+8:], m.End)
		offset += recordSize
	}
	return buf
}

// decodeMatches unpacks a match list. Every read is bounds-checked to avoid
// panics on corrupt data.
func decodeMatches(data []byte) ([]ports.MatchRecord, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("match list too short: %d bytes", len(data))
	}
	if data[0] != matchFormatV1 {
		return nil, fmt.Errorf("unknown match list version %d", data[0])
	}
	count := binary.LittleEndian.Uint32(data[1:])
	need := headerSize + int(count)*recordSize
	if len(data) < need {
		return nil, fmt.Errorf("truncated match list: have %d bytes, need %d", len(data), need)
	}

	matches := make([]ports.MatchRecord, count)
	offset := headerSize
	for i := range matches {
		matches[i].PatternID = binary.LittleEndian.Uint32(data[offset:])
		matches[i].Start = binary.LittleEndian.Uint32(data[offset+4:])
		matches[i].End = binary.LittleEndian.Uint32(data[offset+8:])
		offset += recordSize
	}
	return matches, nil
}

func encodeSummary(s *ports.RunSummary) ([]byte, error) {
	return msgpack.Marshal(s)
}

func decodeSummary(data []byte) (*ports.RunSummary, error) {
	var s ports.RunSummary
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
