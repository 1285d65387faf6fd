package objectlog

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/shiguredo-webrtc-build/moqt-build/internal/moq"
	"github.com/shiguredo-webrtc-build/moqt-build/pkg/id"
)

// Record encoding: varint headerLen | cbor header | payload | crc32c(header|payload)
// The payload may be zstd-compressed; the header carries the flag.

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// Header is the stored envelope metadata accompanying each payload.
type Header struct {
	Subgroup          uint64           `cbor:"1,keyasint"`
	PublisherPriority moq.Priority     `cbor:"2,keyasint"`
	Status            moq.ObjectStatus `cbor:"3,keyasint"`
	Ingest            []byte           `cbor:"4,keyasint"`
	Compressed        bool             `cbor:"5,keyasint,omitempty"`
}

// IngestID decodes the stamped ingest identifier.
func (h Header) IngestID() id.IngestID {
	var out id.IngestID
	copy(out[:], h.Ingest)
	return out
}

var (
	zstdOnce sync.Once
	zstdEnc  *zstd.Encoder
	zstdDec  *zstd.Decoder
)

func zstdInit() {
	zstdOnce.Do(func() {
		zstdEnc, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
		zstdDec, _ = zstd.NewReader(nil)
	})
}

// Codec encodes and decodes stored records with an optional compression
// policy for buffered payloads.
type Codec struct {
	// CompressMinBytes enables zstd compression for payloads at or above
	// this size. Zero disables compression.
	CompressMinBytes int
}

// Encode frames a header and payload into a stored record value.
func (c Codec) Encode(h Header, payload []byte) ([]byte, error) {
	if c.CompressMinBytes > 0 && len(payload) >= c.CompressMinBytes {
		zstdInit()
		compressed := zstdEnc.EncodeAll(payload, make([]byte, 0, len(payload)/2))
		// keep the original when compression does not pay off
		if len(compressed) < len(payload) {
			payload = compressed
			h.Compressed = true
		}
	}
	hdr, err := cbor.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("objectlog: encode header: %w", err)
	}

	out := make([]byte, 0, 10+len(hdr)+len(payload)+4)
	var tmp [10]byte
	n := binary.PutUvarint(tmp[:], uint64(len(hdr)))
	out = append(out, tmp[:n]...)
	out = append(out, hdr...)
	out = append(out, payload...)

	crc := crc32.Update(0, castagnoli, hdr)
	crc = crc32.Update(crc, castagnoli, payload)
	var crcb [4]byte
	binary.BigEndian.PutUint32(crcb[:], crc)
	out = append(out, crcb[:]...)
	return out, nil
}

// Decoded is a parsed stored record.
type Decoded struct {
	Header  Header
	Payload []byte
}

// Decode parses a stored record value, verifying the checksum and expanding
// compressed payloads.
func (c Codec) Decode(b []byte) (Decoded, bool) {
	if len(b) < 1+4 {
		return Decoded{}, false
	}
	hlen, n := binary.Uvarint(b)
	if n <= 0 || int(n)+int(hlen)+4 > len(b) {
		return Decoded{}, false
	}
	hdr := b[n : n+int(hlen)]
	payload := b[n+int(hlen) : len(b)-4]
	expect := binary.BigEndian.Uint32(b[len(b)-4:])
	crc := crc32.Update(0, castagnoli, hdr)
	crc = crc32.Update(crc, castagnoli, payload)
	if crc != expect {
		return Decoded{}, false
	}

	var h Header
	if err := cbor.Unmarshal(hdr, &h); err != nil {
		return Decoded{}, false
	}
	out := append([]byte(nil), payload...)
	if h.Compressed {
		zstdInit()
		expanded, err := zstdDec.DecodeAll(out, nil)
		if err != nil {
			return Decoded{}, false
		}
		out = expanded
		h.Compressed = false
	}
	return Decoded{Header: h, Payload: out}, true
}
