package snapshot

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/kailas-cloud/assetq/internal/domain"
	domsnap "github.com/kailas-cloud/assetq/internal/domain/snapshot"
)

// Codec names accepted by configuration.
const (
	CodecJSON   = "json"
	CodecPacked = "packed"
)

const (
	// packedMagic identifies the packed snapshot format.
	packedMagic   = "AQSN"
	packedVersion = 1
	// maxRawSize bounds the decompressed size declared in a header.
	maxRawSize = 512 << 20
)

// header prefixes packed payloads.
type header struct {
	Magic    [4]byte
	Version  uint8
	Flags    uint8
	Reserved [2]byte
	RawLen   uint32
}

// Codec encodes snapshots for the KV store.
type Codec interface {
	Name() string
	Encode(s *domsnap.Snapshot) ([]byte, error)
	Decode(data []byte) (domsnap.Snapshot, error)
}

// NewCodec returns the codec for name. Empty selects JSON.
func NewCodec(name string) (Codec, error) {
	switch name {
	case "", CodecJSON:
		return JSONCodec{}, nil
	case CodecPacked:
		return PackedCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown snapshot codec %q", name)
	}
}

// Decode detects the format from the payload and decodes it with the matching codec.
func Decode(data []byte) (domsnap.Snapshot, error) {
	if bytes.HasPrefix(data, []byte(packedMagic)) {
		return PackedCodec{}.Decode(data)
	}
	return JSONCodec{}.Decode(data)
}

// JSONCodec stores snapshots as plain JSON.
type JSONCodec struct{}

// Name returns "json".
func (JSONCodec) Name() string { return CodecJSON }

// Encode marshals s to JSON.
func (JSONCodec) Encode(s *domsnap.Snapshot) ([]byte, error) {
	data, err := json.Marshal(toPayload(s))
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// Decode unmarshals a JSON snapshot.
func (JSONCodec) Decode(data []byte) (domsnap.Snapshot, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return domsnap.Snapshot{}, fmt.Errorf("%w: %w", domain.ErrSnapshotCorrupt, err)
	}
	return p.toDomain(), nil
}

// PackedCodec stores snapshots as an lz4-compressed msgpack block behind a fixed header.
type PackedCodec struct{}

// Name returns "packed".
func (PackedCodec) Name() string { return CodecPacked }

// Encode marshals s to msgpack and compresses it.
func (PackedCodec) Encode(s *domsnap.Snapshot) ([]byte, error) {
	raw, err := msgpack.Marshal(toPayload(s))
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	if len(raw) > maxRawSize {
		return nil, fmt.Errorf("snapshot too large: %d bytes", len(raw))
	}

	compressed := make([]byte, lz4.CompressBlockBound(len(raw)))
	var hashTable [1 << 16]int
	n, err := lz4.CompressBlock(raw, compressed, hashTable[:])
	if err != nil {
		return nil, fmt.Errorf("compress snapshot: %w", err)
	}

	h := header{Version: packedVersion, RawLen: uint32(len(raw))}
	copy(h.Magic[:], packedMagic)
	body := compressed[:n]
	if n == 0 {
		// incompressible input is kept as is
		h.Flags = flagStored
		body = raw
	}

	var buf bytes.Buffer
	buf.Grow(binary.Size(h) + len(body))
	if err := binary.Write(&buf, binary.LittleEndian, h); err != nil {
		return nil, fmt.Errorf("write snapshot header: %w", err)
	}
	buf.Write(body)
	return buf.Bytes(), nil
}

// flagStored marks a payload kept uncompressed.
const flagStored = 1

// Decode validates the header, decompresses and unmarshals a packed snapshot.
func (PackedCodec) Decode(data []byte) (domsnap.Snapshot, error) {
	r := bytes.NewReader(data)
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return domsnap.Snapshot{}, fmt.Errorf("%w: read header: %w", domain.ErrSnapshotCorrupt, err)
	}
	if string(h.Magic[:]) != packedMagic {
		return domsnap.Snapshot{}, fmt.Errorf("%w: expected %s, got %q", domain.ErrSnapshotCorrupt, packedMagic, h.Magic[:])
	}
	if h.Version != packedVersion {
		return domsnap.Snapshot{}, fmt.Errorf("%w: unsupported version %d", domain.ErrSnapshotCorrupt, h.Version)
	}
	if h.RawLen > maxRawSize {
		return domsnap.Snapshot{}, fmt.Errorf("%w: declared size %d too large", domain.ErrSnapshotCorrupt, h.RawLen)
	}

	body := data[len(data)-r.Len():]
	raw := body
	if h.Flags&flagStored == 0 {
		raw = make([]byte, h.RawLen)
		n, err := lz4.UncompressBlock(body, raw)
		if err != nil {
			return domsnap.Snapshot{}, fmt.Errorf("%w: decompress: %w", domain.ErrSnapshotCorrupt, err)
		}
		if n != int(h.RawLen) {
			return domsnap.Snapshot{}, fmt.Errorf("%w: size mismatch %d != %d", domain.ErrSnapshotCorrupt, n, h.RawLen)
		}
	}

	var p payload
	if err := msgpack.Unmarshal(raw, &p); err != nil {
		return domsnap.Snapshot{}, fmt.Errorf("%w: %w", domain.ErrSnapshotCorrupt, err)
	}
	return p.toDomain(), nil
}
