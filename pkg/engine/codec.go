package engine

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"

	"github.com/aretw0/docbridge/pkg/core"
)

// Frame layout: magic(4) | version(1) | mode(1) | blake3-256(payload)(32) | payload.
// The payload is CBOR-encoded []Change, zstd-compressed in snapshot mode.
const (
	frameVersion = 1
	headerSize   = 4 + 1 + 1 + 32
)

var frameMagic = [4]byte{'D', 'B', 'R', 'G'}

// ErrMalformed is returned when imported bytes cannot be decoded.
var ErrMalformed = errors.New("malformed update bytes")

var (
	encMode cbor.EncMode
	decMode cbor.DecMode

	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("engine: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
		IntDec:         cbor.IntDecConvertSigned,
	}.DecMode()
	if err != nil {
		panic("engine: CBOR decoder initialization failed: " + err.Error())
	}

	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("engine: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("engine: zstd decoder initialization failed: " + err.Error())
	}
}

func encodeChanges(changes []Change, mode core.ExportMode) ([]byte, error) {
	if changes == nil {
		changes = []Change{}
	}
	payload, err := encMode.Marshal(changes)
	if err != nil {
		return nil, fmt.Errorf("encode changes: %w", err)
	}
	if mode == core.ModeSnapshot {
		payload = zstdEncoder.EncodeAll(payload, nil)
	}

	sum := blake3.Sum256(payload)
	out := make([]byte, 0, headerSize+len(payload))
	out = append(out, frameMagic[:]...)
	out = append(out, frameVersion, byte(mode))
	out = append(out, sum[:]...)
	out = append(out, payload...)
	return out, nil
}

func decodeChanges(data []byte) ([]Change, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrMalformed, len(data))
	}
	if !bytes.Equal(data[:4], frameMagic[:]) {
		return nil, fmt.Errorf("%w: bad magic", ErrMalformed)
	}
	if data[4] != frameVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrMalformed, data[4])
	}
	mode := core.ExportMode(data[5])
	payload := data[headerSize:]
	if sum := blake3.Sum256(payload); !bytes.Equal(sum[:], data[6:headerSize]) {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrMalformed)
	}

	switch mode {
	case core.ModeUpdates:
	case core.ModeSnapshot:
		raw, err := zstdDecoder.DecodeAll(payload, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %v", ErrMalformed, err)
		}
		payload = raw
	default:
		return nil, fmt.Errorf("%w: unknown mode %d", ErrMalformed, mode)
	}

	var changes []Change
	if err := decMode.Unmarshal(payload, &changes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return changes, nil
}
