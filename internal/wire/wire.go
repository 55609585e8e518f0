// Package wire implements the exact byte-level contracts a renderer
// collaborator consumes: the contiguous little-endian float32 layout of
// a solved potential field, and an FNV-1a fingerprint over that payload
// for reproducibility checks. The layout is pinned down to specific
// bytes, so both are implemented directly on the standard library
// rather than through a third-party codec.
package wire

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
)

// EncodePhi serializes phi as contiguous little-endian float32, with no
// header — the exact layout the renderer collaborator expects.
func EncodePhi(phi []float32) []byte {
	buf := make([]byte, len(phi)*4)
	for i, v := range phi {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// DecodePhi parses a buffer produced by EncodePhi back into a float32
// slice. It returns an error if the buffer length isn't a multiple of 4.
func DecodePhi(buf []byte) ([]float32, error) {
	if len(buf)%4 != 0 {
		return nil, fmt.Errorf("wire: buffer length %d is not a multiple of 4", len(buf))
	}
	phi := make([]float32, len(buf)/4)
	for i := range phi {
		bits := binary.LittleEndian.Uint32(buf[i*4:])
		phi[i] = math.Float32frombits(bits)
	}
	return phi, nil
}

// Fingerprint computes the 8-hex-digit FNV-1a fingerprint of phi: the
// hash runs over phi encoded as little-endian float32 bytes, prefixed by
// the 4-byte little-endian length. Metadata is never included.
func Fingerprint(phi []float32) string {
	h := fnv.New32a()

	var lenPrefix [4]byte
	binary.LittleEndian.PutUint32(lenPrefix[:], uint32(len(phi)*4))
	h.Write(lenPrefix[:])

	h.Write(EncodePhi(phi))

	return fmt.Sprintf("%08x", h.Sum32())
}
