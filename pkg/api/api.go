// Package api defines the wire protocol between the viewer and the
// capture backend.
//
// Each packet is a single binary WebSocket message of the form:
//
//	 t - 1 byte, one of the predefined packet types;
//	 h - fixed little-endian header (frame packets only);
//	 p - raw payload.
//
// A frame packet carries width, height and the backend-reported frame
// rate in the header, followed by width*height*4 bytes of RGBA pixels
// with no padding between rows. Rate 0 means the backend did not report
// a value for this frame.
package api

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
)

type PT uint8

// Packet codes:
//
//	1xx - viewer requests
//	2xx - backend responses
const (
	FrameGet PT = 101
	Frame    PT = 201
	Error    PT = 202
)

func (p PT) String() string {
	switch p {
	case FrameGet:
		return "FrameGet"
	case Frame:
		return "Frame"
	case Error:
		return "Error"
	}
	return strconv.Itoa(int(p))
}

// RateUnknown is the on-wire value for an omitted frame rate.
const RateUnknown uint32 = 0

// frame packet header: type + width + height + rate
const frameHeaderLen = 1 + 4 + 4 + 4

var (
	ErrMalformed = errors.New("api: malformed packet")
	ErrPixelSize = errors.New("api: pixel data does not match dimensions")
)

// FrameData is the decoded backend frame tuple.
type FrameData struct {
	W, H uint32
	Rate uint32 // RateUnknown when not reported
	Pix  []byte // RGBA, len == W*H*4
}

// EncodeFrameGet returns the one-byte frame request packet.
func EncodeFrameGet() []byte { return []byte{byte(FrameGet)} }

// EncodeFrame packs a frame tuple into a packet. The pixel slice is
// copied into the packet buffer.
func EncodeFrame(f FrameData) ([]byte, error) {
	if uint32(len(f.Pix)) != f.W*f.H*4 {
		return nil, ErrPixelSize
	}
	out := make([]byte, frameHeaderLen+len(f.Pix))
	out[0] = byte(Frame)
	binary.LittleEndian.PutUint32(out[1:], f.W)
	binary.LittleEndian.PutUint32(out[5:], f.H)
	binary.LittleEndian.PutUint32(out[9:], f.Rate)
	copy(out[frameHeaderLen:], f.Pix)
	return out, nil
}

// EncodeError packs a backend failure message.
func EncodeError(message string) []byte {
	return append([]byte{byte(Error)}, message...)
}

// DecodeFrame unwraps a backend packet into a frame tuple.
// The returned pixel slice aliases the packet buffer.
// A length mismatch between the header dimensions and the payload is
// left to the frame cache to reject, so that a lying backend degrades
// into a dropped iteration instead of a dropped connection.
func DecodeFrame(packet []byte) (FrameData, error) {
	if len(packet) == 0 {
		return FrameData{}, ErrMalformed
	}
	switch PT(packet[0]) {
	case Frame:
		if len(packet) < frameHeaderLen {
			return FrameData{}, ErrMalformed
		}
		return FrameData{
			W:    binary.LittleEndian.Uint32(packet[1:]),
			H:    binary.LittleEndian.Uint32(packet[5:]),
			Rate: binary.LittleEndian.Uint32(packet[9:]),
			Pix:  packet[frameHeaderLen:],
		}, nil
	case Error:
		return FrameData{}, fmt.Errorf("api: backend: %s", packet[1:])
	}
	return FrameData{}, fmt.Errorf("%w: unexpected type %v", ErrMalformed, PT(packet[0]))
}
