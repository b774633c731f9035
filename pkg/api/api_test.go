package api

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	pix := bytes.Repeat([]byte{1, 2, 3, 4}, 6) // 3x2
	packet, err := EncodeFrame(FrameData{W: 3, H: 2, Rate: 60, Pix: pix})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := DecodeFrame(packet)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.W != 3 || got.H != 2 || got.Rate != 60 {
		t.Errorf("header = %vx%v@%v, want 3x2@60", got.W, got.H, got.Rate)
	}
	if !bytes.Equal(got.Pix, pix) {
		t.Error("pixels corrupted in transit")
	}
}

func TestEncodeFrameRejectsBadPixelLength(t *testing.T) {
	_, err := EncodeFrame(FrameData{W: 5, H: 6, Pix: make([]byte, 100)})
	if !errors.Is(err, ErrPixelSize) {
		t.Errorf("err = %v, want ErrPixelSize", err)
	}
}

func TestDecodeFrameSurfacesBackendError(t *testing.T) {
	_, err := DecodeFrame(EncodeError("capture device lost"))
	if err == nil || !strings.Contains(err.Error(), "capture device lost") {
		t.Errorf("err = %v, want the backend message", err)
	}
}

func TestDecodeFrameMalformed(t *testing.T) {
	for _, packet := range [][]byte{
		nil,
		{},
		{byte(Frame), 1, 2}, // truncated header
		{0xEE},              // unknown type
	} {
		if _, err := DecodeFrame(packet); !errors.Is(err, ErrMalformed) {
			t.Errorf("packet %v: err = %v, want ErrMalformed", packet, err)
		}
	}
}

func TestDecodeFrameLeavesDimensionMismatchToCaller(t *testing.T) {
	// a lying header is not a transport error; the frame cache rejects
	// it so the loop drops one iteration instead of the connection
	packet := []byte{byte(Frame),
		10, 0, 0, 0, // w=10
		10, 0, 0, 0, // h=10
		0, 0, 0, 0} // rate unknown
	packet = append(packet, make([]byte, 16)...) // 16 != 10*10*4

	got, err := DecodeFrame(packet)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.W != 10 || got.H != 10 || len(got.Pix) != 16 {
		t.Errorf("got %vx%v with %v bytes", got.W, got.H, len(got.Pix))
	}
	if got.Rate != RateUnknown {
		t.Errorf("rate = %v, want RateUnknown", got.Rate)
	}
}
