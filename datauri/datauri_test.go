package datauri

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeParseRoundTrip(t *testing.T) {
	data := []byte{0xff, 0xd8, 0xff, 0x00, 0x01}
	uri := Encode("image/jpeg", data)

	if uri[:23] != "data:image/jpeg;base64," {
		t.Fatalf("unexpected header: %q", uri)
	}

	mime, got, err := Parse(uri)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if mime != "image/jpeg" {
		t.Errorf("mime = %q, want image/jpeg", mime)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("data = %v, want %v", got, data)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		wantMIME string
		wantErr  error
	}{
		{name: "png", uri: "data:image/png;base64,aGVsbG8=", wantMIME: "image/png"},
		{name: "upper case header", uri: "DATA:IMAGE/PNG;BASE64,aGVsbG8=", wantMIME: "image/png"},
		{name: "missing header", uri: "aGVsbG8=", wantErr: ErrInvalid},
		{name: "not an image", uri: "data:text/plain;base64,aGVsbG8=", wantErr: ErrInvalid},
		{name: "bad base64", uri: "data:image/png;base64,***", wantErr: ErrInvalid},
		{name: "empty payload", uri: "data:image/png;base64,", wantErr: ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mime, _, err := Parse(tt.uri)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if mime != tt.wantMIME {
				t.Errorf("mime = %q, want %q", mime, tt.wantMIME)
			}
		})
	}
}

func TestDecodeAcceptsHeaderlessPayloads(t *testing.T) {
	for _, in := range []string{"aGVsbG8=", "data:image/webp;base64,aGVsbG8="} {
		got, err := Decode(in)
		if err != nil {
			t.Fatalf("Decode(%q) error = %v", in, err)
		}
		if string(got) != "hello" {
			t.Errorf("Decode(%q) = %q, want hello", in, got)
		}
	}
}
