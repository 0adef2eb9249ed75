package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

// createTestTGA builds an uncompressed 24-bit bottom-to-top TGA.
func createTestTGA(w, h int, pixels []color.RGBA) []byte {
	header := make([]byte, 18)
	header[2] = TGATypeUncompressed
	header[12], header[13] = byte(w), byte(w>>8)
	header[14], header[15] = byte(h), byte(h>>8)
	header[16] = 24
	data := header
	for _, p := range pixels {
		data = append(data, p.B, p.G, p.R)
	}
	return data
}

func TestDecodeTGA_BottomUp(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	// First stored row is the bottom row.
	img, err := DecodeTGA(createTestTGA(1, 2, []color.RGBA{red, blue}))
	if err != nil {
		t.Fatalf("DecodeTGA failed: %v", err)
	}
	if got := img.RGBAAt(0, 1); got != red {
		t.Errorf("bottom pixel = %v, want red", got)
	}
	if got := img.RGBAAt(0, 0); got != blue {
		t.Errorf("top pixel = %v, want blue", got)
	}
}

func TestDecodeTGA_RLE(t *testing.T) {
	header := make([]byte, 18)
	header[2] = TGATypeRLE
	header[12] = 3
	header[14] = 1
	header[16] = 32
	header[17] = 0x20
	// One run packet of 3 pixels.
	data := append(header, 0x82, 10, 20, 30, 40)

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA failed: %v", err)
	}
	want := color.RGBA{R: 30, G: 20, B: 10, A: 40}
	for x := 0; x < 3; x++ {
		if got := img.RGBAAt(x, 0); got != want {
			t.Errorf("pixel %d = %v, want %v", x, got, want)
		}
	}
}

func TestDecodeTGA_Errors(t *testing.T) {
	valid := createTestTGA(2, 2, make([]color.RGBA, 4))
	tests := []struct {
		name string
		data []byte
	}{
		{"short", []byte{0, 0, 2}},
		{"truncated pixels", valid[:len(valid)-1]},
		{"color mapped", func() []byte { d := append([]byte(nil), valid...); d[1] = 1; return d }()},
		{"bit depth", func() []byte { d := append([]byte(nil), valid...); d[16] = 16; return d }()},
		{"rle truncated", []byte{0, 0, TGATypeRLE, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2, 0, 1, 0, 24, 0, 0x01, 1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeTGA(tt.data); err == nil {
				t.Error("DecodeTGA() expected error")
			}
		})
	}
}

func TestDecodeDispatch(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(1, 1, color.NRGBA{G: 255, A: 255})

	var pngBuf, bmpBuf bytes.Buffer
	if err := png.Encode(&pngBuf, src); err != nil {
		t.Fatal(err)
	}
	if err := bmp.Encode(&bmpBuf, src); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"tex.png", pngBuf.Bytes()},
		{"tex.BMP", bmpBuf.Bytes()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Decode(tt.name, tt.data)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if got := img.RGBAAt(1, 1); got != (color.RGBA{G: 255, A: 255}) {
				t.Errorf("pixel = %v, want green", got)
			}
		})
	}

	if _, err := Decode("tex.png", []byte("not an image")); err == nil {
		t.Error("expected error for garbage data")
	}
}

func TestDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.tga")
	if err := os.WriteFile(path, createTestTGA(1, 1, []color.RGBA{{R: 1, G: 2, B: 3}}), 0644); err != nil {
		t.Fatal(err)
	}
	img, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile failed: %v", err)
	}
	if img.Rect.Dx() != 1 {
		t.Errorf("width = %d", img.Rect.Dx())
	}
	if _, err := DecodeFile(filepath.Join(t.TempDir(), "none.png")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestToRGBAAndFlip(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 6, 7))
	src.SetRGBA(5, 5, color.RGBA{R: 255, A: 255})

	rgba := ToRGBA(src)
	if rgba.Rect.Min != (image.Point{}) {
		t.Fatalf("ToRGBA origin = %v, want (0,0)", rgba.Rect.Min)
	}
	if got := rgba.RGBAAt(0, 0); got.R != 255 {
		t.Errorf("ToRGBA pixel = %v", got)
	}

	flipped := FlipVertical(rgba)
	if got := flipped.RGBAAt(0, 1); got.R != 255 {
		t.Errorf("FlipVertical moved red to %v", flipped.Pix)
	}
}
