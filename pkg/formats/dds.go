package formats

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math/bits"
	"os"
)

// DDS format errors.
var (
	ErrInvalidDDSMagic    = errors.New("invalid DDS magic: expected 'DDS '")
	ErrTruncatedDDSData   = errors.New("truncated DDS data")
	ErrUnsupportedDDSType = errors.New("unsupported DDS pixel format")
)

const (
	ddsHeaderSize = 128 // magic + DDS_HEADER

	ddpfAlphaPixels = 0x1
	ddpfFourCC      = 0x4
	ddpfRGB         = 0x40
	ddpfLuminance   = 0x20000
)

// DDSFormat names the pixel encoding of a DDS file.
type DDSFormat string

// Supported encodings.
const (
	DDSFormatRGB  DDSFormat = "RGB"
	DDSFormatDXT1 DDSFormat = "DXT1"
	DDSFormatDXT3 DDSFormat = "DXT3"
	DDSFormatDXT5 DDSFormat = "DXT5"
)

// DDSHeader holds the parts of the header the decoder needs.
type DDSHeader struct {
	Width       int
	Height      int
	MipMapCount int
	Format      DDSFormat
	BitCount    int
	Masks       [4]uint32 // R, G, B, A
}

// ParseDDS decodes the top mip level of a DDS texture.
func ParseDDS(data []byte) (*image.NRGBA, *DDSHeader, error) {
	h, err := parseDDSHeader(data)
	if err != nil {
		return nil, nil, err
	}
	pixels := data[ddsHeaderSize:]
	img := image.NewNRGBA(image.Rect(0, 0, h.Width, h.Height))

	switch h.Format {
	case DDSFormatRGB:
		err = decodeDDSRGB(img, pixels, h)
	case DDSFormatDXT1, DDSFormatDXT3, DDSFormatDXT5:
		err = decodeDXT(img, pixels, h.Format)
	}
	if err != nil {
		return nil, nil, err
	}
	return img, h, nil
}

// ParseDDSFile decodes a DDS file from disk.
func ParseDDSFile(path string) (*image.NRGBA, *DDSHeader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading DDS file: %w", err)
	}
	return ParseDDS(data)
}

func parseDDSHeader(data []byte) (*DDSHeader, error) {
	if len(data) < ddsHeaderSize {
		return nil, ErrTruncatedDDSData
	}
	if string(data[0:4]) != "DDS " {
		return nil, ErrInvalidDDSMagic
	}
	u32 := func(off int) uint32 { return binary.LittleEndian.Uint32(data[off:]) }

	if u32(4) != 124 {
		return nil, fmt.Errorf("%w: header size %d", ErrInvalidDDSMagic, u32(4))
	}
	h := &DDSHeader{
		Height:      int(u32(12)),
		Width:       int(u32(16)),
		MipMapCount: int(u32(28)),
	}
	if h.Width <= 0 || h.Height <= 0 || h.Width > 16384 || h.Height > 16384 {
		return nil, fmt.Errorf("invalid DDS dimensions: %dx%d", h.Width, h.Height)
	}

	flags := u32(80)
	switch {
	case flags&ddpfFourCC != 0:
		fourCC := string(data[84:88])
		switch DDSFormat(fourCC) {
		case DDSFormatDXT1, DDSFormatDXT3, DDSFormatDXT5:
			h.Format = DDSFormat(fourCC)
		default:
			return nil, fmt.Errorf("%w: fourCC %q", ErrUnsupportedDDSType, fourCC)
		}
	case flags&(ddpfRGB|ddpfLuminance) != 0:
		h.Format = DDSFormatRGB
		h.BitCount = int(u32(88))
		h.Masks = [4]uint32{u32(92), u32(96), u32(100), 0}
		if flags&ddpfAlphaPixels != 0 {
			h.Masks[3] = u32(104)
		}
		if flags&ddpfLuminance != 0 {
			h.Masks[1], h.Masks[2] = h.Masks[0], h.Masks[0]
		}
		if h.BitCount != 8 && h.BitCount != 16 && h.BitCount != 24 && h.BitCount != 32 {
			return nil, fmt.Errorf("%w: %d bits per pixel", ErrUnsupportedDDSType, h.BitCount)
		}
	default:
		return nil, fmt.Errorf("%w: flags %#x", ErrUnsupportedDDSType, flags)
	}
	return h, nil
}

// maskChannel extracts the channel selected by mask and scales it to 8 bits.
func maskChannel(px, mask uint32) uint8 {
	if mask == 0 {
		return 0
	}
	shift := bits.TrailingZeros32(mask)
	width := bits.OnesCount32(mask)
	v := (px & mask) >> shift
	maxV := uint32(1)<<width - 1
	return uint8(v * 255 / maxV)
}

func decodeDDSRGB(img *image.NRGBA, data []byte, h *DDSHeader) error {
	bpp := h.BitCount / 8
	if len(data) < h.Width*h.Height*bpp {
		return fmt.Errorf("%w: need %d pixel bytes, have %d", ErrTruncatedDDSData, h.Width*h.Height*bpp, len(data))
	}
	for y := 0; y < h.Height; y++ {
		for x := 0; x < h.Width; x++ {
			off := (y*h.Width + x) * bpp
			var px uint32
			for b := 0; b < bpp; b++ {
				px |= uint32(data[off+b]) << (8 * b)
			}
			a := uint8(255)
			if h.Masks[3] != 0 {
				a = maskChannel(px, h.Masks[3])
			}
			img.SetNRGBA(x, y, color.NRGBA{
				R: maskChannel(px, h.Masks[0]),
				G: maskChannel(px, h.Masks[1]),
				B: maskChannel(px, h.Masks[2]),
				A: a,
			})
		}
	}
	return nil
}

func decodeDXT(img *image.NRGBA, data []byte, format DDSFormat) error {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	bw, bh := (w+3)/4, (h+3)/4
	blockSize := 16
	if format == DDSFormatDXT1 {
		blockSize = 8
	}
	if len(data) < bw*bh*blockSize {
		return fmt.Errorf("%w: need %d block bytes, have %d", ErrTruncatedDDSData, bw*bh*blockSize, len(data))
	}

	var texels [16]color.NRGBA
	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			block := data[(by*bw+bx)*blockSize:]
			switch format {
			case DDSFormatDXT1:
				decodeColorBlock(&texels, block[:8], true)
			case DDSFormatDXT3:
				decodeColorBlock(&texels, block[8:16], false)
				for i := 0; i < 16; i++ {
					a := (block[i/2] >> (4 * (i % 2))) & 0x0f
					texels[i].A = a * 17
				}
			case DDSFormatDXT5:
				decodeColorBlock(&texels, block[8:16], false)
				decodeAlphaBlock(&texels, block[:8])
			}
			for i, c := range texels {
				x, y := bx*4+i%4, by*4+i/4
				if x < w && y < h {
					img.SetNRGBA(x, y, c)
				}
			}
		}
	}
	return nil
}

func rgb565(c uint16) color.NRGBA {
	r := uint8(c>>11) & 0x1f
	g := uint8(c>>5) & 0x3f
	b := uint8(c) & 0x1f
	return color.NRGBA{R: r<<3 | r>>2, G: g<<2 | g>>4, B: b<<3 | b>>2, A: 255}
}

func lerp(a, b uint8, num, den int) uint8 {
	return uint8((int(a)*(den-num) + int(b)*num) / den)
}

func decodeColorBlock(out *[16]color.NRGBA, block []byte, dxt1 bool) {
	c0 := binary.LittleEndian.Uint16(block[0:])
	c1 := binary.LittleEndian.Uint16(block[2:])
	var palette [4]color.NRGBA
	palette[0], palette[1] = rgb565(c0), rgb565(c1)

	if c0 > c1 || !dxt1 {
		for i, n := range [2]int{1, 2} {
			palette[2+i] = color.NRGBA{
				R: lerp(palette[0].R, palette[1].R, n, 3),
				G: lerp(palette[0].G, palette[1].G, n, 3),
				B: lerp(palette[0].B, palette[1].B, n, 3),
				A: 255,
			}
		}
	} else {
		palette[2] = color.NRGBA{
			R: lerp(palette[0].R, palette[1].R, 1, 2),
			G: lerp(palette[0].G, palette[1].G, 1, 2),
			B: lerp(palette[0].B, palette[1].B, 1, 2),
			A: 255,
		}
		palette[3] = color.NRGBA{}
	}

	idx := binary.LittleEndian.Uint32(block[4:])
	for i := 0; i < 16; i++ {
		out[i] = palette[(idx>>(2*i))&3]
	}
}

func decodeAlphaBlock(out *[16]color.NRGBA, block []byte) {
	a0, a1 := block[0], block[1]
	var alpha [8]uint8
	alpha[0], alpha[1] = a0, a1
	if a0 > a1 {
		for i := 1; i <= 6; i++ {
			alpha[1+i] = lerp(a0, a1, i, 7)
		}
	} else {
		for i := 1; i <= 4; i++ {
			alpha[1+i] = lerp(a0, a1, i, 5)
		}
		alpha[6], alpha[7] = 0, 255
	}

	var idx uint64
	for i := 0; i < 6; i++ {
		idx |= uint64(block[2+i]) << (8 * i)
	}
	for i := 0; i < 16; i++ {
		out[i].A = alpha[(idx>>(3*i))&7]
	}
}
