package headlessterm

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
	"strconv"
	"strings"
)

// KittyAction is the control-data "a=" key of a Kitty graphics command:
// what the command asks the terminal to do.
type KittyAction byte

const (
	KittyActionTransmit        KittyAction = 't'
	KittyActionTransmitDisplay KittyAction = 'T'
	KittyActionQuery           KittyAction = 'q'
	KittyActionDisplay         KittyAction = 'p'
	KittyActionDelete          KittyAction = 'd'
	KittyActionFrame           KittyAction = 'f'
	KittyActionAnimate         KittyAction = 'a'
	KittyActionCompose         KittyAction = 'c'
)

// KittyTransmission is the "t=" key: how the payload bytes were delivered.
type KittyTransmission byte

const (
	KittyTransmitDirect    KittyTransmission = 'd' // inline, base64 in the payload
	KittyTransmitFile      KittyTransmission = 'f'
	KittyTransmitTempFile  KittyTransmission = 't'
	KittyTransmitSharedMem KittyTransmission = 's'
)

// KittyFormat is the "f=" key: the pixel encoding of the transmitted data.
type KittyFormat uint32

const (
	KittyFormatRGB  KittyFormat = 24
	KittyFormatRGBA KittyFormat = 32 // default when "f=" is absent
	KittyFormatPNG  KittyFormat = 100
)

// KittyDelete is the "d=" key on a delete action: which placements/images
// it targets.
type KittyDelete byte

const (
	KittyDeleteAll          KittyDelete = 'a'
	KittyDeleteAllWithData  KittyDelete = 'A'
	KittyDeleteByID         KittyDelete = 'i'
	KittyDeleteByIDWithData KittyDelete = 'I'
	KittyDeleteByNumber     KittyDelete = 'n'
	KittyDeleteByNumData    KittyDelete = 'N'
	KittyDeleteAtCursor     KittyDelete = 'c'
	KittyDeleteAtCursorData KittyDelete = 'C'
	KittyDeleteAtPos        KittyDelete = 'p'
	KittyDeleteAtPosData    KittyDelete = 'P'
	KittyDeleteByCol        KittyDelete = 'x'
	KittyDeleteByColData    KittyDelete = 'X'
	KittyDeleteByRow        KittyDelete = 'y'
	KittyDeleteByRowData    KittyDelete = 'Y'
	KittyDeleteByZIndex     KittyDelete = 'z'
	KittyDeleteByZIndexData KittyDelete = 'Z'
)

// KittyCommand is one parsed Kitty graphics protocol APC payload: the
// control-data key=value pairs before the first ';', plus the (base64
// decoded) bytes after it.
type KittyCommand struct {
	Action       KittyAction
	Transmission KittyTransmission
	Format       KittyFormat
	Compression  byte // 'z' for zlib, 0 for none

	ImageID     uint32 // i=
	ImageNumber uint32 // I=
	PlacementID uint32 // p=

	Width  uint32 // s=, source width in pixels
	Height uint32 // v=, source height in pixels
	Size   uint32 // S=, data size for file/shm transmission
	Offset uint32 // O=, data offset for file/shm transmission
	More   bool   // m=, more chunks follow

	SrcX, SrcY      uint32 // x=, y=: source region origin
	SrcW, SrcH      uint32 // w=, h=: source region size
	Cols, Rows      uint32 // c=, r=: target footprint in cells
	CellOffsetX     uint32 // X=
	CellOffsetY     uint32 // Y=
	ZIndex          int32  // z=
	DoNotMoveCursor bool   // C=

	Delete KittyDelete // d=
	Quiet  uint32      // q=: 0 normal, 1 suppress OK, 2 suppress all responses

	Payload []byte
}

// kittyKeyHandlers dispatches each single-byte control-data key to the
// KittyCommand field it fills in, keeping ParseKittyGraphics itself to a
// single loop over key=value pairs.
var kittyKeyHandlers = map[byte]func(cmd *KittyCommand, value []byte){
	'a': func(cmd *KittyCommand, v []byte) {
		if len(v) > 0 {
			cmd.Action = KittyAction(v[0])
		}
	},
	't': func(cmd *KittyCommand, v []byte) {
		if len(v) > 0 {
			cmd.Transmission = KittyTransmission(v[0])
		}
	},
	'f': func(cmd *KittyCommand, v []byte) { cmd.Format = KittyFormat(parseUint32(v)) },
	'o': func(cmd *KittyCommand, v []byte) {
		if len(v) > 0 {
			cmd.Compression = v[0]
		}
	},
	'i': func(cmd *KittyCommand, v []byte) { cmd.ImageID = parseUint32(v) },
	'I': func(cmd *KittyCommand, v []byte) { cmd.ImageNumber = parseUint32(v) },
	'p': func(cmd *KittyCommand, v []byte) { cmd.PlacementID = parseUint32(v) },
	's': func(cmd *KittyCommand, v []byte) { cmd.Width = parseUint32(v) },
	'v': func(cmd *KittyCommand, v []byte) { cmd.Height = parseUint32(v) },
	'S': func(cmd *KittyCommand, v []byte) { cmd.Size = parseUint32(v) },
	'O': func(cmd *KittyCommand, v []byte) { cmd.Offset = parseUint32(v) },
	'm': func(cmd *KittyCommand, v []byte) { cmd.More = parseUint32(v) == 1 },
	'x': func(cmd *KittyCommand, v []byte) { cmd.SrcX = parseUint32(v) },
	'y': func(cmd *KittyCommand, v []byte) { cmd.SrcY = parseUint32(v) },
	'w': func(cmd *KittyCommand, v []byte) { cmd.SrcW = parseUint32(v) },
	'h': func(cmd *KittyCommand, v []byte) { cmd.SrcH = parseUint32(v) },
	'c': func(cmd *KittyCommand, v []byte) { cmd.Cols = parseUint32(v) },
	'r': func(cmd *KittyCommand, v []byte) { cmd.Rows = parseUint32(v) },
	'X': func(cmd *KittyCommand, v []byte) { cmd.CellOffsetX = parseUint32(v) },
	'Y': func(cmd *KittyCommand, v []byte) { cmd.CellOffsetY = parseUint32(v) },
	'z': func(cmd *KittyCommand, v []byte) { cmd.ZIndex = parseInt32(v) },
	'C': func(cmd *KittyCommand, v []byte) { cmd.DoNotMoveCursor = parseUint32(v) == 1 },
	'd': func(cmd *KittyCommand, v []byte) {
		if len(v) > 0 {
			cmd.Delete = KittyDelete(v[0])
		}
	},
	'q': func(cmd *KittyCommand, v []byte) { cmd.Quiet = parseUint32(v) },
}

// ParseKittyGraphics parses a Kitty graphics APC sequence. data is the
// content between the ESC_G introducer and the ST terminator, with or
// without the leading 'G'.
func ParseKittyGraphics(data []byte) (*KittyCommand, error) {
	cmd := &KittyCommand{
		Action:       KittyActionTransmitDisplay,
		Transmission: KittyTransmitDirect,
		Format:       KittyFormatRGBA,
	}

	if len(data) > 0 && data[0] == 'G' {
		data = data[1:]
	}

	controlData, payload := data, []byte(nil)
	if sep := bytes.IndexByte(data, ';'); sep >= 0 {
		controlData, payload = data[:sep], data[sep+1:]
	}

	for _, pair := range bytes.Split(controlData, []byte(",")) {
		eq := bytes.IndexByte(pair, '=')
		if eq <= 0 {
			continue
		}
		if handle, ok := kittyKeyHandlers[pair[0]]; ok {
			handle(cmd, pair[eq+1:])
		}
	}

	if len(payload) > 0 {
		decoded, err := base64.StdEncoding.DecodeString(string(payload))
		if err != nil {
			decoded, err = base64.RawStdEncoding.DecodeString(string(payload))
			if err != nil {
				return nil, fmt.Errorf("kitty graphics: decode base64 payload: %w", err)
			}
		}
		cmd.Payload = decoded
	}

	return cmd, nil
}

// DecodeImageData decompresses and decodes cmd's payload into RGBA pixels,
// per its Format, returning the pixel data and resolved width/height.
func (cmd *KittyCommand) DecodeImageData() ([]byte, uint32, uint32, error) {
	data := cmd.Payload
	if cmd.Compression == 'z' && len(data) > 0 {
		decompressed, err := inflateZlib(data)
		if err != nil {
			return nil, 0, 0, err
		}
		data = decompressed
	}

	switch cmd.Format {
	case KittyFormatPNG:
		return decodePNG(data)
	case KittyFormatRGB:
		return expandRGBToRGBA(data, cmd.Width, cmd.Height)
	case KittyFormatRGBA:
		return sliceRGBA(data, cmd.Width, cmd.Height)
	default:
		return nil, 0, 0, fmt.Errorf("kitty graphics: unsupported format %d", cmd.Format)
	}
}

func inflateZlib(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("kitty graphics: open zlib stream: %w", err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("kitty graphics: inflate zlib stream: %w", err)
	}
	return out, nil
}

func expandRGBToRGBA(data []byte, width, height uint32) ([]byte, uint32, uint32, error) {
	if width == 0 || height == 0 {
		return nil, 0, 0, fmt.Errorf("kitty graphics: RGB format requires width and height")
	}
	if expected := int(width * height * 3); len(data) < expected {
		return nil, 0, 0, fmt.Errorf("kitty graphics: RGB payload too short: got %d bytes, want %d", len(data), expected)
	}

	rgba := make([]byte, width*height*4)
	for i := uint32(0); i < width*height; i++ {
		rgba[i*4+0] = data[i*3+0]
		rgba[i*4+1] = data[i*3+1]
		rgba[i*4+2] = data[i*3+2]
		rgba[i*4+3] = 255
	}
	return rgba, width, height, nil
}

func sliceRGBA(data []byte, width, height uint32) ([]byte, uint32, uint32, error) {
	if width == 0 || height == 0 {
		return nil, 0, 0, fmt.Errorf("kitty graphics: RGBA format requires width and height")
	}
	if expected := int(width * height * 4); len(data) < expected {
		return nil, 0, 0, fmt.Errorf("kitty graphics: RGBA payload too short: got %d bytes, want %d", len(data), expected)
	} else {
		return data[:expected], width, height, nil
	}
}

// decodePNG decodes PNG (falling back to any format the image package
// recognizes) into tightly packed RGBA pixels.
func decodePNG(data []byte) ([]byte, uint32, uint32, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		img, _, err = image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, 0, 0, fmt.Errorf("kitty graphics: decode PNG payload: %w", err)
		}
	}

	bounds := img.Bounds()
	width, height := uint32(bounds.Dx()), uint32(bounds.Dy())
	rgba := make([]byte, width*height*4)

	for y := 0; y < int(height); y++ {
		for x := 0; x < int(width); x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			off := (uint32(y)*width + uint32(x)) * 4
			rgba[off+0] = uint8(r >> 8)
			rgba[off+1] = uint8(g >> 8)
			rgba[off+2] = uint8(b >> 8)
			rgba[off+3] = uint8(a >> 8)
		}
	}
	return rgba, width, height, nil
}

func parseUint32(b []byte) uint32 {
	n, _ := strconv.ParseUint(string(b), 10, 32)
	return uint32(n)
}

func parseInt32(b []byte) int32 {
	n, _ := strconv.ParseInt(string(b), 10, 32)
	return int32(n)
}

// FormatKittyResponse builds the terminal's APC reply to a Kitty graphics
// command: an "OK" acknowledgment, or message as an error string.
func FormatKittyResponse(imageID uint32, message string, isError bool) string {
	var sb strings.Builder
	sb.WriteString("\x1b_G")
	if imageID > 0 {
		fmt.Fprintf(&sb, "i=%d", imageID)
	}
	sb.WriteByte(';')
	if isError {
		sb.WriteString(message)
	} else {
		sb.WriteString("OK")
	}
	sb.WriteString("\x1b\\")
	return sb.String()
}
