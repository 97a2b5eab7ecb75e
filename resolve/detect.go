package resolve

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/h2non/filetype"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

// srcEncoding is the encoding of input detected by byte order mark.
type srcEncoding int

const (
	encUnknown srcEncoding = iota
	encUTF8
	encUTF16BigEndian
	encUTF16LittleEndian
	encUTF32BigEndian
	encUTF32LittleEndian
)

func (e srcEncoding) String() string {
	switch e {
	case encUnknown:
		return "unknown"
	case encUTF8:
		return "utf8"
	case encUTF16BigEndian:
		return "utf16be"
	case encUTF16LittleEndian:
		return "utf16le"
	case encUTF32BigEndian:
		return "utf32be"
	case encUTF32LittleEndian:
		return "utf32le"
	}
	return "invalid"
}

// amount of data inspected to recognize document, root element may follow
// lengthy prolog, comments and doctype
const headerSize = 4096

var (
	svgType = filetype.NewType("svg", "image/svg+xml")
	svgRoot = regexp.MustCompile(`<(?:[A-Za-z_][\w.-]*:)?svg[\s/>]`)
	// processing instructions, comments and doctype
	svgProlog = regexp.MustCompile(`^(?:\s*(?:<\?[\s\S]*?\?>|<!--[\s\S]*?-->|<!DOCTYPE[^\[>]*(?:\[[\s\S]*?\])?\s*>))*\s*$`)
)

func init() {
	filetype.AddMatcher(svgType, matchSVG)
}

// matchSVG reports whether buffer starts an XML document with svg root.
func matchSVG(buf []byte) bool {
	text := decodeHeader(buf)
	i := svgRoot.FindStringIndex(text)
	if i == nil {
		return false
	}
	return svgProlog.MatchString(text[:i[0]])
}

// decodeHeader converts beginning of the document to UTF-8 text. Incomplete
// trailing characters are dropped.
func decodeHeader(buf []byte) string {
	enc := detectUTF(buf)
	if enc == encUnknown || enc == encUTF8 {
		return string(bytes.TrimPrefix(buf, []byte{0xEF, 0xBB, 0xBF}))
	}
	out, _, _ := transform.Bytes(decoderFor(enc), buf)
	return string(out)
}

func isUTF8BOM3(buf []byte) bool {
	return len(buf) >= 3 && buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF
}

func isUTF16BigEndianBOM2(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 0xFE && buf[1] == 0xFF
}

func isUTF16LittleEndianBOM2(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 0xFF && buf[1] == 0xFE
}

func isUTF32BigEndianBOM4(buf []byte) bool {
	return len(buf) >= 4 && buf[0] == 0x00 && buf[1] == 0x00 && buf[2] == 0xFE && buf[3] == 0xFF
}

func isUTF32LittleEndianBOM4(buf []byte) bool {
	return len(buf) >= 4 && buf[0] == 0xFF && buf[1] == 0xFE && buf[2] == 0x00 && buf[3] == 0x00
}

// detectUTF looks for byte order mark. UTF-32 LE mark starts with UTF-16 LE
// one so longer marks are checked first.
func detectUTF(buf []byte) srcEncoding {
	switch {
	case isUTF32BigEndianBOM4(buf):
		return encUTF32BigEndian
	case isUTF32LittleEndianBOM4(buf):
		return encUTF32LittleEndian
	case isUTF8BOM3(buf):
		return encUTF8
	case isUTF16BigEndianBOM2(buf):
		return encUTF16BigEndian
	case isUTF16LittleEndianBOM2(buf):
		return encUTF16LittleEndian
	}
	return encUnknown
}

func decoderFor(enc srcEncoding) transform.Transformer {
	switch enc {
	case encUTF8:
		return unicode.UTF8BOM.NewDecoder()
	case encUTF16BigEndian:
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
	case encUTF16LittleEndian:
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
	case encUTF32BigEndian:
		return utf32.UTF32(utf32.BigEndian, utf32.ExpectBOM).NewDecoder()
	case encUTF32LittleEndian:
		return utf32.UTF32(utf32.LittleEndian, utf32.ExpectBOM).NewDecoder()
	}
	return nil
}

// selectReader returns reader producing UTF-8 without byte order mark.
// Documents without mark are returned as is, XML decoder handles encoding
// declared in prolog.
func selectReader(r io.Reader, enc srcEncoding) io.Reader {
	if enc == encUnknown {
		return r
	}
	t := decoderFor(enc)
	if t == nil {
		// this should never happen
		panic("unsupported source encoding")
	}
	return transform.NewReader(r, t)
}

func readHeader(r io.Reader) ([]byte, error) {
	buf := make([]byte, headerSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:n], nil
}

func hasExt(name, ext string) bool {
	return strings.EqualFold(filepath.Ext(name), ext)
}

// isArchiveFile checks if file looks like zip archive.
func isArchiveFile(path string) (bool, error) {
	if !hasExt(path, ".zip") {
		return false, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	header, err := readHeader(f)
	if err != nil {
		return false, err
	}
	return filetype.Is(header, "zip"), nil
}

func detectSVG(header []byte) (bool, srcEncoding) {
	if !filetype.IsType(header, svgType) {
		return false, encUnknown
	}
	return true, detectUTF(header)
}

// isSVGFile checks if file is an SVG document and detects its encoding.
func isSVGFile(path string) (bool, srcEncoding, error) {
	if !hasExt(path, ".svg") {
		return false, encUnknown, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return false, encUnknown, err
	}
	defer f.Close()

	header, err := readHeader(f)
	if err != nil {
		return false, encUnknown, err
	}
	ok, enc := detectSVG(header)
	return ok, enc, nil
}

// isSVGInArchive checks if archive entry is an SVG document and detects its
// encoding.
func isSVGInArchive(f *zip.File) (bool, srcEncoding, error) {
	if !hasExt(f.Name, ".svg") {
		return false, encUnknown, nil
	}
	r, err := f.Open()
	if err != nil {
		return false, encUnknown, err
	}
	defer r.Close()

	header, err := readHeader(r)
	if err != nil {
		return false, encUnknown, err
	}
	ok, enc := detectSVG(header)
	return ok, enc, nil
}
