package unquantum

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Header magic bytes (spec §4.7/§9: "signature (exactly 0x44 0x53)").
var magic = [2]byte{0x44, 0x53}

// wideNames is flags bit 0: when set, both the filename-length and
// comment-length directory prefixes are 2-byte little-endian instead
// of a single byte.
const wideNames = 1 << 0

// Sentinel errors for the fixed forms of corruption the header and
// directory parser can detect (spec §7). These are always fatal: the
// archive as a whole cannot be trusted once any of them fires.
var (
	ErrBadMagic           = errors.New("unquantum: bad archive signature")
	ErrUnsupportedVersion = errors.New("unquantum: unsupported archive version")
	ErrBadTableSize       = errors.New("unquantum: table size outside [10,21]")
	ErrTruncatedHeader    = errors.New("unquantum: truncated archive header")
	ErrTruncatedDirectory = errors.New("unquantum: truncated file directory")
)

// Header is the fixed 8-byte archive header (spec §4.7).
type Header struct {
	MajorVersion byte
	MinorVersion byte
	FileCount    uint16
	TableSize    uint8
	Flags        uint8
}

// Entry describes one file recorded in the archive directory (spec
// §2 item 8, §4.7).
type Entry struct {
	Name         string
	Comment      string
	ExpandedSize uint32
	DOSTime      uint16
	DOSDate      uint16
}

// Archive is the parsed result of ArchiveParser (spec §2 item 8): the
// header fields, the ordered directory, and a reader positioned at
// the start of the compressed payload.
type Archive struct {
	Header  Header
	Entries []Entry
	Payload *bufio.Reader
}

// ParseArchive reads and validates the fixed header and directory
// from r, leaving the returned Archive's Payload reader positioned at
// the first byte of the compressed stream. Grounded on the
// fixed-header-then-directory parsing shape of icza's mpq.go, adapted
// to Quantum's variable-width, flags-gated directory entries; the
// fixed-width fields are read with binary.Read into small structs of
// primitive fields.
func ParseArchive(r io.Reader) (*Archive, error) {
	br := bufio.NewReader(r)

	var sig [2]byte
	if _, err := io.ReadFull(br, sig[:]); err != nil {
		return nil, errors.Wrap(ErrTruncatedHeader, "reading signature")
	}
	if sig != magic {
		return nil, ErrBadMagic
	}

	var fixed struct {
		Major, Minor byte
		FileCount    uint16
		TableSize    uint8
		Flags        uint8
	}
	if err := binary.Read(br, binary.LittleEndian, &fixed); err != nil {
		return nil, errors.Wrap(ErrTruncatedHeader, "reading fixed header fields")
	}

	if fixed.Major != 1 {
		return nil, errors.Wrapf(ErrUnsupportedVersion, "major version %d", fixed.Major)
	}
	if fixed.TableSize < 10 || fixed.TableSize > 21 {
		return nil, errors.Wrapf(ErrBadTableSize, "tableSize=%d", fixed.TableSize)
	}

	hdr := Header{
		MajorVersion: fixed.Major,
		MinorVersion: fixed.Minor,
		FileCount:    fixed.FileCount,
		TableSize:    fixed.TableSize,
		Flags:        fixed.Flags,
	}

	wide := fixed.Flags&wideNames != 0
	entries := make([]Entry, 0, fixed.FileCount)
	for i := uint16(0); i < fixed.FileCount; i++ {
		name, err := readLengthPrefixed(br, wide)
		if err != nil {
			return nil, errors.Wrapf(ErrTruncatedDirectory, "entry %d: filename: %v", i, err)
		}
		comment, err := readLengthPrefixed(br, wide)
		if err != nil {
			return nil, errors.Wrapf(ErrTruncatedDirectory, "entry %d: comment: %v", i, err)
		}

		var tail struct {
			ExpandedSize uint32
			DOSTime      uint16
			DOSDate      uint16
		}
		if err := binary.Read(br, binary.LittleEndian, &tail); err != nil {
			return nil, errors.Wrapf(ErrTruncatedDirectory, "entry %d: trailer: %v", i, err)
		}

		entries = append(entries, Entry{
			Name:         name,
			Comment:      comment,
			ExpandedSize: tail.ExpandedSize,
			DOSTime:      tail.DOSTime,
			DOSDate:      tail.DOSDate,
		})
	}

	return &Archive{Header: hdr, Entries: entries, Payload: br}, nil
}

// readLengthPrefixed reads a 1- or 2-byte little-endian length prefix
// (per the wideNames flag) followed by that many raw bytes.
func readLengthPrefixed(br *bufio.Reader, wide bool) (string, error) {
	var length int
	if wide {
		var l uint16
		if err := binary.Read(br, binary.LittleEndian, &l); err != nil {
			return "", err
		}
		length = int(l)
	} else {
		b, err := br.ReadByte()
		if err != nil {
			return "", err
		}
		length = int(b)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(br, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
