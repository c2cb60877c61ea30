// Package omni reads entries out of zip-format application resource
// archives (omni.ja). The archives deviate from stock zip in ways that trip
// archive/zip (leading optimization data shifts the recorded offsets), so
// the central directory is parsed directly over the in-memory buffer.
package omni

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/flate"
)

// Error sentinel values for archive structure and entry decoding failures.
var (
	ErrCorruptDirectory  = errors.New("omni: corrupt central directory")
	ErrUnsupportedMethod = errors.New("omni: unsupported compression method")
	ErrTruncatedEntry    = errors.New("omni: truncated entry data")
	ErrEntryNotFound     = errors.New("omni: entry not found")
)

const (
	sigEOCD    = 0x06054b50
	sigCentral = 0x02014b50
	sigLocal   = 0x04034b50

	methodStored  = 0
	methodDeflate = 8

	eocdLen       = 22
	centralLen    = 46
	localLen      = 30
	maxCommentLen = 0xffff
)

type entry struct {
	name             string
	method           uint16
	compressedSize   uint32
	uncompressedSize uint32
	offset           int64 // local header offset, preamble-adjusted
}

// Archive is an opened archive: the backing buffer plus the parsed
// central-directory index. It holds no other state and is safe for
// concurrent reads.
type Archive struct {
	data    []byte
	entries []entry
	index   map[string]int // entry name -> index of its last listing
}

// Open parses the end-of-central-directory trailer and central directory of
// data. The buffer is retained by the returned Archive; callers release the
// archive by dropping both references.
func Open(data []byte) (*Archive, error) {
	eocdPos := findTrailer(data)
	if eocdPos < 0 {
		return nil, fmt.Errorf("%w: end-of-central-directory trailer not found", ErrCorruptDirectory)
	}

	count := int(binary.LittleEndian.Uint16(data[eocdPos+10:]))
	cdSize := int64(binary.LittleEndian.Uint32(data[eocdPos+12:]))
	cdPos := int64(binary.LittleEndian.Uint32(data[eocdPos+16:]))

	// omni.ja archives carry data ahead of the first local header, which
	// shifts every recorded offset. When the recorded directory position
	// does not hold a directory record, re-derive it from the trailer
	// position and carry the difference over to the local offsets.
	var delta int64
	if !hasSignature(data, cdPos, sigCentral) {
		alt := eocdPos - cdSize
		if alt < 0 || !hasSignature(data, alt, sigCentral) {
			return nil, fmt.Errorf("%w: directory offset %d does not hold a directory record", ErrCorruptDirectory, cdPos)
		}
		delta = alt - cdPos
		cdPos = alt
	}

	a := &Archive{
		data:    data,
		entries: make([]entry, 0, count),
		index:   make(map[string]int, count),
	}

	pos := cdPos
	end := cdPos + cdSize
	for i := 0; i < count; i++ {
		if pos+centralLen > end || pos+centralLen > int64(len(data)) {
			return nil, fmt.Errorf("%w: truncated directory record %d of %d", ErrCorruptDirectory, i+1, count)
		}
		rec := data[pos:]
		if binary.LittleEndian.Uint32(rec) != sigCentral {
			return nil, fmt.Errorf("%w: bad signature on directory record %d of %d", ErrCorruptDirectory, i+1, count)
		}
		nameLen := int64(binary.LittleEndian.Uint16(rec[28:]))
		extraLen := int64(binary.LittleEndian.Uint16(rec[30:]))
		commentLen := int64(binary.LittleEndian.Uint16(rec[32:]))
		if pos+centralLen+nameLen > end {
			return nil, fmt.Errorf("%w: directory record %d overruns the directory", ErrCorruptDirectory, i+1)
		}
		e := entry{
			name:             string(rec[centralLen : centralLen+nameLen]),
			method:           binary.LittleEndian.Uint16(rec[10:]),
			compressedSize:   binary.LittleEndian.Uint32(rec[20:]),
			uncompressedSize: binary.LittleEndian.Uint32(rec[24:]),
			offset:           int64(binary.LittleEndian.Uint32(rec[42:])) + delta,
		}
		a.entries = append(a.entries, e)
		// Later listings supersede earlier ones, per zip semantics.
		a.index[e.name] = len(a.entries) - 1
		pos += centralLen + nameLen + extraLen + commentLen
	}

	return a, nil
}

// findTrailer locates the end-of-central-directory signature, scanning
// backward through the maximum possible trailing comment.
func findTrailer(data []byte) int64 {
	if len(data) < eocdLen {
		return -1
	}
	lowest := len(data) - eocdLen - maxCommentLen
	if lowest < 0 {
		lowest = 0
	}
	for pos := len(data) - eocdLen; pos >= lowest; pos-- {
		if binary.LittleEndian.Uint32(data[pos:]) == sigEOCD {
			return int64(pos)
		}
	}
	return -1
}

func hasSignature(data []byte, pos int64, sig uint32) bool {
	return pos >= 0 && pos+4 <= int64(len(data)) && binary.LittleEndian.Uint32(data[pos:]) == sig
}

// List returns the names of entries beginning with prefix, in
// central-directory order. Superseded duplicate listings are elided; each
// name appears once.
func (a *Archive) List(prefix string) []string {
	var names []string
	for i, e := range a.entries {
		if a.index[e.name] != i {
			continue
		}
		if strings.HasPrefix(e.name, prefix) {
			names = append(names, e.name)
		}
	}
	return names
}

// Len reports the number of distinct entry names in the archive.
func (a *Archive) Len() int { return len(a.index) }

// Read returns the decompressed contents of the named entry. Duplicate
// names resolve to the last-listed entry. Failures decode to the sentinel
// error kinds; a failing entry never affects other entries.
func (a *Archive) Read(name string) ([]byte, error) {
	i, ok := a.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrEntryNotFound, name)
	}
	e := a.entries[i]

	if e.offset < 0 || e.offset+localLen > int64(len(a.data)) {
		return nil, fmt.Errorf("%w: local header of %q out of bounds", ErrCorruptDirectory, name)
	}
	hdr := a.data[e.offset:]
	if binary.LittleEndian.Uint32(hdr) != sigLocal {
		return nil, fmt.Errorf("%w: local header of %q has no signature", ErrCorruptDirectory, name)
	}
	nameLen := int64(binary.LittleEndian.Uint16(hdr[26:]))
	extraLen := int64(binary.LittleEndian.Uint16(hdr[28:]))

	start := e.offset + localLen + nameLen + extraLen
	endPos := start + int64(e.compressedSize)
	if start > int64(len(a.data)) || endPos > int64(len(a.data)) {
		return nil, fmt.Errorf("%w: %q claims %d bytes past end of archive", ErrTruncatedEntry, name, e.compressedSize)
	}
	raw := a.data[start:endPos]

	switch e.method {
	case methodStored:
		if int64(len(raw)) != int64(e.uncompressedSize) {
			return nil, fmt.Errorf("%w: stored entry %q has %d of %d bytes", ErrTruncatedEntry, name, len(raw), e.uncompressedSize)
		}
		out := make([]byte, len(raw))
		copy(out, raw)
		return out, nil
	case methodDeflate:
		r := flate.NewReader(bytes.NewReader(raw))
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: inflating %q: %v", ErrTruncatedEntry, name, err)
		}
		if int64(len(out)) != int64(e.uncompressedSize) {
			return nil, fmt.Errorf("%w: %q inflated to %d of %d bytes", ErrTruncatedEntry, name, len(out), e.uncompressedSize)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: entry %q uses method %d", ErrUnsupportedMethod, name, e.method)
	}
}
