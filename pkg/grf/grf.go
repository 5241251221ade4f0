// Package grf provides reading functionality for Ragnarok Online GRF archives.
package grf

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/Faultbox/midgard-robj/pkg/encoding"
)

const (
	grfMagic      = "Master of Magic"
	headerSize    = 46
	entryDataSize = 17
	versionV2     = 0x200

	flagFile      = 0x01
	flagEncrypted = 0x02 | 0x04
)

// GRF archive errors.
var (
	ErrInvalidMagic       = errors.New("invalid GRF magic")
	ErrUnsupportedVersion = errors.New("unsupported GRF version")
	ErrCorruptTable       = errors.New("corrupt GRF file table")
	ErrNotFound           = errors.New("file not found in archive")
	ErrEncrypted          = errors.New("encrypted GRF entries are not supported")
)

// Archive represents an opened GRF archive. Read is safe for concurrent use.
type Archive struct {
	file     *os.File
	header   Header
	fileList map[string]*Entry
}

// Header contains GRF file header information.
type Header struct {
	Magic         [15]byte
	EncryptionKey [15]byte
	TableOffset   uint32
	Seed          uint32
	FileCount     uint32
	Version       uint32
}

// Entry represents a file entry in the archive.
type Entry struct {
	Name             string
	CompressedSize   uint32
	AlignedSize      uint32
	UncompressedSize uint32
	Flags            uint8
	Offset           uint32
}

// Open opens a GRF archive for reading.
func Open(path string) (*Archive, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}

	archive := &Archive{
		file:     file,
		fileList: make(map[string]*Entry),
	}

	if err := archive.readHeader(); err != nil {
		file.Close()
		return nil, fmt.Errorf("reading header: %w", err)
	}

	if err := archive.readFileTable(); err != nil {
		file.Close()
		return nil, fmt.Errorf("reading file table: %w", err)
	}

	return archive, nil
}

// Close closes the archive.
func (a *Archive) Close() error {
	if a.file != nil {
		return a.file.Close()
	}
	return nil
}

func (a *Archive) readHeader() error {
	section := io.NewSectionReader(a.file, 0, headerSize)
	if err := binary.Read(section, binary.LittleEndian, &a.header); err != nil {
		return err
	}

	if string(a.header.Magic[:]) != grfMagic {
		return ErrInvalidMagic
	}

	if a.header.Version != versionV2 {
		return fmt.Errorf("%w: 0x%x", ErrUnsupportedVersion, a.header.Version)
	}

	return nil
}

func (a *Archive) readFileTable() error {
	tableOffset := int64(a.header.TableOffset) + headerSize

	var sizes [2]uint32 // compressed, uncompressed
	if err := binary.Read(io.NewSectionReader(a.file, tableOffset, 8), binary.LittleEndian, &sizes); err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptTable, err)
	}

	compressedData := make([]byte, sizes[0])
	if _, err := a.file.ReadAt(compressedData, tableOffset+8); err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptTable, err)
	}

	tableData, err := inflate(compressedData, sizes[1])
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptTable, err)
	}

	if a.header.FileCount < a.header.Seed+7 {
		return fmt.Errorf("%w: file count %d", ErrCorruptTable, a.header.FileCount)
	}
	fileCount := a.header.FileCount - a.header.Seed - 7
	offset := 0

	for i := uint32(0); i < fileCount; i++ {
		nameEnd := bytes.IndexByte(tableData[offset:], 0)
		if nameEnd < 0 || offset+nameEnd+1+entryDataSize > len(tableData) {
			return fmt.Errorf("%w: entry %d truncated", ErrCorruptTable, i)
		}
		name := encoding.EUCKRToUTF8(tableData[offset : offset+nameEnd])
		offset += nameEnd + 1

		entry := &Entry{
			Name:             encoding.NormalizeGRFPath(name),
			CompressedSize:   binary.LittleEndian.Uint32(tableData[offset:]),
			AlignedSize:      binary.LittleEndian.Uint32(tableData[offset+4:]),
			UncompressedSize: binary.LittleEndian.Uint32(tableData[offset+8:]),
			Flags:            tableData[offset+12],
			Offset:           binary.LittleEndian.Uint32(tableData[offset+13:]),
		}
		offset += entryDataSize

		// Directory entries have no file flag
		if entry.Flags&flagFile != 0 {
			a.fileList[entry.Name] = entry
		}
	}

	return nil
}

// List returns all file paths in the archive, sorted.
func (a *Archive) List() []string {
	result := make([]string, 0, len(a.fileList))
	for path := range a.fileList {
		result = append(result, path)
	}
	sort.Strings(result)
	return result
}

// Contains checks if a file exists. Lookups ignore case and slash direction.
func (a *Archive) Contains(path string) bool {
	_, ok := a.fileList[encoding.NormalizeGRFPath(path)]
	return ok
}

// Stat returns the entry for a file.
func (a *Archive) Stat(path string) (*Entry, error) {
	entry, ok := a.fileList[encoding.NormalizeGRFPath(path)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return entry, nil
}

// Read reads a file from the archive.
func (a *Archive) Read(path string) ([]byte, error) {
	entry, err := a.Stat(path)
	if err != nil {
		return nil, err
	}

	if entry.Flags&flagEncrypted != 0 {
		return nil, fmt.Errorf("%w: %s", ErrEncrypted, path)
	}
	if entry.CompressedSize > entry.AlignedSize {
		return nil, fmt.Errorf("%w: %s sizes %d > %d", ErrCorruptTable, path, entry.CompressedSize, entry.AlignedSize)
	}

	compressedData := make([]byte, entry.CompressedSize)
	if _, err := a.file.ReadAt(compressedData, int64(entry.Offset)+headerSize); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if entry.CompressedSize == entry.UncompressedSize {
		return compressedData, nil
	}

	data, err := inflate(compressedData, entry.UncompressedSize)
	if err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", path, err)
	}
	return data, nil
}

func inflate(compressed []byte, size uint32) ([]byte, error) {
	reader, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	result := make([]byte, size)
	if _, err := io.ReadFull(reader, result); err != nil {
		return nil, err
	}
	return result, nil
}
