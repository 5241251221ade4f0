// Package encoding provides text encoding utilities for Ragnarok Online file formats.
package encoding

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// EUCKRToUTF8 converts EUC-KR encoded bytes to a UTF-8 string.
// Returns the input unchanged if it is not valid EUC-KR.
func EUCKRToUTF8(data []byte) string {
	if isASCII(data) {
		return string(data)
	}
	result, _, err := transform.Bytes(korean.EUCKR.NewDecoder(), data)
	if err != nil {
		return string(data)
	}
	return string(result)
}

// UTF8ToEUCKR converts a UTF-8 string to EUC-KR encoded bytes.
// Returns the original bytes if conversion fails.
func UTF8ToEUCKR(s string) []byte {
	result, _, err := transform.Bytes(korean.EUCKR.NewEncoder(), []byte(s))
	if err != nil {
		return []byte(s)
	}
	return result
}

// FixedStringToUTF8 converts a fixed-size, NUL-padded EUC-KR field to UTF-8.
func FixedStringToUTF8(data []byte) string {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	return EUCKRToUTF8(data)
}

// NormalizeGRFPath normalizes an archive path for case-insensitive lookup.
func NormalizeGRFPath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	return strings.ToLower(path)
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= 0x80 {
			return false
		}
	}
	return true
}
