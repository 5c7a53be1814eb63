package services

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// binaryExtensions short-circuits the content sniff for formats that
// are never worth inlining into a prompt.
var binaryExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".bmp": {}, ".ico": {},
	".webp": {}, ".tiff": {}, ".svgz": {},
	".mp3": {}, ".mp4": {}, ".wav": {}, ".flac": {}, ".ogg": {}, ".avi": {},
	".mov": {}, ".mkv": {}, ".webm": {},
	".zip": {}, ".tar": {}, ".gz": {}, ".bz2": {}, ".xz": {}, ".7z": {}, ".rar": {},
	".pdf": {}, ".doc": {}, ".docx": {}, ".xls": {}, ".xlsx": {}, ".ppt": {}, ".pptx": {},
	".exe": {}, ".dll": {}, ".so": {}, ".dylib": {}, ".bin": {}, ".o": {}, ".a": {},
	".wasm": {}, ".class": {}, ".jar": {}, ".pyc": {},
	".ttf": {}, ".otf": {}, ".woff": {}, ".woff2": {}, ".eot": {},
	".db": {}, ".sqlite": {}, ".sqlite3": {},
}

func hasBinaryExtension(path string) bool {
	_, ok := binaryExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// looksBinary sniffs up to the first 512 bytes: a null byte or a
// meaningful share of bytes outside valid UTF-8 marks the file binary.
func looksBinary(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	buffer := make([]byte, 512)
	read, err := file.Read(buffer)
	if err != nil && read == 0 {
		return false, err
	}
	return isBinaryContent(buffer[:read]), nil
}

func isBinaryContent(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	suspect := 0
	for i := 0; i < len(data); {
		if data[i] == 0 {
			return true
		}
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			suspect++
		}
		i += size
	}
	// a truncated multibyte rune at the buffer edge is not evidence
	return suspect > len(data)/10
}
