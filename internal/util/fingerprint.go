package util

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

const fingerprintTail = 2048

// FileState is the change-detection snapshot of a file
type FileState struct {
	Path        string
	ModTime     int64
	Size        int64
	Fingerprint string
}

// Changed reports whether other describes different content
func (s FileState) Changed(other FileState) bool {
	return s.Size != other.Size || s.ModTime != other.ModTime || s.Fingerprint != other.Fingerprint
}

// StatFile captures size, mtime and the fingerprint of path
func StatFile(path string) (FileState, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return FileState{}, err
	}
	fp, err := CalculateFileFingerprint(path)
	if err != nil {
		return FileState{}, err
	}
	return FileState{
		Path:        path,
		ModTime:     stat.ModTime().UnixNano(),
		Size:        stat.Size(),
		Fingerprint: fp,
	}, nil
}

// CalculateFileFingerprint returns the CRC32 of the last 2KB of a file.
// Entry logs are append-only, so the tail changes whenever content does.
func CalculateFileFingerprint(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return "", err
	}

	readSize := int64(fingerprintTail)
	if stat.Size() < readSize {
		readSize = stat.Size()
	}
	if _, err := file.Seek(-readSize, io.SeekEnd); err != nil {
		return "", err
	}

	data := make([]byte, readSize)
	if _, err := io.ReadFull(file, data); err != nil {
		return "", err
	}

	return fmt.Sprintf("%08x", crc32.ChecksumIEEE(data)), nil
}
