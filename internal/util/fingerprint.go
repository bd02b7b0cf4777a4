package util

import (
	"fmt"
	"io"
	"os"

	"github.com/zeebo/xxh3"
)

// FingerprintSize is the number of leading bytes hashed by CalculateFileFingerprint.
const FingerprintSize = 4096

// CalculateFileFingerprint hashes the first min(limit, FingerprintSize) bytes
// of a file with xxh3. Appending to the file does not change the fingerprint
// once the file is longer than the hashed prefix.
func CalculateFileFingerprint(filepath string, limit int64) (string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if limit <= 0 || limit > FingerprintSize {
		limit = FingerprintSize
	}

	data := make([]byte, limit)
	n, err := io.ReadFull(file, data)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}

	return fmt.Sprintf("%016x", xxh3.Hash(data[:n])), nil
}
