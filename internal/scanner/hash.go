package scanner

import (
	"crypto/md5"
	"fmt"
	"hash"
	"io"
	"os"

	"golang.org/x/crypto/sha3"
)

// hashBufferSize bounds memory per digest regardless of image size.
const hashBufferSize = 4096

// fileMD5 returns the lowercase hex MD5 digest of the file at path. MD5 is
// the catalog's compatibility checksum, not an integrity guarantee; sha3_256
// is the stronger companion digest.
func fileMD5(path string) (string, error) {
	return fileDigest(path, md5.New())
}

// fileSHA3 returns the lowercase hex SHA3-256 digest of the file at path.
func fileSHA3(path string) (string, error) {
	return fileDigest(path, sha3.New256())
}

func fileDigest(path string, h hash.Hash) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	buf := make([]byte, hashBufferSize)
	for {
		n, err := file.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
