package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/cinerag/core"
)

// Key prefixes for different data types
const (
	movieRecordPrefix = "movrec"
	movieYearPrefix   = "movrecy"
)

// makeMovieKey generates a key for a movie by ID.
func makeMovieKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", movieRecordPrefix, id))
}

// makeMovieYearKey generates a composite key for the year index.
// Format: prefix:year:id
func makeMovieYearKey(year int, id core.ID) []byte {
	prefix := movieYearPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for year + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(year))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialMovieYearKey generates a partial key for year queries.
// Format: prefix:year
func makePartialMovieYearKey(year int) []byte {
	prefix := movieYearPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for year
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(year))
	return buf
}
