// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/cinerag/core"
)

// Movie records are serialized with the MUS format, field by field in
// declaration order. Timestamps are stored as Unix microseconds; the zero
// time is stored as 0.

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return core.ID(id), nil
}

// MarshalMovie serializes a Movie to bytes.
func MarshalMovie(movie *core.Movie) []byte {
	buf := make([]byte, sizeMovie(movie))
	n := varint.Uint64.Marshal(uint64(movie.Id), buf)
	n += ord.String.Marshal(movie.Title, buf[n:])
	n += marshalStrings(movie.Genres, buf[n:])
	n += varint.Int.Marshal(movie.Year, buf[n:])
	n += varint.Float64.Marshal(movie.AvgRating, buf[n:])
	n += ord.String.Marshal(movie.Overview, buf[n:])
	n += ord.String.Marshal(movie.Content, buf[n:])
	n += marshalVector(movie.Vector, buf[n:])
	n += varint.Int64.Marshal(timeToMicro(movie.InsertedAt), buf[n:])
	varint.Int64.Marshal(timeToMicro(movie.UpdatedAt), buf[n:])
	return buf
}

// UnmarshalMovie deserializes a Movie from bytes.
func UnmarshalMovie(data []byte) (movie *core.Movie, err error) {
	defer func() {
		if err != nil {
			movie = nil
			err = fmt.Errorf("%w: %w", ErrSerializationFailed, err)
		}
	}()

	movie = &core.Movie{}
	var n, offset int

	id, n, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return
	}
	movie.Id = core.ID(id)
	offset = n

	if movie.Title, n, err = ord.String.Unmarshal(data[offset:]); err != nil {
		return
	}
	offset += n

	if movie.Genres, n, err = unmarshalStrings(data[offset:]); err != nil {
		return
	}
	offset += n

	if movie.Year, n, err = varint.Int.Unmarshal(data[offset:]); err != nil {
		return
	}
	offset += n

	if movie.AvgRating, n, err = varint.Float64.Unmarshal(data[offset:]); err != nil {
		return
	}
	offset += n

	if movie.Overview, n, err = ord.String.Unmarshal(data[offset:]); err != nil {
		return
	}
	offset += n

	if movie.Content, n, err = ord.String.Unmarshal(data[offset:]); err != nil {
		return
	}
	offset += n

	if movie.Vector, n, err = unmarshalVector(data[offset:]); err != nil {
		return
	}
	offset += n

	var micros int64
	if micros, n, err = varint.Int64.Unmarshal(data[offset:]); err != nil {
		return
	}
	movie.InsertedAt = microToTime(micros)
	offset += n

	if micros, _, err = varint.Int64.Unmarshal(data[offset:]); err != nil {
		return
	}
	movie.UpdatedAt = microToTime(micros)

	return movie, nil
}

func sizeMovie(movie *core.Movie) int {
	size := varint.Uint64.Size(uint64(movie.Id))
	size += ord.String.Size(movie.Title)
	size += sizeStrings(movie.Genres)
	size += varint.Int.Size(movie.Year)
	size += varint.Float64.Size(movie.AvgRating)
	size += ord.String.Size(movie.Overview)
	size += ord.String.Size(movie.Content)
	size += sizeVector(movie.Vector)
	size += varint.Int64.Size(timeToMicro(movie.InsertedAt))
	size += varint.Int64.Size(timeToMicro(movie.UpdatedAt))
	return size
}

func marshalStrings(values []string, buf []byte) int {
	n := varint.Int.Marshal(len(values), buf)
	for _, v := range values {
		n += ord.String.Marshal(v, buf[n:])
	}
	return n
}

func unmarshalStrings(data []byte) ([]string, int, error) {
	count, offset, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, offset, err
	}
	if count < 0 {
		return nil, offset, ErrSerializationFailed
	}
	if count == 0 {
		return nil, offset, nil
	}
	values := make([]string, count)
	for i := range values {
		var n int
		if values[i], n, err = ord.String.Unmarshal(data[offset:]); err != nil {
			return nil, offset, err
		}
		offset += n
	}
	return values, offset, nil
}

func sizeStrings(values []string) int {
	size := varint.Int.Size(len(values))
	for _, v := range values {
		size += ord.String.Size(v)
	}
	return size
}

func marshalVector(vector []float32, buf []byte) int {
	n := varint.Int.Marshal(len(vector), buf)
	for _, v := range vector {
		n += varint.Float32.Marshal(v, buf[n:])
	}
	return n
}

func unmarshalVector(data []byte) ([]float32, int, error) {
	count, offset, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, offset, err
	}
	if count < 0 {
		return nil, offset, ErrSerializationFailed
	}
	if count == 0 {
		return nil, offset, nil
	}
	vector := make([]float32, count)
	for i := range vector {
		var n int
		if vector[i], n, err = varint.Float32.Unmarshal(data[offset:]); err != nil {
			return nil, offset, err
		}
		offset += n
	}
	return vector, offset, nil
}

func sizeVector(vector []float32) int {
	size := varint.Int.Size(len(vector))
	for _, v := range vector {
		size += varint.Float32.Size(v)
	}
	return size
}

func timeToMicro(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}

func microToTime(micros int64) time.Time {
	if micros == 0 {
		return time.Time{}
	}
	return time.UnixMicro(micros).UTC()
}
