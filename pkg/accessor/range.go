// Copyright 2024 Google Inc. All Rights Reserved.
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

package accessor

import "fmt"

// BytesRange is a half-open byte interval [Offset, Offset+Size). Either
// endpoint may be left unspecified on input:
//
//   - HasOffset && HasSize:   an ordinary range, fully resolved.
//   - HasOffset && !HasSize:  an open-ended range, "from Offset to the end".
//   - !HasOffset && HasSize:  a suffix range, "the last Size bytes".
//   - !HasOffset && !HasSize: the whole object.
//
// A BytesRange must be resolved with Resolve against a known content length
// before it can be used by the RangePartitioner, which only ever sees fully
// specified ranges.
type BytesRange struct {
	Offset    int64
	Size      int64
	HasOffset bool
	HasSize   bool
}

// FullRange returns the zero-value BytesRange, meaning "the whole object".
func FullRange() BytesRange { return BytesRange{} }

// NewRange returns a fully specified range [offset, offset+size).
func NewRange(offset, size int64) BytesRange {
	return BytesRange{Offset: offset, Size: size, HasOffset: true, HasSize: true}
}

// RangeFrom returns an open-ended range starting at offset.
func RangeFrom(offset int64) BytesRange {
	return BytesRange{Offset: offset, HasOffset: true}
}

// SuffixRange returns a suffix range of the last size bytes.
func SuffixRange(size int64) BytesRange {
	return BytesRange{Size: size, HasSize: true}
}

// IsFullySpecified reports whether both endpoints of the range are known,
// i.e. it can be handed to the RangePartitioner without consulting the
// origin's content length.
func (r BytesRange) IsFullySpecified() bool {
	return r.HasOffset && r.HasSize
}

// IsFull reports whether r denotes the whole object.
func (r BytesRange) IsFull() bool {
	return !r.HasOffset && !r.HasSize
}

// BytesContentRange is a BytesRange resolved against a known total object
// length.
type BytesContentRange struct {
	Offset int64
	Size   int64
	Total  int64
}

// Resolve normalizes r against total, the object's content length,
// producing a fully specified BytesContentRange. It is the Go analogue of
// BytesContentRange::from_bytes_range in the source specification.
func Resolve(total int64, r BytesRange) (BytesContentRange, error) {
	switch {
	case r.IsFull():
		return BytesContentRange{Offset: 0, Size: total, Total: total}, nil
	case r.HasOffset && r.HasSize:
		if r.Offset+r.Size > total {
			size := total - r.Offset
			if size < 0 {
				size = 0
			}
			return BytesContentRange{Offset: r.Offset, Size: size, Total: total}, nil
		}
		return BytesContentRange{Offset: r.Offset, Size: r.Size, Total: total}, nil
	case r.HasOffset && !r.HasSize:
		if r.Offset > total {
			return BytesContentRange{}, fmt.Errorf("accessor: range offset %d beyond content length %d", r.Offset, total)
		}
		return BytesContentRange{Offset: r.Offset, Size: total - r.Offset, Total: total}, nil
	default: // suffix range: !HasOffset && HasSize
		size := r.Size
		if size > total {
			size = total
		}
		return BytesContentRange{Offset: total - size, Size: size, Total: total}, nil
	}
}

// ToBytesRange converts a resolved content range back into a fully
// specified BytesRange, ready for the RangePartitioner.
func (bcr BytesContentRange) ToBytesRange() BytesRange {
	return NewRange(bcr.Offset, bcr.Size)
}
