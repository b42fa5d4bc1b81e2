// SPDX-License-Identifier: MIT
// Package: sparse
//
// Purpose:
//  - Structural verifier over a built Storage. Reports rather than fails:
//    every violation becomes a Diagnostic tagged with its storage dimension.
//
// Checks (in order):
//  Stage 1 (Whole tensor): rank >= 1; rev is a permutation of 0..rank-1;
//           one pointers and one indices array per dimension (else stop).
//  Stage 2 (Per dimension): positive extent (else stop); dense dimensions
//           carry no indices; compressed dimensions satisfy the pointer
//           length bounds, pointers sorted, pointers[0] == 0,
//           pointers[last] == len(indices), indices < extent, indices
//           strictly increasing inside each segment, and the cross-dimension
//           growth checks.
//  Stage 3 (Values): len(values) equals the number of leaf positions.
//
// Complexity:
//  - O(rank + Σ len(pointers[d]) + Σ len(indices[d])), no allocation besides
//    the report and one rank-sized bitmap.
//
// AI-Hints:
//  - Corrupt a copy via Dup + Swap* and call Verify to exercise the checks.
//  - Report.Err wraps ErrCorrupt for callers that want a plain error.

package sparse

import (
	"fmt"
	"strings"
)

// Code identifies one verifier check.
type Code uint8

const (
	CodeRank           Code = iota + 1 // rank is 0
	CodeRevLength                      // len(rev) != rank
	CodeRevRange                       // rev entry >= rank
	CodeRevDuplicate                   // rev is not a permutation
	CodeArrayCount                     // pointers/indices array count != rank
	CodeExtent                         // extent is 0
	CodeOrphanIndices                  // dense dimension with indices
	CodePointerLength                  // pointer array length out of bounds
	CodeIndexLength                    // indices longer than the cumulative size
	CodePointerOrder                   // pointers not sorted
	CodePointerFirst                   // pointers[0] != 0
	CodePointerLast                    // pointers[last] != len(indices)
	CodeIndexRange                     // index >= extent
	CodeSegmentOrder                   // indices not strictly increasing in a segment
	CodeCrossDim                       // inconsistent growth across dimensions
	CodeValueCount                     // len(values) != leaf positions
)

var codeNames = map[Code]string{
	CodeRank:          "rank",
	CodeRevLength:     "rev-length",
	CodeRevRange:      "rev-range",
	CodeRevDuplicate:  "rev-duplicate",
	CodeArrayCount:    "array-count",
	CodeExtent:        "extent",
	CodeOrphanIndices: "orphan-indices",
	CodePointerLength: "pointer-length",
	CodeIndexLength:   "index-length",
	CodePointerOrder:  "pointer-order",
	CodePointerFirst:  "pointer-first",
	CodePointerLast:   "pointer-last",
	CodeIndexRange:    "index-range",
	CodeSegmentOrder:  "segment-order",
	CodeCrossDim:      "cross-dim",
	CodeValueCount:    "value-count",
}

// String implements fmt.Stringer.
func (c Code) String() string {
	if n, ok := codeNames[c]; ok {
		return n
	}

	return fmt.Sprintf("code(%d)", uint8(c))
}

// Diagnostic is one verifier finding. Dim is -1 for whole-tensor checks.
type Diagnostic struct {
	Dim     int
	Code    Code
	Message string
}

// String implements fmt.Stringer.
func (d Diagnostic) String() string {
	if d.Dim < 0 {
		return fmt.Sprintf("%s: %s", d.Code, d.Message)
	}

	return fmt.Sprintf("dim %d: %s: %s", d.Dim, d.Code, d.Message)
}

// Report aggregates the diagnostics of one Verify call.
type Report struct {
	Diagnostics []Diagnostic
}

// OK reports whether no violation was found.
func (r *Report) OK() bool { return len(r.Diagnostics) == 0 }

// Has reports whether at least one diagnostic carries code c.
func (r *Report) Has(c Code) bool {
	for _, d := range r.Diagnostics {
		if d.Code == c {
			return true
		}
	}

	return false
}

// Err returns nil when OK, else an error wrapping ErrCorrupt that lists
// every diagnostic.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	msgs := make([]string, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		msgs[i] = d.String()
	}

	return fmt.Errorf("%w: %s", ErrCorrupt, strings.Join(msgs, "; "))
}

func (r *Report) add(dim int, c Code, format string, args ...any) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{Dim: dim, Code: c, Message: fmt.Sprintf(format, args...)})
}

// Verify checks every structural invariant and returns the findings.
// Checks do not short-circuit unless a prerequisite failure makes the rest
// meaningless (array-count mismatch, zero extent).
func (s *Storage[P, I, V]) Verify(opts ...VerifyOption) *Report {
	o := gatherVerifyOptions(opts...)
	r := s.verify(o)
	for _, d := range r.Diagnostics {
		o.logger.Warnw("bad tensor", "dim", d.Dim, "code", d.Code.String(), "detail", d.Message)
	}

	return r
}

func (s *Storage[P, I, V]) verify(o verifyOptions) *Report {
	r := &Report{}
	rank := len(s.sizes)
	if rank == 0 {
		r.add(-1, CodeRank, "rank == 0")
		return r
	}
	s.verifyRev(r, rank)
	if len(s.pointers) != rank {
		r.add(-1, CodeArrayCount, "len(pointers) %d != rank %d", len(s.pointers), rank)
		return r
	}
	if len(s.indices) != rank {
		r.add(-1, CodeArrayCount, "len(indices) %d != rank %d", len(s.indices), rank)
		return r
	}

	allDense := true
	cum := uint64(1)       // product of extents 0..d
	positions := uint64(1) // sub-structures reaching dimension d
	var prevPtr, prevIdx uint64
	for d := 0; d < rank; d++ {
		size := s.sizes[d]
		if size == 0 {
			r.add(d, CodeExtent, "size == 0")
			return r
		}
		cum = satMul(cum, size)
		ptr, idx := s.pointers[d], s.indices[d]
		if len(ptr) == 0 {
			if len(idx) != 0 {
				r.add(d, CodeOrphanIndices, "len(ptr) == 0 and len(idx) == %d", len(idx))
			}
			positions = satMul(positions, size)
			continue
		}
		np, ni := uint64(len(ptr)), uint64(len(idx))

		// Pointer length bounds.
		switch {
		case d == 0:
			if np < 2 {
				r.add(d, CodePointerLength, "len(ptr) %d < 2", np)
			}
			if np > max(2, ni+1) {
				r.add(d, CodePointerLength, "len(ptr) %d > max(2, len(idx)+1)", np)
			}
		case allDense:
			if np != cum/size+1 {
				r.add(d, CodePointerLength, "len(ptr) %d != %d (previous dimensions dense)", np, cum/size+1)
			}
		default:
			if np != satAdd(positions, 1) {
				r.add(d, CodePointerLength, "len(ptr) %d != parent positions %d + 1", np, positions)
			}
			if o.classic && np > ni+1 {
				r.add(d, CodePointerLength, "len(ptr) %d > len(idx)+1", np)
			}
		}
		if np > satAdd(cum, 1) {
			r.add(d, CodePointerLength, "len(ptr) %d > cum_size+1", np)
		}
		if ni > cum {
			r.add(d, CodeIndexLength, "len(idx) %d > cum_size %d", ni, cum)
		}

		// Pointer contents; any failure disables the segment check.
		checkSegments := true
		for k := 1; k < len(ptr); k++ {
			if ptr[k] < ptr[k-1] {
				r.add(d, CodePointerOrder, "ptr[%d]=%d < ptr[%d]=%d", k, ptr[k], k-1, ptr[k-1])
				checkSegments = false
				break
			}
		}
		if ptr[0] != 0 {
			r.add(d, CodePointerFirst, "ptr[0] = %d", ptr[0])
			checkSegments = false
		}
		if uint64(ptr[np-1]) != ni {
			r.add(d, CodePointerLast, "ptr[-1] = %d, len(idx) = %d", ptr[np-1], ni)
			checkSegments = false
		}
		for k, i := range idx {
			if uint64(i) >= size {
				r.add(d, CodeIndexRange, "idx[%d] = %d >= %d", k, i, size)
				checkSegments = false
				break
			}
		}
		if checkSegments {
			for k := 1; k < len(ptr); k++ {
				lo, hi := uint64(ptr[k-1]), uint64(ptr[k])
				if !strictlyIncreasing(idx[lo:hi]) {
					r.add(d, CodeSegmentOrder, "segment %d not strictly increasing", k-1)
				}
			}
		}

		// Cross-dimension growth.
		if prevIdx >= np {
			r.add(d, CodeCrossDim, "len(prev_idx) %d >= len(ptr) %d", prevIdx, np)
		}
		if prevIdx > ni {
			r.add(d, CodeCrossDim, "len(prev_idx) %d > len(idx) %d", prevIdx, ni)
		}
		if o.classic {
			if prevPtr > np+1 {
				r.add(d, CodeCrossDim, "len(prev_ptr) %d > len(ptr)+1", prevPtr)
			}
			if prevPtr > ni+2 {
				r.add(d, CodeCrossDim, "len(prev_ptr) %d > len(idx)+2", prevPtr)
			}
		}
		prevPtr, prevIdx = np, ni
		positions = ni
		allDense = false
	}

	if nv := uint64(len(s.values)); nv != positions {
		if allDense {
			r.add(-1, CodeValueCount, "len(values) %d != cum_size %d", nv, cum)
		} else {
			r.add(-1, CodeValueCount, "len(values) %d != leaf positions %d", nv, positions)
		}
	}

	return r
}

// verifyRev checks that rev is a permutation of 0..rank-1.
func (s *Storage[P, I, V]) verifyRev(r *Report, rank int) {
	if len(s.rev) != rank {
		r.add(-1, CodeRevLength, "len(rev) %d != rank %d", len(s.rev), rank)
		return
	}
	seen := make([]bool, rank)
	for k, v := range s.rev {
		if v >= uint64(rank) {
			r.add(-1, CodeRevRange, "rev[%d] = %d >= %d", k, v, rank)
			continue
		}
		seen[v] = true
	}
	for v, ok := range seen {
		if !ok {
			r.add(-1, CodeRevDuplicate, "dimension %d missing from rev", v)
		}
	}
}

func strictlyIncreasing[I Overhead](seg []I) bool {
	for k := 1; k < len(seg); k++ {
		if seg[k] <= seg[k-1] {
			return false
		}
	}

	return true
}
