// SPDX-License-Identifier: MIT

// Package sparse is a storage engine for multi-dimensional sparse tensors.
//
// What & Why:
//
//	A tensor of rank R is described by per-dimension extents, a dimension
//	permutation and a per-dimension level annotation (dense or compressed).
//	Two representations are provided:
//
//	  - COO: an ordered list of (index-tuple, value) elements, used for bulk
//	    construction, lexicographic sorting and interchange.
//	  - Storage: the packed "pointers/indices/values" layout. A compressed
//	    dimension d owns pointers[d] and indices[d] (CSR row-pointer and
//	    column-index arrays, generalized to any rank); a dense dimension owns
//	    no overhead arrays at all. One flat values array holds the leaves.
//
//	Storage is built either from a sorted COO (FromCOO) or incrementally via
//	an Inserter, whose Insert/Expand methods enforce strictly increasing
//	lexicographic order and whose Finish method is the only way to obtain
//	the finished Storage. ToCOO converts back under any output permutation.
//	Verify checks every structural invariant and reports per-dimension
//	diagnostics instead of failing.
//
// Quick example (2×3 CSR):
//
//	| 1 0 0 |      pointers[1] = [0 1 3]
//	| 0 5 3 |  ->  indices[1]  = [0 1 2]
//	               values      = [1 5 3]
//
// Ownership:
//
//	Storage, COO and Inserter are single-owner values without internal
//	locking. FromCOO consumes its COO; exhausting a COO iterator releases it.
//
// Complexity:
//
//	FromCOO: O(nnz·R + dense fill). ToCOO: O(len(values)·R).
//	Insert: amortized O(R) plus dense fill. Verify: O(Σ len(indices)).
package sparse
