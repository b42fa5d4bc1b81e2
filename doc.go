// Package lvsparse is an in-memory engine for multi-dimensional sparse
// arrays: build them from coordinates or by ordered insertion, pack them into
// a per-dimension dense/compressed layout under any dimension ordering,
// unpack them again, and verify the packed structure at run time.
//
// What is in the box?
//
//	A small family of packages with explicit errors and no cgo:
//		• Coordinate schemes (COO) for bulk construction and interchange
//		• Packed storage: pointers/indices per compressed dimension + values
//		• Lexicographic and expanded insertion without an intermediate COO
//		• Lossless COO ↔ packed round trips under any permutation
//		• A structural verifier that reports every violation per dimension
//		• Matrix Market and extended FROSTT readers/writers
//		• Opaque handles for callers that cannot hold Go generics
//		• SQLite snapshots, seeded fixture generators and a CLI
//
// Packages:
//
//	sparse/       — COO, Storage[P,I,V], Inserter, Verify, Snapshot, Flat
//	sparseio/     — .mtx / .tns parsing and writing, TENSOR<n> lookup
//	engine/       — uuid-handle Registry and the Action-multiplexed New
//	store/        — SQLite persistence of CBOR snapshots
//	generate/     — random, diagonal and banded fixtures (seeded)
//	cmd/lvsparse/ — info, verify, convert, gen, save, load, list, delete
//
// Quick ASCII example, the 2×3 matrix
//
//	    ┌         ┐
//	    │ 1  .  . │
//	    │ .  5  3 │
//	    └         ┘
//
// packed with levels (dense, compressed) is
//
//	pointers[1] = [0 1 3]
//	indices[1]  = [0 1 2]
//	values      = [1 5 3]
//
//	go get github.com/katalvlaran/lvsparse
package lvsparse
