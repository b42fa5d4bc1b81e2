// SPDX-License-Identifier: MIT

// Package sparseio reads and writes the two plain-text interchange formats
// of the sparse engine.
//
// Matrix Market (.mtx):
//
//	%%MatrixMarket matrix coordinate real general
//	% comment lines
//	M N NNZ
//	i j value        (1-based, NNZ lines)
//
// A "symmetric" header mirrors every off-diagonal entry.
//
// Extended FROSTT (.tns):
//
//	# comment lines
//	RANK NNZ
//	S1 S2 ... SRANK
//	i1 i2 ... iRANK value   (1-based, NNZ lines)
//
// Readers produce a sparse.COO whose coordinates follow the caller's
// permutation (coordinate r of the file lands at perm[r]), ready for
// sparse.FromCOO with the same permutation. Values are parsed as float64
// and converted to the scheme's value type.
package sparseio
