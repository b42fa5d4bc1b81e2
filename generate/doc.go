// SPDX-License-Identifier: MIT

// Package generate produces deterministic coordinate-scheme fixtures for
// tests, benchmarks and the CLI.
//
// Generators:
//
//   - RandomSparse(sizes, p): Bernoulli sweep, every coordinate kept with
//     probability p.
//   - RandomNNZ(sizes, nnz): exactly nnz distinct uniform coordinates.
//   - Diagonal(n, rank): the hyper-diagonal (i, ..., i).
//   - Banded(rows, cols, lower, upper): a band matrix.
//
// Stochastic generators need WithSeed or WithRand; a fixed seed always
// yields the same element sequence. WithShuffle makes the resulting scheme
// unsorted, which exercises the sort inside sparse.FromCOO.
package generate
