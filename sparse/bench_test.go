// Package sparse_test provides benchmarks for packing, unpacking and
// verification over deterministic random tensors.
package sparse_test

import (
	"fmt"
	"testing"

	"github.com/katalvlaran/lvsparse/sparse"
)

// benchNNZ are the element counts to benchmark on a 1000×1000 matrix.
var benchNNZ = []int{1_000, 10_000, 100_000}

// sinks to defeat dead-code elimination
var (
	sinkS *sparse.Storage[uint64, uint64, float64]
	sinkC *sparse.COO[float64]
	sinkB bool
)

func BenchmarkFromCOO(b *testing.B) {
	b.ReportAllocs()
	sizes := []uint64{1000, 1000}
	for _, n := range benchNNZ {
		entries := randomEntries(1337, sizes, n)
		b.Run(fmt.Sprintf("nnz=%d", n), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				b.StopTimer()
				coo := mustCOO(b, sizes, entries)
				b.StartTimer()
				s, err := sparse.FromCOO[uint64, uint64, float64](coo, id2, dc)
				if err != nil {
					b.Fatal(err)
				}
				sinkS = s
			}
		})
	}
}

func BenchmarkInsert(b *testing.B) {
	b.ReportAllocs()
	sizes := []uint64{1000, 1000}
	for _, n := range benchNNZ {
		entries := sortedEntries(randomEntries(4242, sizes, n))
		b.Run(fmt.Sprintf("nnz=%d", n), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				in, err := sparse.NewInserter[uint64, uint64, float64](sizes, id2, dc)
				if err != nil {
					b.Fatal(err)
				}
				for _, e := range entries {
					if err = in.Insert(e.idx, e.val); err != nil {
						b.Fatal(err)
					}
				}
				if sinkS, err = in.Finish(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkToCOO(b *testing.B) {
	b.ReportAllocs()
	sizes := []uint64{1000, 1000}
	for _, n := range benchNNZ {
		s := mustStorage(b, sizes, cc, randomEntries(99, sizes, n))
		b.Run(fmt.Sprintf("nnz=%d", n), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				coo, err := s.ToCOO(id2)
				if err != nil {
					b.Fatal(err)
				}
				sinkC = coo
			}
		})
	}
}

func BenchmarkVerify(b *testing.B) {
	b.ReportAllocs()
	sizes := []uint64{1000, 1000}
	for _, n := range benchNNZ {
		s := mustStorage(b, sizes, dc, randomEntries(7, sizes, n))
		b.Run(fmt.Sprintf("nnz=%d", n), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				sinkB = s.Verify().OK()
			}
		})
	}
}
