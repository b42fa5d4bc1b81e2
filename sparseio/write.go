// SPDX-License-Identifier: MIT
// Package: lvsparse/sparseio
//
// write.go — emit a COO in either interchange format.
//
// Elements are written in the scheme's current order with 1-based
// coordinates, so a sorted scheme yields a sorted file. The scheme is only
// read; it stays usable afterwards.

package sparseio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/katalvlaran/lvsparse/sparse"
)

// WriteFile creates path and writes coo in the format named by its
// extension. A rank-2 scheme may go to either format.
//
// Errors: ErrUnknownFormat, os errors, plus every writer error.
func WriteFile[V sparse.Value](path string, coo *sparse.COO[V]) (err error) {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("WriteFile: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("WriteFile: %w", cerr)
		}
	}()

	if format == FormatMatrixMarket {
		return WriteMatrixMarket(f, coo)
	}

	return WriteFROSTT(f, coo)
}

// WriteFROSTT writes coo as an extended FROSTT tensor.
//
// Errors: sparse.ErrReleased, write errors.
func WriteFROSTT[V sparse.Value](w io.Writer, coo *sparse.COO[V]) error {
	const op = "WriteFROSTT"
	if coo == nil || coo.Released() {
		return fmt.Errorf("%s: %w", op, sparse.ErrReleased)
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", coo.Rank(), coo.Len())
	writeUints(bw, coo.Sizes(), 0)
	for _, e := range coo.Elements() {
		writeEntry(bw, e)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// WriteMatrixMarket writes a rank-2 coo as a general coordinate matrix.
// Integer value types are written with the "integer" field.
//
// Errors: sparse.ErrReleased, ErrRankMismatch, write errors.
func WriteMatrixMarket[V sparse.Value](w io.Writer, coo *sparse.COO[V]) error {
	const op = "WriteMatrixMarket"
	if coo == nil || coo.Released() {
		return fmt.Errorf("%s: %w", op, sparse.ErrReleased)
	}
	if coo.Rank() != 2 {
		return fmt.Errorf("%s: rank %d: %w: %w", op, coo.Rank(), ErrRankMismatch, sparse.ErrRankMismatch)
	}
	field := "real"
	if !sparse.KindOf[uint64, uint64, V]().Value.IsFloat() {
		field = "integer"
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%%%%MatrixMarket matrix coordinate %s general\n", field)
	sizes := coo.Sizes()
	fmt.Fprintf(bw, "%d %d %d\n", sizes[0], sizes[1], coo.Len())
	for _, e := range coo.Elements() {
		writeEntry(bw, e)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func writeEntry[V sparse.Value](bw *bufio.Writer, e sparse.Element[V]) {
	writeUintsNoEOL(bw, e.Indices, 1)
	bw.WriteByte(' ')
	bw.WriteString(formatValue(e.Value))
	bw.WriteByte('\n')
}

func writeUints(bw *bufio.Writer, xs []uint64, base uint64) {
	writeUintsNoEOL(bw, xs, base)
	bw.WriteByte('\n')
}

func writeUintsNoEOL(bw *bufio.Writer, xs []uint64, base uint64) {
	var buf [20]byte
	for i, x := range xs {
		if i > 0 {
			bw.WriteByte(' ')
		}
		bw.Write(strconv.AppendUint(buf[:0], x+base, 10))
	}
}

// formatValue prints floats in shortest round-trip form and integers exactly.
func formatValue[V sparse.Value](v V) string {
	switch x := any(v).(type) {
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	default:
		return strconv.FormatInt(int64(any(v).(int8)), 10)
	}
}
