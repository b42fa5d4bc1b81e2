// SPDX-License-Identifier: MIT
// Package: lvsparse/sparseio
//
// Purpose:
//  - Parse Matrix Market and extended FROSTT files into a sparse.COO.
//
// Algorithm:
//  Stage 1 (Header): format-specific header and extents.
//  Stage 2 (Check):  file rank/extents against the caller's declaration
//                    (nil sizes ⇒ unchecked, 0 entries ⇒ wildcard).
//  Stage 3 (Entries): NNZ lines of 1-based coordinates and one value;
//                    coordinate r is stored at perm[r]. Symmetric matrices
//                    also add the mirrored entry.
//
// Complexity:
//  - O(NNZ · rank) time; reserves min(NNZ, MaxReserve) elements up front.

package sparseio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/katalvlaran/lvsparse/sparse"
)

// MaxReserve caps the element capacity reserved from a header's NNZ.
const MaxReserve = 1 << 20

// maxLine bounds a single input line.
const maxLine = 1 << 20

// Format names an interchange format.
type Format uint8

const (
	FormatMatrixMarket Format = iota + 1
	FormatFROSTT
)

// String implements fmt.Stringer.
func (f Format) String() string {
	switch f {
	case FormatMatrixMarket:
		return "mtx"
	case FormatFROSTT:
		return "tns"
	default:
		return fmt.Sprintf("format(%d)", uint8(f))
	}
}

// FormatOf selects the format from the path's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mtx":
		return FormatMatrixMarket, nil
	case ".tns":
		return FormatFROSTT, nil
	default:
		return 0, wrapf("FormatOf", ErrUnknownFormat, "%q", path)
	}
}

// Header is the metadata preceding the entries.
type Header struct {
	Format    Format
	Rank      int
	NNZ       uint64
	Sizes     []uint64
	Symmetric bool
}

// Option configures the readers.
type Option func(*options)

type options struct {
	logger *zap.SugaredLogger
}

// WithLogger routes read summaries to l (debug level). Panics on nil.
func WithLogger(l *zap.SugaredLogger) Option {
	if l == nil {
		panic("sparseio: WithLogger: logger must be non-nil")
	}

	return func(o *options) { o.logger = l }
}

func gatherOptions(opts ...Option) options {
	o := options{logger: zap.NewNop().Sugar()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// ReadFile opens path and dispatches on its extension (.mtx or .tns).
//
// Errors: ErrUnknownFormat, os errors, plus every reader error.
func ReadFile[V sparse.Value](path string, sizes, perm []uint64, opts ...Option) (*sparse.COO[V], error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ReadFile: %w", err)
	}
	defer f.Close()

	if format == FormatMatrixMarket {
		return ReadMatrixMarket[V](f, sizes, perm, opts...)
	}

	return ReadFROSTT[V](f, sizes, perm, opts...)
}

// ReadHeader opens path and parses only its header, so callers can size
// level annotations before reading the entries.
func ReadHeader(path string) (Header, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Header{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Header{}, fmt.Errorf("ReadHeader: %w", err)
	}
	defer f.Close()

	lr := newLineReader(f)
	if format == FormatMatrixMarket {
		return readMatrixMarketHeader(lr)
	}

	return readFROSTTHeader(lr)
}

// ReadMatrixMarket parses a Matrix Market coordinate matrix.
//
// Errors: ErrCorruptHeader, ErrUnsupportedMatrix, ErrMissingData,
// ErrRankMismatch, ErrSizeMismatch, ErrBadEntry, sparse.ErrBadPermutation.
func ReadMatrixMarket[V sparse.Value](r io.Reader, sizes, perm []uint64, opts ...Option) (*sparse.COO[V], error) {
	lr := newLineReader(r)
	h, err := readMatrixMarketHeader(lr)
	if err != nil {
		return nil, err
	}

	return readEntries[V](lr, h, sizes, perm, gatherOptions(opts...))
}

// ReadFROSTT parses an extended FROSTT tensor.
//
// Errors: ErrMissingData, ErrRankMismatch, ErrSizeMismatch, ErrBadEntry,
// sparse.ErrBadRank, sparse.ErrBadShape, sparse.ErrBadPermutation.
func ReadFROSTT[V sparse.Value](r io.Reader, sizes, perm []uint64, opts ...Option) (*sparse.COO[V], error) {
	lr := newLineReader(r)
	h, err := readFROSTTHeader(lr)
	if err != nil {
		return nil, err
	}

	return readEntries[V](lr, h, sizes, perm, gatherOptions(opts...))
}

func readMatrixMarketHeader(lr *lineReader) (Header, error) {
	const op = "ReadMatrixMarket"
	line, ok := lr.next()
	if !ok {
		return Header{}, wrapf(op, ErrCorruptHeader, "empty input%s", lr.errSuffix())
	}
	tok := strings.Fields(strings.ToLower(line))
	if len(tok) != 5 {
		return Header{}, wrapf(op, ErrCorruptHeader, "%q", line)
	}
	symmetric := tok[4] == "symmetric"
	if tok[0] != "%%matrixmarket" || tok[1] != "matrix" || tok[2] != "coordinate" ||
		(tok[3] != "real" && tok[3] != "integer") || (tok[4] != "general" && !symmetric) {
		return Header{}, wrapf(op, ErrUnsupportedMatrix, "%q", line)
	}
	for {
		if line, ok = lr.next(); !ok {
			return Header{}, wrapf(op, ErrMissingData, "no size line%s", lr.errSuffix())
		}
		if !strings.HasPrefix(line, "%") && strings.TrimSpace(line) != "" {
			break
		}
	}
	nums, err := parseUints(strings.Fields(line))
	if err != nil || len(nums) != 3 {
		return Header{}, wrapf(op, ErrMissingData, "size line %d: %q", lr.n, line)
	}

	return Header{
		Format:    FormatMatrixMarket,
		Rank:      2,
		NNZ:       nums[2],
		Sizes:     nums[:2],
		Symmetric: symmetric,
	}, nil
}

func readFROSTTHeader(lr *lineReader) (Header, error) {
	const op = "ReadFROSTT"
	var line string
	for {
		var ok bool
		if line, ok = lr.next(); !ok {
			return Header{}, wrapf(op, ErrMissingData, "no metadata line%s", lr.errSuffix())
		}
		if !strings.HasPrefix(line, "#") && strings.TrimSpace(line) != "" {
			break
		}
	}
	meta, err := parseUints(strings.Fields(line))
	if err != nil || len(meta) != 2 {
		return Header{}, wrapf(op, ErrMissingData, "metadata line %d: %q", lr.n, line)
	}
	if meta[0] == 0 {
		return Header{}, wrapf(op, sparse.ErrBadRank, "line %d", lr.n)
	}
	if meta[0] > maxLine {
		return Header{}, wrapf(op, ErrMissingData, "rank %d", meta[0])
	}
	rank := int(meta[0])
	sizes := make([]uint64, 0, rank)
	for len(sizes) < rank {
		line, ok := lr.next()
		if !ok {
			return Header{}, wrapf(op, ErrMissingData, "dimension size %d of %d%s", len(sizes), rank, lr.errSuffix())
		}
		nums, err := parseUints(strings.Fields(line))
		if err != nil || len(sizes)+len(nums) > rank {
			return Header{}, wrapf(op, ErrMissingData, "dimension sizes line %d: %q", lr.n, line)
		}
		sizes = append(sizes, nums...)
	}

	return Header{Format: FormatFROSTT, Rank: rank, NNZ: meta[1], Sizes: sizes}, nil
}

func readEntries[V sparse.Value](lr *lineReader, h Header, sizes, perm []uint64, o options) (*sparse.COO[V], error) {
	op := "read " + h.Format.String()
	if perm == nil {
		perm = make([]uint64, h.Rank)
		for r := range perm {
			perm[r] = uint64(r)
		}
	}
	if len(perm) != h.Rank {
		return nil, fmt.Errorf("%s: file rank %d, permutation rank %d: %w: %w", op, h.Rank, len(perm), ErrRankMismatch, sparse.ErrRankMismatch)
	}
	if sizes != nil {
		if len(sizes) != h.Rank {
			return nil, fmt.Errorf("%s: file rank %d, declared rank %d: %w: %w", op, h.Rank, len(sizes), ErrRankMismatch, sparse.ErrRankMismatch)
		}
		for r, sz := range sizes {
			if sz != 0 && sz != h.Sizes[r] {
				return nil, fmt.Errorf("%s: dim %d: file %d, declared %d: %w: %w", op, r, h.Sizes[r], sz, ErrSizeMismatch, sparse.ErrSizeMismatch)
			}
		}
	}
	coo, err := sparse.NewPermutedCOO[V](h.Sizes, perm, sparse.WithCapacity(int(min(h.NNZ, MaxReserve))))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	indices := make([]uint64, h.Rank)
	for k := uint64(0); k < h.NNZ; k++ {
		line, ok := lr.nextData()
		if !ok {
			return nil, wrapf(op, ErrMissingData, "entry %d of %d%s", k+1, h.NNZ, lr.errSuffix())
		}
		f := strings.Fields(line)
		if len(f) < h.Rank+1 {
			return nil, wrapf(op, ErrBadEntry, "line %d: %q", lr.n, line)
		}
		for r := 0; r < h.Rank; r++ {
			u, err := strconv.ParseUint(f[r], 10, 64)
			if err != nil || u == 0 {
				return nil, wrapf(op, ErrBadEntry, "line %d: index %q", lr.n, f[r])
			}
			indices[perm[r]] = u - 1
		}
		v, err := strconv.ParseFloat(f[h.Rank], 64)
		if err != nil {
			return nil, wrapf(op, ErrBadEntry, "line %d: value %q", lr.n, f[h.Rank])
		}
		if err = coo.Add(indices, V(v)); err != nil {
			return nil, fmt.Errorf("%s: line %d: %w: %w", op, lr.n, ErrBadEntry, err)
		}
		if h.Symmetric && indices[0] != indices[1] {
			if err = coo.Add([]uint64{indices[1], indices[0]}, V(v)); err != nil {
				return nil, fmt.Errorf("%s: line %d (mirror): %w: %w", op, lr.n, ErrBadEntry, err)
			}
		}
	}
	o.logger.Debugw("read tensor", "format", h.Format.String(), "rank", h.Rank, "nnz", h.NNZ, "elements", coo.Len(), "symmetric", h.Symmetric)

	return coo, nil
}

// lineReader numbers lines and remembers the scanner error.
type lineReader struct {
	sc *bufio.Scanner
	n  int
}

func newLineReader(r io.Reader) *lineReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)

	return &lineReader{sc: sc}
}

func (lr *lineReader) next() (string, bool) {
	if !lr.sc.Scan() {
		return "", false
	}
	lr.n++

	return lr.sc.Text(), true
}

// nextData skips blank lines.
func (lr *lineReader) nextData() (string, bool) {
	for {
		line, ok := lr.next()
		if !ok || strings.TrimSpace(line) != "" {
			return line, ok
		}
	}
}

func (lr *lineReader) errSuffix() string {
	if err := lr.sc.Err(); err != nil && !errors.Is(err, io.EOF) {
		return ": " + err.Error()
	}

	return ""
}

func parseUints(fields []string) ([]uint64, error) {
	out := make([]uint64, len(fields))
	for i, f := range fields {
		u, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return nil, err
		}
		out[i] = u
	}

	return out, nil
}
