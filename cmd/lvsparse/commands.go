// SPDX-License-Identifier: MIT
// Package: lvsparse/cmd/lvsparse
//
// commands.go — the cobra command tree.
//
//	lvsparse info    <file>            header and packed layout summary
//	lvsparse verify  <file>            structural verification report
//	lvsparse convert <in> <out>        pack, unpack, write (.mtx/.tns by extension)
//	lvsparse gen     <out>             synthetic fixture
//	lvsparse save    <file>            pack and persist into the SQLite store
//	lvsparse load    <id>              restore from the store (optionally --out)
//	lvsparse list                      stored tensors
//	lvsparse delete  <id>              remove a stored tensor
//
// Every command writes its result to cmd.OutOrStdout(); logs go to stderr.

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/lvsparse/engine"
	"github.com/katalvlaran/lvsparse/sparse"
	"github.com/katalvlaran/lvsparse/sparseio"
	"github.com/katalvlaran/lvsparse/store"
)

// app carries the resolved configuration shared by every command.
type app struct {
	cfgPath string
	flags   Config
	cfg     Config
	logger  *zap.SugaredLogger
}

// overrides lists the persistent flags that replace config file values.
var overrides = []struct {
	name string
	set  func(dst *Config, src Config)
}{
	{"levels", func(d *Config, s Config) { d.Levels = s.Levels }},
	{"value", func(d *Config, s Config) { d.Value = s.Value }},
	{"pointer", func(d *Config, s Config) { d.Pointer = s.Pointer }},
	{"index", func(d *Config, s Config) { d.Index = s.Index }},
	{"db", func(d *Config, s Config) { d.DB = s.DB }},
	{"log-level", func(d *Config, s Config) { d.LogLevel = s.LogLevel }},
	{"seed", func(d *Config, s Config) { d.Seed = s.Seed }},
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop().Sugar()}
	def := defaultConfig()

	root := &cobra.Command{
		Use:           "lvsparse",
		Short:         "Inspect, convert and store sparse tensors",
		Long:          "lvsparse packs Matrix Market and FROSTT files into per-dimension dense/compressed storage, verifies them and keeps snapshots in SQLite.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "", "TOML configuration file")
	pf.StringVar(&a.flags.Levels, "levels", def.Levels, "comma separated level types, e.g. d,c (default: dense then compressed)")
	pf.StringVar(&a.flags.Value, "value", def.Value, "value type: f64, f32, i64, i32, i16, i8")
	pf.StringVar(&a.flags.Pointer, "pointer", def.Pointer, "pointer overhead width: index, 64, 32, 16, 8")
	pf.StringVar(&a.flags.Index, "index", def.Index, "index overhead width: index, 64, 32, 16, 8")
	pf.StringVar(&a.flags.DB, "db", def.DB, "SQLite database path")
	pf.StringVar(&a.flags.LogLevel, "log-level", def.LogLevel, "log level: debug, info, warn, error")
	pf.Int64Var(&a.flags.Seed, "seed", def.Seed, "seed for gen")

	root.AddCommand(
		a.infoCmd(),
		a.verifyCmd(),
		a.convertCmd(),
		a.genCmd(),
		a.saveCmd(),
		a.loadCmd(),
		a.listCmd(),
		a.deleteCmd(),
	)

	return root
}

// setup loads the config file, applies changed flags and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.cfgPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	for _, o := range overrides {
		if flags.Changed(o.name) {
			o.set(&cfg, a.flags)
		}
	}
	a.cfg = cfg
	if a.logger, err = newLogger(cfg.LogLevel); err != nil {
		return err
	}

	return nil
}

// pack reads path into a fresh registry with the configured kind and levels.
func (a *app) pack(path string) (*engine.Registry, engine.Handle, sparseio.Header, error) {
	h, err := sparseio.ReadHeader(path)
	if err != nil {
		return nil, engine.NilHandle, h, err
	}
	req, err := a.cfg.request(path, h.Rank)
	if err != nil {
		return nil, engine.NilHandle, h, err
	}
	reg := engine.NewRegistry(engine.WithLogger(a.logger))
	id, err := reg.New(req)
	if err != nil {
		return nil, engine.NilHandle, h, err
	}

	return reg, id, h, nil
}

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Print the header and packed layout of a tensor file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, id, h, err := a.pack(args[0])
			if err != nil {
				return err
			}
			t, err := reg.Tensor(id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "format:    %s\n", h.Format)
			fmt.Fprintf(out, "symmetric: %t\n", h.Symmetric)
			fmt.Fprintf(out, "entries:   %d\n", h.NNZ)
			describe(out, t)
			a.logger.Infow("info", "path", args[0], "kind", t.Kind(), "values", t.NumValues())

			return reg.Release(id)
		},
	}
}

// describe prints the layout of t.
func describe(out io.Writer, t sparse.Tensor) {
	fmt.Fprintf(out, "kind:      %s\n", t.Kind())
	fmt.Fprintf(out, "rank:      %d\n", t.Rank())
	fmt.Fprintf(out, "sizes:     %v\n", t.Sizes())
	fmt.Fprintf(out, "levels:    %v\n", t.Levels())
	fmt.Fprintf(out, "values:    %d\n", t.NumValues())
}

func (a *app) verifyCmd() *cobra.Command {
	var classic bool
	cmd := &cobra.Command{
		Use:   "verify <file>",
		Short: "Pack a tensor file and check every structural invariant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, id, _, err := a.pack(args[0])
			if err != nil {
				return err
			}
			var opts []sparse.VerifyOption
			opts = append(opts, sparse.WithVerifyLogger(a.logger))
			if classic {
				opts = append(opts, sparse.WithClassicBounds())
			}
			rep, err := reg.Verify(id, opts...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, d := range rep.Diagnostics {
				fmt.Fprintln(out, d.String())
			}
			if !rep.OK() {
				return rep.Err()
			}
			fmt.Fprintln(out, "ok")

			return nil
		},
	}
	cmd.Flags().BoolVar(&classic, "classic", false, "also apply the legacy pointer/index bound heuristics")

	return cmd
}

func (a *app) convertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Pack a tensor file and write it back out in the format of <out>",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, id, _, err := a.pack(args[0])
			if err != nil {
				return err
			}
			t, err := reg.Tensor(id)
			if err != nil {
				return err
			}
			n, err := writeTensor(t, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d elements to %s\n", n, args[1])
			a.logger.Infow("converted", "in", args[0], "out", args[1], "elements", n)

			return reg.Release(id)
		},
	}
}

func (a *app) genCmd() *cobra.Command {
	var (
		shape, band string
		g           genSpec
	)
	cmd := &cobra.Command{
		Use:   "gen <out>",
		Short: "Write a synthetic tensor (random, diagonal or banded)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if g.shape, err = parseUintList(shape); err != nil {
				return fmt.Errorf("--shape: %w", err)
			}
			if band != "" {
				if g.band, err = parseIntList(band); err != nil {
					return fmt.Errorf("--band: %w", err)
				}
			}
			k, err := a.cfg.kind()
			if err != nil {
				return err
			}
			g.seed = a.cfg.Seed
			n, err := generateFile(k.Value, g, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d elements to %s\n", n, args[0])
			a.logger.Infow("generated", "out", args[0], "elements", n, "seed", g.seed)

			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&shape, "shape", "8,8", "comma separated dimension sizes")
	f.Float64Var(&g.density, "density", 0.1, "per-coordinate probability (random sweep)")
	f.IntVar(&g.nnz, "nnz", 0, "exact number of distinct random elements (overrides --density)")
	f.BoolVar(&g.diag, "diagonal", false, "hyper-diagonal of extent shape[0] and rank len(shape)")
	f.StringVar(&band, "band", "", "lower,upper band widths for a 2-d banded matrix")
	f.BoolVar(&g.shuffle, "shuffle", false, "emit elements in random order")
	f.IntVar(&g.lo, "min", 1, "smallest element value")
	f.IntVar(&g.hi, "max", 9, "largest element value")

	return cmd
}

func (a *app) openStore(cmd *cobra.Command) (*store.Store, error) {
	return store.Open(cmd.Context(), a.cfg.DB, store.WithLogger(a.logger))
}

func (a *app) saveCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "save <file>",
		Short: "Pack a tensor file and persist its snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, id, _, err := a.pack(args[0])
			if err != nil {
				return err
			}
			t, err := reg.Tensor(id)
			if err != nil {
				return err
			}
			st, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			if name == "" {
				name = args[0]
			}
			rec, err := st.Save(cmd.Context(), name, t)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rec.ID)

			return reg.Release(id)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "record name (default: the file path)")

	return cmd
}

func (a *app) loadCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "load <id>",
		Short: "Restore a stored tensor, print its layout and optionally write it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("id %q: %w", args[0], err)
			}
			st, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			t, rec, err := st.Load(cmd.Context(), id)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "name:      %s\n", rec.Name)
			describe(w, t)
			if out == "" {
				return nil
			}
			n, err := writeTensor(t, out)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "wrote %d elements to %s\n", n, out)

			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "write the restored tensor to this .mtx/.tns file")

	return cmd
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored tensors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			recs, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tKIND\tRANK\tVALUES\tCREATED")
			for _, r := range recs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n", r.ID, r.Name, r.Kind, r.Rank, r.NumValues, r.CreatedAt.Format("2006-01-02 15:04:05"))
			}

			return tw.Flush()
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored tensor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("id %q: %w", args[0], err)
			}
			st, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			if err = st.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)

			return nil
		},
	}
}

func parseUintList(s string) ([]uint64, error) {
	parts := strings.Split(s, ",")
	out := make([]uint64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}

func parseIntList(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}
