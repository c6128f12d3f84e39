// Package parquet ties the schema, codec, page, column, and record layers
// into a file handle and a row-at-a-time reader, the way the teacher's own
// parquet package wires file.go/column.go/reader.go/config.go together.
package parquet

import (
	"runtime"

	"github.com/rionmonster/hardwood-sub002/codec"
)

// Config carries the options recognized by OpenFile and NewReader (§6's
// configuration table). Unlike the teacher's split FileConfig/ReaderConfig,
// this module shares one Config between both call sites: VerifyChecksums
// and the codec provider matter at file-open time (dictionary pages aren't
// read until a Reader starts pulling batches, but the provider has to be
// fixed before that happens) just as much as at read time, and splitting
// them would only duplicate fields.
type Config struct {
	// ThreadCount bounds how many column.Iterators may run their background
	// decode goroutine concurrently (see column.NewPool); NewReader sizes a
	// shared column.Pool from this value and every Iterator it starts,
	// flat-path or nested-path, acquires a pool slot before doing any decode
	// work. It does not limit how many Iterators exist, only how many are
	// decoding at once — a wide projection still gets one goroutine per leaf,
	// they just take turns running ThreadCount at a time.
	ThreadCount int

	// EnableSIMD gates the CPU-feature-detected fast path in
	// internal/bits.CountByte (the def-level "how many of these positions
	// carry a value" tally used throughout pages/column/parquet), the same
	// kind of golang.org/x/sys/cpu-conditioned choice the teacher's
	// bits_amd64.go makes between memsetAVX2 and a scalar loop. This module
	// has no hand-written assembly to gate, so the fast path here is a pure
	// Go SWAR word-at-a-time count rather than a vector instruction, but the
	// CPU feature check and the disable switch are real.
	//
	// UseLibdeflate names the reference C++ implementation's optional native
	// deflate backend. No cgo libdeflate binding is wired in (see DESIGN.md);
	// the field is accepted for API compatibility and otherwise unused.
	EnableSIMD    bool
	UseLibdeflate bool

	// BatchMemoryTarget is the target byte budget per decoded batch, fed to
	// column.BatchSizeTarget. Zero means the 6 MiB default.
	BatchMemoryTarget int

	// VerifyChecksums enables per-page CRC32 validation against the
	// optional checksum some writers embed in the page header (see
	// pages.NewChunkReader). Off by default, since not every writer embeds
	// one and checking costs a pass over the raw page bytes.
	VerifyChecksums bool

	// Columns restricts reading to these top-level or dotted column paths
	// (see schema.Project). Nil selects every leaf.
	Columns []string

	// Codecs is the decompression provider injected into every column
	// chunk this reader opens — the codec interface (C10) this core treats
	// as an external collaborator.
	Codecs *codec.Provider
}

// DefaultConfig returns the default configuration: one worker per core,
// SIMD/libdeflate preference on, 6 MiB batches, checksum verification off,
// every column projected, and the built-in codec provider.
func DefaultConfig() *Config {
	return &Config{
		ThreadCount:       runtime.GOMAXPROCS(0),
		EnableSIMD:        true,
		UseLibdeflate:     true,
		BatchMemoryTarget: 6 << 20,
		VerifyChecksums:   false,
		Codecs:            codec.NewDefaultProvider(),
	}
}

// Apply applies options to c in order.
func (c *Config) Apply(options ...Option) {
	for _, opt := range options {
		opt.Configure(c)
	}
}

// clone returns a shallow copy of c, so a Reader's option overrides never
// mutate the File's own Config.
func (c *Config) clone() *Config {
	cp := *c
	if c.Columns != nil {
		cp.Columns = append([]string(nil), c.Columns...)
	}
	return &cp
}

// Option configures a Config. FileOption and ReaderOption are aliases of it:
// every recognized option applies equally at OpenFile and NewReader, which
// is why this module collapses the teacher's two option interfaces into one.
type Option interface {
	Configure(*Config)
}

// FileOption is the option type accepted by OpenFile.
type FileOption = Option

// ReaderOption is the option type accepted by NewReader.
type ReaderOption = Option

type optionFunc func(*Config)

func (f optionFunc) Configure(c *Config) { f(c) }

// ThreadCount sets Config.ThreadCount.
func ThreadCount(n int) Option {
	return optionFunc(func(c *Config) { c.ThreadCount = n })
}

// EnableSIMD sets Config.EnableSIMD.
func EnableSIMD(enabled bool) Option {
	return optionFunc(func(c *Config) { c.EnableSIMD = enabled })
}

// UseLibdeflate sets Config.UseLibdeflate.
func UseLibdeflate(enabled bool) Option {
	return optionFunc(func(c *Config) { c.UseLibdeflate = enabled })
}

// BatchMemoryTarget sets Config.BatchMemoryTarget.
func BatchMemoryTarget(bytes int) Option {
	return optionFunc(func(c *Config) { c.BatchMemoryTarget = bytes })
}

// VerifyChecksums sets Config.VerifyChecksums.
func VerifyChecksums(enabled bool) Option {
	return optionFunc(func(c *Config) { c.VerifyChecksums = enabled })
}

// SelectColumns restricts reading to the given top-level or dotted column
// paths (see schema.Project). Passing no paths selects every column.
func SelectColumns(paths ...string) Option {
	return optionFunc(func(c *Config) { c.Columns = paths })
}

// WithCodecs overrides the default codec provider.
func WithCodecs(p *codec.Provider) Option {
	return optionFunc(func(c *Config) { c.Codecs = p })
}
