package bits

import (
	"encoding/binary"
	"math/bits"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// cpuFastPopcount gates the SWAR path: it is true on x86 CPUs that report
// POPCNT and on ARM64 CPUs that report the ATOMICS (LSE) feature, the same kind of cpu.X86 feature gate the
// teacher's bits_amd64.go uses to pick memsetAVX2 over a scalar loop. On
// architectures x/sys/cpu doesn't probe, every field of cpu.X86/cpu.ARM64
// reads false and CountByte always takes the scalar path.
var cpuFastPopcount = cpu.X86.HasPOPCNT || cpu.ARM64.HasATOMICS

// simdEnabled mirrors parquet.Config.EnableSIMD: CountByte's callers (pages,
// column, parquet) have no per-call config plumbing down to this shared
// helper, so a Reader applies its own EnableSIMD setting here once, at
// construction, via SetSIMDEnabled — the same way the teacher's cpu.X86
// feature vars are resolved once at process start rather than threaded
// through every call. Defaults to on, matching parquet.DefaultConfig.
var simdEnabled int32 = 1

// SetSIMDEnabled turns the CountByte fast path on or off process-wide, per
// parquet.Config.EnableSIMD. It is not scoped to one Reader — acceptable for
// a feature-detection gate that is otherwise resolved once per process,
// never threaded through individual call sites.
func SetSIMDEnabled(enabled bool) {
	v := int32(0)
	if enabled {
		v = 1
	}
	atomic.StoreInt32(&simdEnabled, v)
}

func hasFastPopcount() bool {
	return cpuFastPopcount && atomic.LoadInt32(&simdEnabled) != 0
}

// countByteSWARThreshold is the minimum slice length worth paying the 8-byte
// word setup for; short level streams (the common case for a single page's
// worth of optional scalars) aren't worth it.
const countByteSWARThreshold = 32

// CountByte returns the number of bytes in data equal to want. It is the
// inner loop behind every def-level "how many of these positions carry a
// value" tally (pages.decodeDataPageV1, column.countMaxDef,
// parquet.countMaxDefBefore): those levels are small-integer bytes, usually
// 0..3, so a straight byte compare dominates profiles of wide projections.
//
// When the CPU has a fast popcount and EnableSIMD hasn't been turned off,
// eight bytes are compared at a time with a SWAR (SIMD-within-a-register)
// zero-byte trick instead of one at a time.
func CountByte(data []byte, want byte) int {
	if !hasFastPopcount() || len(data) < countByteSWARThreshold {
		return countByteScalar(data, want)
	}
	return countByteSWAR(data, want)
}

func countByteScalar(data []byte, want byte) int {
	n := 0
	for _, b := range data {
		if b == want {
			n++
		}
	}
	return n
}

// countByteSWAR counts matches 8 bytes at a time: XOR each word against a
// byte broadcast of want, so a byte position is zero exactly where it
// matched, then a carry-free zero-byte test sets the high bit of exactly
// the zero bytes and bits.OnesCount64 tallies them.
func countByteSWAR(data []byte, want byte) int {
	pattern := uint64(want) * 0x0101010101010101
	n := 0
	i := 0
	for ; i+8 <= len(data); i += 8 {
		x := binary.LittleEndian.Uint64(data[i:i+8]) ^ pattern
		zeroed := ^(((x & 0x7f7f7f7f7f7f7f7f) + 0x7f7f7f7f7f7f7f7f) | x | 0x7f7f7f7f7f7f7f7f)
		n += bits.OnesCount64(zeroed)
	}
	n += countByteScalar(data[i:], want)
	return n
}
