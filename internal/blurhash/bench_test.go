package blurhash

import (
	"runtime"
	"testing"
)

// ─── benchmarks: input-size scaling ──────────────────────────

func benchmarkEncode(b *testing.B, w, h, cx, cy int) {
	pix := gradientPixels(w, h)
	b.SetBytes(int64(len(pix)))
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Encode(pix, cx, cy, w, h); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEncode_32(b *testing.B)        { benchmarkEncode(b, 32, 32, 4, 3) }
func BenchmarkEncode_128(b *testing.B)       { benchmarkEncode(b, 128, 128, 4, 3) }
func BenchmarkEncode_512(b *testing.B)       { benchmarkEncode(b, 512, 512, 4, 3) }
func BenchmarkEncode_1920x1080(b *testing.B) { benchmarkEncode(b, 1920, 1080, 4, 3) }

// ─── benchmarks: grid scaling ────────────────────────────────

func BenchmarkEncode_Grid1x1(b *testing.B) { benchmarkEncode(b, 256, 256, 1, 1) }
func BenchmarkEncode_Grid9x9(b *testing.B) { benchmarkEncode(b, 256, 256, 9, 9) }

// ─── memory: pooled work buffers ─────────────────────────────

func TestMemoryStability_Batch(t *testing.T) {
	pix := gradientPixels(256, 256)

	// Warm up the pool.
	for i := 0; i < 5; i++ {
		_, _ = Encode(pix, 4, 3, 256, 256)
	}

	runtime.GC()
	var before runtime.MemStats
	runtime.ReadMemStats(&before)

	const n = 100
	for i := 0; i < n; i++ {
		_, _ = Encode(pix, 4, 3, 256, 256)
	}

	runtime.GC()
	var after runtime.MemStats
	runtime.ReadMemStats(&after)

	heapGrowth := int64(after.HeapAlloc) - int64(before.HeapAlloc)
	t.Logf("batch %d images: heap growth after GC %d KB, %.1f KB allocated/image",
		n, heapGrowth/1024, float64(after.TotalAlloc-before.TotalAlloc)/1024/n)

	if heapGrowth > 5*1024*1024 {
		t.Errorf("heap grew by %d MB — possible leak", heapGrowth/(1024*1024))
	}
}
