package virtual

import (
	"math/rand/v2"
	"testing"
)

var benchmarkWindowSink int

type windowBenchmarkDataset struct {
	name  string
	count int
}

func BenchmarkCalculate(b *testing.B) {
	datasets := []windowBenchmarkDataset{
		{name: "medium", count: 10_000},
		{name: "large", count: 1_000_000},
	}

	for _, dataset := range datasets {
		b.Run(dataset.name, func(b *testing.B) {
			heights, err := NewHeightModel(Config{EstimatedItemHeight: 40, Overscan: 3}, dataset.count)
			if err != nil {
				b.Fatalf("NewHeightModel: %v", err)
			}
			rng := rand.New(rand.NewPCG(1, 2))
			for i := 0; i < dataset.count; i += 3 {
				heights.Record(i, float64(20+rng.IntN(80)))
			}
			total := heights.TotalExtent()

			b.Run("variable", func(b *testing.B) {
				b.ReportAllocs()
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					scroll := float64(i%1000) / 1000 * total
					ws := Calculate(heights, scroll, 800, 3)
					benchmarkWindowSink += ws.Len()
				}
			})

			b.Run("measure-and-calculate", func(b *testing.B) {
				b.ReportAllocs()
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					index := i % dataset.count
					heights.Record(index, float64(20+i%80))
					ws := Calculate(heights, heights.OffsetOf(index), 800, 3)
					benchmarkWindowSink += ws.Len()
				}
			})
		})
	}
}

func BenchmarkHeightModelRebuild(b *testing.B) {
	heights, err := NewHeightModel(Config{EstimatedItemHeight: 40}, 100_000)
	if err != nil {
		b.Fatalf("NewHeightModel: %v", err)
	}
	for i := 0; i < 100_000; i += 2 {
		heights.Record(i, 55)
	}

	b.Run("grow", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			heights.SetCount(100_000 + i%2)
			benchmarkWindowSink += int(heights.TotalExtent())
		}
	})
}
