package benchmark_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/hupe1980/meanshift"
	"github.com/hupe1980/meanshift/persistence"
)

func BenchmarkSnapshot(b *testing.B) {
	eng, err := meanshift.New()
	if err != nil {
		b.Fatal(err)
	}
	if _, err := eng.Segment(context.Background(), space(40_000)); err != nil {
		b.Fatal(err)
	}
	snap := eng.Snapshot()

	for _, c := range []persistence.CompressionType{persistence.CompressionNone, persistence.CompressionLZ4, persistence.CompressionZSTD} {
		data, err := persistence.Marshal(snap, c)
		if err != nil {
			b.Fatal(err)
		}

		b.Run("save/"+c.String(), func(b *testing.B) {
			var buf bytes.Buffer
			b.SetBytes(int64(len(data)))
			for b.Loop() {
				buf.Reset()
				if err := persistence.Save(&buf, snap, c); err != nil {
					b.Fatal(err)
				}
			}
		})

		b.Run("load/"+c.String(), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			for b.Loop() {
				if _, err := persistence.Unmarshal(data); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
