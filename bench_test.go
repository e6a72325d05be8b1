package rsmarisa_test

import (
	"fmt"
	"testing"

	"github.com/tokuhirom/rsmarisa"
)

func benchKeys(n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = fmt.Sprintf("key/%06d/suffix-%d", i, i%7)
	}
	return keys
}

func BenchmarkBuild(b *testing.B) {
	keys := benchKeys(10000)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := rsmarisa.BuildStrings(keys); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLookup(b *testing.B) {
	keys := benchKeys(10000)
	tr, err := rsmarisa.BuildStrings(keys)
	if err != nil {
		b.Fatal(err)
	}
	queries := make([][]byte, len(keys))
	for i, k := range keys {
		queries[i] = []byte(k)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, ok := tr.Lookup(queries[i%len(queries)]); !ok {
			b.Fatal("lost key")
		}
	}
}

func BenchmarkPredictive(b *testing.B) {
	tr, err := rsmarisa.BuildStrings(benchKeys(10000))
	if err != nil {
		b.Fatal(err)
	}
	q := []byte("key/0001")

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		n := 0
		for range tr.Predictive(q) {
			n++
		}
		if n == 0 {
			b.Fatal("no completions")
		}
	}
}
