package core

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/JonMunkholm/barredora/internal/tabfile"
	"github.com/JonMunkholm/barredora/internal/table"
)

// benchmarkCSV builds a CSV of n data rows in which every tenth row repeats
// the previous one and every twenty-fifth row is empty.
func benchmarkCSV(n int) []byte {
	var buf bytes.Buffer
	buf.WriteString("customer,city,amount,active,signed_up\n")
	for i := 0; i < n; i++ {
		switch {
		case i%25 == 24:
			buf.WriteString(",,,,\n")
		case i%10 == 9:
			fmt.Fprintf(&buf, "customer %d,SANTIAGO,%d.50,true,2024-01-%02d\n", i-1, i-1, (i-1)%28+1)
		default:
			fmt.Fprintf(&buf, "customer %d,SANTIAGO,%d.50,true,2024-01-%02d\n", i, i, i%28+1)
		}
	}
	return buf.Bytes()
}

func benchmarkTable(b *testing.B, n int) *table.Table {
	b.Helper()
	t, err := tabfile.Load(context.Background(), "bench.csv", bytes.NewReader(benchmarkCSV(n)))
	if err != nil {
		b.Fatalf("load: %v", err)
	}
	return t
}

// ============================================================================
// Pipeline Benchmarks
// ============================================================================

// BenchmarkClean benchmarks the full pipeline on a 10k row table.
func BenchmarkClean(b *testing.B) {
	t := benchmarkTable(b, 10_000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Clean(t)
	}
}

// BenchmarkRemoveDuplicates benchmarks the row key hashing step alone.
func BenchmarkRemoveDuplicates(b *testing.B) {
	t := benchmarkTable(b, 10_000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		RemoveDuplicates(t)
	}
}

// BenchmarkCapitalize benchmarks capitalization of typical cell values.
func BenchmarkCapitalize(b *testing.B) {
	testCases := []string{
		"santiago",
		"SANTIAGO DE CHILE",
		"ñandú",
		"",
		"42 main street",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			Capitalize(tc)
		}
	}
}

// ============================================================================
// Load and Profile Benchmarks
// ============================================================================

// BenchmarkLoadCSV benchmarks decoding and type inference.
func BenchmarkLoadCSV(b *testing.B) {
	data := benchmarkCSV(10_000)
	b.SetBytes(int64(len(data)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := tabfile.Load(context.Background(), "bench.csv", bytes.NewReader(data)); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSummarize benchmarks the column profile used by every preview.
func BenchmarkSummarize(b *testing.B) {
	t := benchmarkTable(b, 10_000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Summarize(t)
	}
}

// BenchmarkServiceClean benchmarks a whole run including previews and the
// run store.
func BenchmarkServiceClean(b *testing.B) {
	data := benchmarkCSV(1_000)
	svc := NewService(Options{})
	defer svc.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := svc.Clean(context.Background(), "bench.csv", bytes.NewReader(data)); err != nil {
			b.Fatal(err)
		}
	}
}
