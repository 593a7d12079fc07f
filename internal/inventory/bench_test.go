package inventory

import (
	"fmt"
	"testing"
)

// buildRows synthesizes n hosts spread over 20 groups, each with a
// membership row and three variable rows.
func buildRows(n int) []Row {
	rows := make([]Row, 0, n*4)
	id := int64(0)
	next := func(r Row) {
		id++
		r.ID = id
		rows = append(rows, r)
	}
	for i := 0; i < n; i++ {
		host := fmt.Sprintf("host%05d", i)
		group := fmt.Sprintf("group%02d", i%20)
		next(Row{Host: host, Group: group})
		next(Row{Host: host, Key: "ipaddr", Value: fmt.Sprintf("10.0.%d.%d", i/250, i%250)})
		next(Row{Host: host, Key: "label", Value: "bench"})
		next(Row{Host: host, Key: "tier", Value: "gold"})
	}
	return rows
}

func BenchmarkBuildDocument(b *testing.B) {
	for _, n := range []int{100, 10_000} {
		rows := buildRows(n)
		b.Run(fmt.Sprintf("hosts_%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				doc := BuildDocument(rows)
				if len(doc.Hostvars) != n {
					b.Fatalf("built %d hosts, want %d", len(doc.Hostvars), n)
				}
			}
		})
	}
}

func BenchmarkDocumentMarshal(b *testing.B) {
	doc := BuildDocument(buildRows(10_000))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := doc.MarshalJSON(); err != nil {
			b.Fatal(err)
		}
	}
}
