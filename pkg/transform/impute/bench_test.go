package impute

import (
	"context"
	"strconv"
	"testing"

	"github.com/wdm0006/lfbclean/pkg/frame"
)

func makeLargeGroupedFrame(n int) *frame.Frame {
	keys := frame.NewStringColumn("borough_name", n)
	vals := frame.NewFloatColumn("first_time", n)
	for i := 0; i < n; i++ {
		keys.Set(i, "B"+strconv.Itoa(i%32))
		if i%2 == 0 {
			vals.Set(i, float64(i%10))
		} else {
			vals.SetNull(i)
		}
	}
	f, _ := frame.FromColumns(keys, vals)
	return f
}

func BenchmarkGroupMean(b *testing.B) {
	base := makeLargeGroupedFrame(10000)
	tform := &GroupMean{Column: "first_time", By: "borough_name"}
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		if _, err := tform.Apply(context.Background(), base); err != nil {
			b.Fatal(err)
		}
	}
}
