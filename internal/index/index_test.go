package index

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdudkov/datumshift/pkg/model"
)

func point(uid string, lat, lon float64) *model.ControlPoint {
	return &model.ControlPoint{UID: uid, Name: uid, Datum: "WGS84", Lat: lat, Lon: lon}
}

func uids(points []*model.ControlPoint) []string {
	res := make([]string, len(points))
	for i, p := range points {
		res[i] = p.UID
	}

	return res
}

func TestIndexNearest(t *testing.T) {
	idx := New()

	idx.Add(point("a", 55.75, 37.62))
	idx.Add(point("b", 55.80, 37.60))
	idx.Add(point("c", 59.93, 30.31))
	idx.Add(point("d", 38.89, -77.03))

	assert.Equal(t, 4, idx.Size())
	assert.Equal(t, []string{"a", "b"}, uids(idx.Nearest(55.74, 37.63, 2)))
	assert.Equal(t, []string{"d"}, uids(idx.Nearest(40, -75, 1)))
	assert.Len(t, idx.Nearest(0, 0, 10), 4)
	assert.Empty(t, idx.Nearest(0, 0, 0))
}

func TestIndexWithin(t *testing.T) {
	idx := New()

	idx.Add(point("a", 55.75, 37.62))
	idx.Add(point("b", 55.80, 37.60))
	idx.Add(point("c", 59.93, 30.31))

	assert.Equal(t, []string{"a", "b"}, uids(idx.Within(55, 37, 56, 38)))
	assert.Equal(t, []string{"a", "b"}, uids(idx.Within(56, 38, 55, 37)))
	assert.Equal(t, []string{"a"}, uids(idx.Within(55.75, 37.62, 55.75, 37.62)))
	assert.Empty(t, idx.Within(0, 0, 1, 1))
}

func TestIndexReplaceAndRemove(t *testing.T) {
	idx := New()

	idx.Add(point("a", 10, 10))
	idx.Add(point("a", 20, 20))

	assert.Equal(t, 1, idx.Size())
	assert.Empty(t, idx.Within(9, 9, 11, 11))
	assert.Len(t, idx.Within(19, 19, 21, 21), 1)

	require.True(t, idx.Remove("a"))
	require.False(t, idx.Remove("a"))
	assert.Equal(t, 0, idx.Size())
	assert.Empty(t, idx.Nearest(20, 20, 1))
}

func TestIndexStoredDatum(t *testing.T) {
	idx := New()

	// indexed at its WGS84 position, about 120 m away from the stored SK42 one
	p := &model.ControlPoint{UID: "sk", Datum: "SK42", Lat: 55.75, Lon: 37.62}
	idx.Add(p)

	pos := p.WGS84()
	assert.Len(t, idx.Within(pos.Lat-1e-6, pos.Lon-1e-6, pos.Lat+1e-6, pos.Lon+1e-6), 1)
	assert.Empty(t, idx.Within(55.75-1e-6, 37.62-1e-6, 55.75+1e-6, 37.62+1e-6))
}

func TestIndexConcurrent(t *testing.T) {
	idx := New()

	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)

		go func(n int) {
			defer wg.Done()

			for j := 0; j < 50; j++ {
				idx.Add(point(fmt.Sprintf("%d-%d", n, j), float64(n), float64(j)))
				idx.Nearest(float64(n), float64(j), 3)
			}
		}(i)
	}

	wg.Wait()

	assert.Equal(t, 400, idx.Size())

	idx.Load(nil)
	assert.Equal(t, 0, idx.Size())
}
