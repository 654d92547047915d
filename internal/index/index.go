package index

import (
	"sort"
	"sync"

	"github.com/dhconnelly/rtreego"

	"github.com/kdudkov/datumshift/pkg/model"
)

// pointTolerance is the half size, in degrees, of the box a point occupies in the tree.
const pointTolerance = 1e-9

// entry is a control point placed at its WGS84 position, lon on the first axis.
type entry struct {
	point *model.ControlPoint
	lat   float64
	lon   float64
}

func (e *entry) Bounds() rtreego.Rect {
	return rtreego.Point{e.lon, e.lat}.ToRect(pointTolerance)
}

func sameUID(obj1, obj2 rtreego.Spatial) bool {
	return obj1.(*entry).point.UID == obj2.(*entry).point.UID
}

// Index is a spatial index of control points. Safe for concurrent use.
type Index struct {
	mx      sync.RWMutex
	tree    *rtreego.Rtree
	entries map[string]*entry
}

func New() *Index {
	return &Index{
		tree:    rtreego.NewTree(2, 25, 50),
		entries: make(map[string]*entry),
	}
}

// Add inserts the point or replaces the one with the same uid.
func (idx *Index) Add(p *model.ControlPoint) {
	if p == nil || p.UID == "" {
		return
	}

	pos := p.WGS84()
	e := &entry{point: p, lat: pos.Lat, lon: pos.Lon}

	idx.mx.Lock()
	defer idx.mx.Unlock()

	if old, ok := idx.entries[p.UID]; ok {
		idx.tree.DeleteWithComparator(old, sameUID)
	}

	idx.entries[p.UID] = e
	idx.tree.Insert(e)
}

func (idx *Index) Remove(uid string) bool {
	idx.mx.Lock()
	defer idx.mx.Unlock()

	old, ok := idx.entries[uid]
	if !ok {
		return false
	}

	delete(idx.entries, uid)

	return idx.tree.DeleteWithComparator(old, sameUID)
}

func (idx *Index) Size() int {
	idx.mx.RLock()
	defer idx.mx.RUnlock()

	return len(idx.entries)
}

// Nearest returns up to k points closest to a WGS84 position, nearest first.
// The tree ranks candidates in degree space; they are re-ranked by
// great-circle distance.
func (idx *Index) Nearest(lat, lon float64, k int) []*model.ControlPoint {
	if k <= 0 {
		return nil
	}

	idx.mx.RLock()
	found := idx.tree.NearestNeighbors(k*4, rtreego.Point{lon, lat})
	idx.mx.RUnlock()

	type ranked struct {
		p    *model.ControlPoint
		dist float64
	}

	res := make([]ranked, 0, len(found))

	for _, s := range found {
		if s == nil {
			continue
		}

		e := s.(*entry)
		d, _ := model.DistBea(lat, lon, e.lat, e.lon)
		res = append(res, ranked{p: e.point, dist: d})
	}

	sort.SliceStable(res, func(i, j int) bool {
		return res[i].dist < res[j].dist
	})

	if len(res) > k {
		res = res[:k]
	}

	points := make([]*model.ControlPoint, len(res))
	for i, r := range res {
		points[i] = r.p
	}

	return points
}

// Within returns the points inside a WGS84 bounding box.
func (idx *Index) Within(minLat, minLon, maxLat, maxLon float64) []*model.ControlPoint {
	if minLat > maxLat {
		minLat, maxLat = maxLat, minLat
	}

	if minLon > maxLon {
		minLon, maxLon = maxLon, minLon
	}

	rect, err := rtreego.NewRect(
		rtreego.Point{minLon - pointTolerance, minLat - pointTolerance},
		[]float64{maxLon - minLon + 2*pointTolerance, maxLat - minLat + 2*pointTolerance},
	)
	if err != nil {
		return nil
	}

	idx.mx.RLock()
	found := idx.tree.SearchIntersect(rect)
	idx.mx.RUnlock()

	points := make([]*model.ControlPoint, 0, len(found))
	for _, s := range found {
		points = append(points, s.(*entry).point)
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].UID < points[j].UID
	})

	return points
}

// Load replaces the index content.
func (idx *Index) Load(points []*model.ControlPoint) {
	idx.mx.Lock()
	idx.tree = rtreego.NewTree(2, 25, 50)
	idx.entries = make(map[string]*entry, len(points))
	idx.mx.Unlock()

	for _, p := range points {
		idx.Add(p)
	}
}
