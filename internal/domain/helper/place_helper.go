package helper

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"Sulam-App/internal/domain/model"
)

// PixelDistance はマップピクセル空間でのユークリッド距離
func PixelDistance(a, b model.Point) float64 {
	return planar.Distance(a.ToOrb(), b.ToOrb())
}

type rankedPlace struct {
	place *model.Place
	dist  float64
}

// Recommend は origin に近い順に最大 k 件の場所を返す
// excludeID の場所と位置を持たない場所は除外し、同距離は all の順序を保つ
func Recommend(all []*model.Place, origin *model.Point, excludeID string, k int) []*model.Place {
	if origin == nil || !origin.IsFinite() || k <= 0 {
		return []*model.Place{}
	}

	candidates := make([]rankedPlace, 0, len(all))
	for _, p := range all {
		if p == nil || p.ID == excludeID {
			continue
		}
		pos, ok := p.Position()
		if !ok {
			continue
		}
		candidates = append(candidates, rankedPlace{place: p, dist: PixelDistance(*origin, pos)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].dist < candidates[j].dist
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	result := make([]*model.Place, len(candidates))
	for i, c := range candidates {
		result[i] = c.place
	}
	return result
}

// IsSimplePolygon は境界が3点以上で、面積を持ち、自己交差しない多角形かチェック
// 最初と最後の点は暗黙的に接続される
func IsSimplePolygon(boundary []model.Point) bool {
	n := len(boundary)
	if n < model.MinZoneVertices {
		return false
	}
	ring := make(orb.Ring, 0, n+1)
	for _, v := range boundary {
		if !v.IsFinite() {
			return false
		}
		ring = append(ring, v.ToOrb())
	}
	ring = append(ring, ring[0])
	if planar.Area(ring) == 0 {
		return false
	}

	for i := 0; i < n; i++ {
		a1, a2 := ring[i], ring[i+1]
		if a1.Equal(a2) {
			return false
		}
		for j := i + 1; j < n; j++ {
			// 隣接する辺は端点を共有する
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			if segmentsIntersect(a1, a2, ring[j], ring[j+1]) {
				return false
			}
		}
	}
	return true
}

func orientation(p, q, r orb.Point) int {
	v := (q.Y()-p.Y())*(r.X()-q.X()) - (q.X()-p.X())*(r.Y()-q.Y())
	switch {
	case v > 0:
		return 1
	case v < 0:
		return 2
	}
	return 0
}

func onSegment(p, q, r orb.Point) bool {
	return q.X() <= max(p.X(), r.X()) && q.X() >= min(p.X(), r.X()) &&
		q.Y() <= max(p.Y(), r.Y()) && q.Y() >= min(p.Y(), r.Y())
}

func segmentsIntersect(p1, q1, p2, q2 orb.Point) bool {
	o1 := orientation(p1, q1, p2)
	o2 := orientation(p1, q1, q2)
	o3 := orientation(p2, q2, p1)
	o4 := orientation(p2, q2, q1)

	if o1 != o2 && o3 != o4 {
		return true
	}
	return (o1 == 0 && onSegment(p1, p2, q1)) ||
		(o2 == 0 && onSegment(p1, q2, q1)) ||
		(o3 == 0 && onSegment(p2, p1, q2)) ||
		(o4 == 0 && onSegment(p2, q1, q2))
}
