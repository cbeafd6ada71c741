package model

import (
	"math"
	"net/url"

	"github.com/paulmach/orb"
)

// PlaceKind は場所の種類（POIまたはゾーン）
type PlaceKind string

const (
	KindPOI  PlaceKind = "poi"
	KindZone PlaceKind = "zone"
)

// PlaceholderImage は画像未設定時に表示する画像
const PlaceholderImage = "placeholder.jpg"

// MinZoneVertices はゾーン境界として有効な最小頂点数
const MinZoneVertices = 3

// Point はマップ画像上のピクセル座標
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// IsFinite は座標がNaN/Infを含まないかチェック
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// ToOrb orb.Point に変換
func (p Point) ToOrb() orb.Point {
	return orb.Point{p.X, p.Y}
}

// PointFromOrb orb.Point から Point に変換
func PointFromOrb(p orb.Point) Point {
	return Point{X: p.X(), Y: p.Y()}
}

// Place はPOIとゾーンを統合した表示用モデル
type Place struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Desc     string    `json:"desc"`
	Img      string    `json:"img"`
	Kind     PlaceKind `json:"kind"`
	Coords   *Point    `json:"coords,omitempty"`   // POIのみ
	Boundary []Point   `json:"boundary,omitempty"` // ゾーンのみ（挿入順が辺の順序）
}

// Position は場所の代表点を返す
// POIは保存座標そのもの、ゾーンは境界の外接矩形の中心。ゾーンは毎回境界から計算する
func (p *Place) Position() (Point, bool) {
	switch p.Kind {
	case KindPOI:
		if p.Coords == nil || !p.Coords.IsFinite() {
			return Point{}, false
		}
		return *p.Coords, true
	case KindZone:
		if len(p.Boundary) < MinZoneVertices {
			return Point{}, false
		}
		ring := make(orb.Ring, 0, len(p.Boundary))
		for _, v := range p.Boundary {
			if !v.IsFinite() {
				return Point{}, false
			}
			ring = append(ring, v.ToOrb())
		}
		return PointFromOrb(ring.Bound().Center()), true
	}
	return Point{}, false
}

// HasPosition は推薦やマーカー配置に使える位置を持つかチェック
func (p *Place) HasPosition() bool {
	_, ok := p.Position()
	return ok
}

// ImageOrPlaceholder 画像が存在する場合は値を、存在しない場合はプレースホルダーを返す
func (p *Place) ImageOrPlaceholder() string {
	if p.Img != "" {
		return p.Img
	}
	return PlaceholderImage
}

// SharePath は共有リンク用のハッシュ部分を返す
func (p *Place) SharePath() string {
	return "#poi=" + url.QueryEscape(p.ID)
}

// PlaceView はAPIレスポンス用の場所表現
type PlaceView struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Desc          string    `json:"desc"`
	Img           string    `json:"img"`
	Kind          PlaceKind `json:"kind"`
	Position      *Point    `json:"position"`
	Boundary      []Point   `json:"boundary,omitempty"`
	SharePath     string    `json:"share_path"`
	DirectionsURL string    `json:"directions_url,omitempty"`
}
