package repository

import (
	"math"
	"strconv"
	"strings"

	"Sulam-App/internal/domain/model"
)

// Firestoreコレクション名
const (
	POICollection  = "pois"
	ZoneCollection = "zones"
)

// CollectionFor は種別に対応するコレクション名を返す
func CollectionFor(kind model.PlaceKind) string {
	if kind == model.KindZone {
		return ZoneCollection
	}
	return POICollection
}

// PlaceToDocument は Place を保存用ドキュメントに変換する
// POI: {title, desc, img, coords: {x, y}}、ゾーン: {title, desc, img, coordinates: [{x, y}, ...]}
func PlaceToDocument(p *model.Place) map[string]interface{} {
	doc := map[string]interface{}{
		"title": p.Title,
		"desc":  p.Desc,
		"img":   p.Img,
	}
	switch p.Kind {
	case model.KindPOI:
		if p.Coords != nil {
			doc["coords"] = pointToDocument(*p.Coords)
		}
	case model.KindZone:
		coords := make([]interface{}, len(p.Boundary))
		for i, v := range p.Boundary {
			coords[i] = pointToDocument(v)
		}
		doc["coordinates"] = coords
	}
	return doc
}

// DocumentToPlace は生のドキュメントを Place に変換する
// 数値でない座標はNaNとして残し、位置計算の段階で除外される
func DocumentToPlace(id string, kind model.PlaceKind, data map[string]interface{}) *model.Place {
	p := &model.Place{
		ID:    id,
		Kind:  kind,
		Title: toString(data["title"]),
		Desc:  toString(data["desc"]),
		Img:   toString(data["img"]),
	}
	switch kind {
	case model.KindPOI:
		if raw, ok := data["coords"]; ok && raw != nil {
			pt := documentToPoint(raw)
			p.Coords = &pt
		}
	case model.KindZone:
		if list, ok := data["coordinates"].([]interface{}); ok {
			p.Boundary = make([]model.Point, 0, len(list))
			for _, raw := range list {
				p.Boundary = append(p.Boundary, documentToPoint(raw))
			}
		}
	}
	return p
}

func pointToDocument(pt model.Point) map[string]interface{} {
	return map[string]interface{}{"x": pt.X, "y": pt.Y}
}

func documentToPoint(raw interface{}) model.Point {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return model.Point{X: math.NaN(), Y: math.NaN()}
	}
	return model.Point{X: toFloat(m["x"]), Y: toFloat(m["y"])}
}

// toFloat は int64・float64・数値文字列を float64 に変換する。それ以外はNaN
func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	case int:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	}
	return math.NaN()
}

func toString(v interface{}) string {
	s, _ := v.(string)
	return s
}
