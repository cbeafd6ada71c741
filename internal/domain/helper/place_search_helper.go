package helper

import (
	"strings"

	"Sulam-App/internal/domain/model"
)

// FilterPlaces はタイトルの部分一致（大文字小文字を区別しない）と種別で絞り込む
// query が空なら全件、kind が空なら全種別
func FilterPlaces(places []*model.Place, query string, kind model.PlaceKind) []*model.Place {
	q := strings.ToLower(strings.TrimSpace(query))
	filtered := make([]*model.Place, 0, len(places))
	for _, p := range places {
		if kind != "" && p.Kind != kind {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Title), q) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

// ToPlaceView は Place をAPIレスポンス用に変換する
func ToPlaceView(p *model.Place) model.PlaceView {
	view := model.PlaceView{
		ID:        p.ID,
		Title:     p.Title,
		Desc:      p.Desc,
		Img:       p.ImageOrPlaceholder(),
		Kind:      p.Kind,
		Boundary:  finiteBoundary(p.Boundary),
		SharePath: p.SharePath(),
	}
	if pos, ok := p.Position(); ok {
		view.Position = &pos
		view.DirectionsURL = model.GoogleMapsDirectionsURL + formatCoordinate(pos.X) + "," + formatCoordinate(pos.Y)
	}
	return view
}

// finiteBoundary は数値以外を含む境界を nil にする（JSONに NaN は書けない）
func finiteBoundary(boundary []model.Point) []model.Point {
	for _, pt := range boundary {
		if !pt.IsFinite() {
			return nil
		}
	}
	return boundary
}

// ToPlaceViews は複数の Place を変換する
func ToPlaceViews(places []*model.Place) []model.PlaceView {
	views := make([]model.PlaceView, len(places))
	for i, p := range places {
		views[i] = ToPlaceView(p)
	}
	return views
}
