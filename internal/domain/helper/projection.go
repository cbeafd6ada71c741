package helper

import (
	"fmt"
	"math"

	"Sulam-App/internal/domain/model"
)

// Projector はGPS座標をマップ画像のピクセル座標に変換する
// 校正値の検証は NewProjector で行うため、Project はゼロ除算を起こさない
type Projector struct {
	calib model.GeoCalibration
}

// NewProjector は校正値を検証してProjectorを作成する
// 縮退した校正（両隅の緯度または経度が同じ）は設定エラー
func NewProjector(calib model.GeoCalibration) (*Projector, error) {
	values := []float64{
		calib.TopLeft.Lat, calib.TopLeft.Lng,
		calib.BottomRight.Lat, calib.BottomRight.Lng,
		calib.Width, calib.Height,
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("校正値に数値以外が含まれています: %+v", calib)
		}
	}
	if calib.Width <= 0 || calib.Height <= 0 {
		return nil, fmt.Errorf("マップ画像サイズは正の値である必要があります: %vx%v", calib.Width, calib.Height)
	}
	if calib.TopLeft.Lat == calib.BottomRight.Lat {
		return nil, fmt.Errorf("縮退した校正: 左上と右下の緯度が同じです (%v)", calib.TopLeft.Lat)
	}
	if calib.TopLeft.Lng == calib.BottomRight.Lng {
		return nil, fmt.Errorf("縮退した校正: 左上と右下の経度が同じです (%v)", calib.TopLeft.Lng)
	}
	return &Projector{calib: calib}, nil
}

// Project は緯度経度をピクセル座標に線形変換する
// 校正矩形の外の測位値は画像外の座標になる（クランプしない）
func (p *Projector) Project(geo model.LatLng) model.Point {
	c := p.calib
	y := (geo.Lat - c.BottomRight.Lat) / (c.TopLeft.Lat - c.BottomRight.Lat) * c.Height
	x := (geo.Lng - c.TopLeft.Lng) / (c.BottomRight.Lng - c.TopLeft.Lng) * c.Width
	return model.Point{X: x, Y: y}
}

// Calibration は校正値を返す
func (p *Projector) Calibration() model.GeoCalibration {
	return p.calib
}
