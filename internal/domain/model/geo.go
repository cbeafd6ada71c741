package model

// LatLng 緯度経度を表す基本的な型（GPS測位値）
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// GeoCalibration はGPS座標の矩形をマップ画像のピクセル矩形 [0,W]×[0,H] に対応付ける2点校正
// 起動時に一度だけ設定し、以降は読み取り専用
type GeoCalibration struct {
	TopLeft     LatLng  `json:"top_left"`
	BottomRight LatLng  `json:"bottom_right"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
}

// LocateRequest は現在地投影リクエスト
type LocateRequest struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lng *float64 `json:"lng" binding:"required"`
}
