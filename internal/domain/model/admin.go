package model

// PlaceInput は管理画面からの作成・更新リクエスト
type PlaceInput struct {
	Title       string  `json:"title"`
	Desc        string  `json:"desc"`
	Img         string  `json:"img"`
	Coords      *Point  `json:"coords"`      // POIのみ
	Coordinates []Point `json:"coordinates"` // ゾーンのみ
}

// ToPlace は入力を指定種別の Place に変換する
func (in *PlaceInput) ToPlace(id string, kind PlaceKind) *Place {
	p := &Place{
		ID:    id,
		Title: in.Title,
		Desc:  in.Desc,
		Img:   in.Img,
		Kind:  kind,
	}
	switch kind {
	case KindPOI:
		if in.Coords != nil {
			c := *in.Coords
			p.Coords = &c
		}
	case KindZone:
		p.Boundary = append([]Point(nil), in.Coordinates...)
	}
	return p
}

// CreatePlaceResponse は作成結果
type CreatePlaceResponse struct {
	ID string `json:"id"`
}

// LoginRequest は管理者ログイン
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthSession はログイン成功時のトークン
type AuthSession struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	Email        string `json:"email"`
}

// AdminUser は認証済み管理者
type AdminUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
