package usecase

import (
	"context"
	"fmt"
	"log"

	"Sulam-App/internal/domain/helper"
	"Sulam-App/internal/domain/model"
	"Sulam-App/internal/domain/service"
	"Sulam-App/internal/infrastructure/metrics"
)

type ExploreUseCase interface {
	// ListPlaces はタイトル検索と種別で絞り込んだ場所一覧を返す
	ListPlaces(ctx context.Context, query string, kind model.PlaceKind) []model.PlaceView

	// GetPlace は1件の場所を返す
	GetPlace(ctx context.Context, placeID string) (*model.PlaceView, error)

	// CreateSession は新しい閲覧セッションを作成する
	CreateSession(ctx context.Context) model.SessionView

	// GetSession はセッションの現在の状態を返す
	GetSession(ctx context.Context, sessionID string) (*model.SessionView, error)

	// OpenPlace は場所を開き、その場所を起点に近隣のおすすめを1回計算して返す
	OpenPlace(ctx context.Context, sessionID, placeID string) (*model.OpenPlaceResponse, error)

	// Dismiss は開いている場所を閉じる
	Dismiss(ctx context.Context, sessionID string) (*model.SessionView, error)

	// Locate はGPS測位値をマップのピクセル座標に変換する
	Locate(ctx context.Context, geo model.LatLng) model.Point

	// TrackLocation はセッションの連続測位1件を投影し、セッションを使用中として扱う
	TrackLocation(ctx context.Context, sessionID string, geo model.LatLng) (model.Point, error)

	// MapInfo はマップ画像のサイズと校正値を返す
	MapInfo(ctx context.Context) model.GeoCalibration
}

// exploreUseCaseImpl はExploreUseCaseの実装
type exploreUseCaseImpl struct {
	catalog   *service.Catalog
	sessions  *service.SessionStore
	projector *helper.Projector
}

// NewExploreUseCase は新しいExploreUseCaseインスタンスを作成
func NewExploreUseCase(catalog *service.Catalog, sessions *service.SessionStore, projector *helper.Projector) ExploreUseCase {
	return &exploreUseCaseImpl{
		catalog:   catalog,
		sessions:  sessions,
		projector: projector,
	}
}

// ListPlaces はカタログのスナップショットから絞り込む
func (u *exploreUseCaseImpl) ListPlaces(ctx context.Context, query string, kind model.PlaceKind) []model.PlaceView {
	return helper.ToPlaceViews(helper.FilterPlaces(u.catalog.All(), query, kind))
}

// GetPlace はIDで場所を返す
func (u *exploreUseCaseImpl) GetPlace(ctx context.Context, placeID string) (*model.PlaceView, error) {
	place, ok := u.catalog.Get(placeID)
	if !ok {
		return nil, fmt.Errorf("場所が見つかりません: %s: %w", placeID, model.ErrPlaceNotFound)
	}
	view := helper.ToPlaceView(place)
	return &view, nil
}

// CreateSession は新しいセッションを作成
func (u *exploreUseCaseImpl) CreateSession(ctx context.Context) model.SessionView {
	s := u.sessions.Create()
	metrics.ActiveSessions.Set(float64(u.sessions.Len()))
	log.Printf("🆕 閲覧セッション作成: %s", s.ID)
	return s.View(u.catalog.Get)
}

// GetSession はセッションの状態を返す
func (u *exploreUseCaseImpl) GetSession(ctx context.Context, sessionID string) (*model.SessionView, error) {
	s, err := u.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	view := s.View(u.catalog.Get)
	return &view, nil
}

// OpenPlace は選択を更新し、おすすめを計算する
// カタログのスナップショットは1回だけ読む
func (u *exploreUseCaseImpl) OpenPlace(ctx context.Context, sessionID, placeID string) (*model.OpenPlaceResponse, error) {
	s, err := u.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	all, byID := u.catalog.Snapshot()
	place, ok := byID[placeID]
	if !ok {
		return nil, fmt.Errorf("場所が見つかりません: %s: %w", placeID, model.ErrPlaceNotFound)
	}

	s.Open(place)

	var origin *model.Point
	if pos, ok := place.Position(); ok {
		origin = &pos
	}
	recommended := helper.Recommend(all, origin, place.ID, model.RecommendationLimit)
	metrics.RecommendationsTotal.Inc()
	log.Printf("📍 %s を表示 (おすすめ%d件)", place.Title, len(recommended))

	return &model.OpenPlaceResponse{
		Place:           helper.ToPlaceView(place),
		Recommendations: helper.ToPlaceViews(recommended),
	}, nil
}

// Dismiss は選択を解除する
func (u *exploreUseCaseImpl) Dismiss(ctx context.Context, sessionID string) (*model.SessionView, error) {
	s, err := u.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.Dismiss()
	view := s.View(u.catalog.Get)
	return &view, nil
}

// Locate はGPS測位値を投影する
func (u *exploreUseCaseImpl) Locate(ctx context.Context, geo model.LatLng) model.Point {
	metrics.ProjectionsTotal.Inc()
	return u.projector.Project(geo)
}

// TrackLocation はセッションの最終アクセス時刻を更新してから投影する
func (u *exploreUseCaseImpl) TrackLocation(ctx context.Context, sessionID string, geo model.LatLng) (model.Point, error) {
	if _, err := u.sessions.Get(sessionID); err != nil {
		return model.Point{}, err
	}
	return u.Locate(ctx, geo), nil
}

// MapInfo は起動時に設定した校正値
func (u *exploreUseCaseImpl) MapInfo(ctx context.Context) model.GeoCalibration {
	return u.projector.Calibration()
}
