package application

import (
	"context"
	"fmt"
	"log"
	"strings"

	"Sulam-App/internal/domain/helper"
	"Sulam-App/internal/domain/model"
	"Sulam-App/internal/domain/repository"
	"Sulam-App/internal/domain/service"
)

// AdminService 管理画面からのPOI・ゾーン編集を提供するサービス
type AdminService interface {
	// ListPlaces 保存されている場所を種別ごとに取得（下書きのゾーンも含む）
	ListPlaces(ctx context.Context, kind model.PlaceKind) ([]model.PlaceView, error)

	// CreatePlace 場所を新規作成し、採番されたIDを返す
	CreatePlace(ctx context.Context, kind model.PlaceKind, req *model.PlaceInput) (*model.CreatePlaceResponse, error)

	// UpdatePlace 既存の場所を更新
	UpdatePlace(ctx context.Context, kind model.PlaceKind, id string, req *model.PlaceInput) error

	// DeletePlace 場所を削除
	DeletePlace(ctx context.Context, kind model.PlaceKind, id string) error
}

// adminServiceImpl AdminServiceの実装
type adminServiceImpl struct {
	placesRepo repository.PlacesRepository
	catalog    *service.Catalog
	// live が true の場合、カタログはリアルタイム購読で更新されるため書き込み後の再読込をしない
	live bool
}

// NewAdminService AdminServiceの新しいインスタンスを作成
func NewAdminService(placesRepo repository.PlacesRepository, catalog *service.Catalog, live bool) AdminService {
	return &adminServiceImpl{
		placesRepo: placesRepo,
		catalog:    catalog,
		live:       live,
	}
}

// ListPlaces 種別ごとの一覧
func (s *adminServiceImpl) ListPlaces(ctx context.Context, kind model.PlaceKind) ([]model.PlaceView, error) {
	if err := validateKind(kind); err != nil {
		return nil, err
	}
	places, err := s.placesRepo.List(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("場所一覧の取得失敗: %w", err)
	}
	return helper.ToPlaceViews(places), nil
}

// CreatePlace 場所を作成
func (s *adminServiceImpl) CreatePlace(ctx context.Context, kind model.PlaceKind, req *model.PlaceInput) (*model.CreatePlaceResponse, error) {
	// 入力バリデーション
	if err := validatePlaceInput(kind, req); err != nil {
		return nil, fmt.Errorf("リクエストの検証失敗: %w", err)
	}

	id, err := s.placesRepo.Create(ctx, req.ToPlace("", kind))
	if err != nil {
		return nil, fmt.Errorf("場所の保存失敗: %w", err)
	}
	s.afterWrite(ctx)

	return &model.CreatePlaceResponse{ID: id}, nil
}

// UpdatePlace 場所を更新
func (s *adminServiceImpl) UpdatePlace(ctx context.Context, kind model.PlaceKind, id string, req *model.PlaceInput) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("IDは必須です: %w", model.ErrInvalidPlace)
	}
	if err := validatePlaceInput(kind, req); err != nil {
		return fmt.Errorf("リクエストの検証失敗: %w", err)
	}

	if err := s.placesRepo.Update(ctx, req.ToPlace(id, kind)); err != nil {
		return fmt.Errorf("場所の更新失敗: %w", err)
	}
	s.afterWrite(ctx)
	return nil
}

// DeletePlace 場所を削除
func (s *adminServiceImpl) DeletePlace(ctx context.Context, kind model.PlaceKind, id string) error {
	if err := validateKind(kind); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("IDは必須です: %w", model.ErrInvalidPlace)
	}
	if err := s.placesRepo.Delete(ctx, kind, id); err != nil {
		return fmt.Errorf("場所の削除失敗: %w", err)
	}
	s.afterWrite(ctx)
	return nil
}

// afterWrite リアルタイム購読がない保存先ではカタログを読み直す
func (s *adminServiceImpl) afterWrite(ctx context.Context) {
	if s.live || s.catalog == nil {
		return
	}
	if err := s.catalog.Refresh(ctx, s.placesRepo); err != nil {
		log.Printf("⚠️ カタログの再読込に失敗: %v", err)
	}
}

// validateKind 種別のバリデーション
func validateKind(kind model.PlaceKind) error {
	if kind != model.KindPOI && kind != model.KindZone {
		return fmt.Errorf("種別は poi または zone を指定してください: %s: %w", kind, model.ErrInvalidPlace)
	}
	return nil
}

// validatePlaceInput リクエストのバリデーション
func validatePlaceInput(kind model.PlaceKind, req *model.PlaceInput) error {
	if err := validateKind(kind); err != nil {
		return err
	}
	if req == nil {
		return fmt.Errorf("リクエストが空です: %w", model.ErrInvalidPlace)
	}
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("タイトルは必須です: %w", model.ErrInvalidPlace)
	}
	switch kind {
	case model.KindPOI:
		if req.Coords == nil || !req.Coords.IsFinite() {
			return fmt.Errorf("POIには数値の座標が必要です: %w", model.ErrInvalidPlace)
		}
	case model.KindZone:
		if len(req.Coordinates) < model.MinZoneVertices {
			return fmt.Errorf("ゾーンには%d点以上の境界が必要です: %w", model.MinZoneVertices, model.ErrInvalidPlace)
		}
		if !helper.IsSimplePolygon(req.Coordinates) {
			return fmt.Errorf("ゾーンの境界が自己交差しているか面積がありません: %w", model.ErrInvalidPlace)
		}
	}
	return nil
}
