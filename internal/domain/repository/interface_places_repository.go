package repository

import (
	"context"

	"Sulam-App/internal/domain/model"
)

// PlacesRepository はPOI・ゾーンの永続化を担うリポジトリインターフェース
type PlacesRepository interface {
	// List は指定種別の全ての場所をコレクション順で返す
	List(ctx context.Context, kind model.PlaceKind) ([]*model.Place, error)
	GetByID(ctx context.Context, kind model.PlaceKind, id string) (*model.Place, error)
	// Create は新しい場所を保存し、永続化層が採番したIDを返す
	Create(ctx context.Context, place *model.Place) (string, error)
	Update(ctx context.Context, place *model.Place) error
	Delete(ctx context.Context, kind model.PlaceKind, id string) error
}

// PlacesWatcher はコレクションの変更をリアルタイムに通知できるリポジトリ
// onChange はスナップショットごとに、その種別の全件で呼ばれる
type PlacesWatcher interface {
	Watch(ctx context.Context, kind model.PlaceKind, onChange func([]*model.Place)) error
}
