package repository

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"Sulam-App/internal/domain/model"
	"Sulam-App/internal/domain/repository"
)

// FirestorePlacesRepository Firestoreの pois / zones コレクションを扱うリポジトリ
type FirestorePlacesRepository struct {
	client *firestore.Client
}

// NewFirestorePlacesRepository 新しいFirestorePlacesRepositoryインスタンスを作成
func NewFirestorePlacesRepository(client *firestore.Client) *FirestorePlacesRepository {
	return &FirestorePlacesRepository{client: client}
}

var (
	_ repository.PlacesRepository = (*FirestorePlacesRepository)(nil)
	_ repository.PlacesWatcher    = (*FirestorePlacesRepository)(nil)
)

// List は指定種別の全ドキュメントを取得する
func (r *FirestorePlacesRepository) List(ctx context.Context, kind model.PlaceKind) ([]*model.Place, error) {
	docs, err := r.client.Collection(CollectionFor(kind)).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("%sコレクションの取得に失敗: %w", CollectionFor(kind), err)
	}
	return snapshotsToPlaces(kind, docs), nil
}

// GetByID は1件取得する
func (r *FirestorePlacesRepository) GetByID(ctx context.Context, kind model.PlaceKind, id string) (*model.Place, error) {
	doc, err := r.client.Collection(CollectionFor(kind)).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%s/%s: %w", CollectionFor(kind), id, model.ErrPlaceNotFound)
		}
		return nil, fmt.Errorf("ドキュメントの取得に失敗: %w", err)
	}
	return DocumentToPlace(doc.Ref.ID, kind, doc.Data()), nil
}

// Create はドキュメントを追加し、Firestoreが採番したIDを返す
func (r *FirestorePlacesRepository) Create(ctx context.Context, place *model.Place) (string, error) {
	ref, _, err := r.client.Collection(CollectionFor(place.Kind)).Add(ctx, PlaceToDocument(place))
	if err != nil {
		log.Printf("❌ Failed to add %s: %v", place.Kind, err)
		return "", fmt.Errorf("ドキュメントの追加に失敗: %w", err)
	}
	log.Printf("💾 %s added: %s", place.Kind, ref.ID)
	return ref.ID, nil
}

// Update は既存ドキュメントのフィールドを更新する
func (r *FirestorePlacesRepository) Update(ctx context.Context, place *model.Place) error {
	doc := PlaceToDocument(place)
	updates := make([]firestore.Update, 0, len(doc))
	for _, key := range []string{"title", "desc", "img", "coords", "coordinates"} {
		if v, ok := doc[key]; ok {
			updates = append(updates, firestore.Update{Path: key, Value: v})
		}
	}

	_, err := r.client.Collection(CollectionFor(place.Kind)).Doc(place.ID).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("%s/%s: %w", CollectionFor(place.Kind), place.ID, model.ErrPlaceNotFound)
		}
		return fmt.Errorf("ドキュメントの更新に失敗: %w", err)
	}
	log.Printf("💾 %s updated: %s", place.Kind, place.ID)
	return nil
}

// Delete はドキュメントを削除する
func (r *FirestorePlacesRepository) Delete(ctx context.Context, kind model.PlaceKind, id string) error {
	if _, err := r.client.Collection(CollectionFor(kind)).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("ドキュメントの削除に失敗: %w", err)
	}
	log.Printf("💾 %s deleted: %s", kind, id)
	return nil
}

// Watch はコレクションのスナップショットを購読し、変更ごとに全件で onChange を呼ぶ
// ctx が取り消されるまでブロックする
func (r *FirestorePlacesRepository) Watch(ctx context.Context, kind model.PlaceKind, onChange func([]*model.Place)) error {
	it := r.client.Collection(CollectionFor(kind)).Snapshots(ctx)
	defer it.Stop()

	for {
		snap, err := it.Next()
		if err != nil {
			if errors.Is(err, iterator.Done) || ctx.Err() != nil || status.Code(err) == codes.Canceled {
				return nil
			}
			return fmt.Errorf("%sコレクションの購読に失敗: %w", CollectionFor(kind), err)
		}
		docs, err := snap.Documents.GetAll()
		if err != nil {
			return fmt.Errorf("スナップショットの読み取りに失敗: %w", err)
		}
		onChange(snapshotsToPlaces(kind, docs))
	}
}

func snapshotsToPlaces(kind model.PlaceKind, docs []*firestore.DocumentSnapshot) []*model.Place {
	places := make([]*model.Place, 0, len(docs))
	for _, doc := range docs {
		places = append(places, DocumentToPlace(doc.Ref.ID, kind, doc.Data()))
	}
	return places
}
