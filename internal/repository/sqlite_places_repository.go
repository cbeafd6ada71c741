package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"Sulam-App/internal/domain/model"
	"Sulam-App/internal/domain/repository"
)

// SQLitePlacesRepository ローカル開発用のSQLite場所リポジトリ
// 座標はFirestoreと同じドキュメント形式のJSONで保存する
type SQLitePlacesRepository struct {
	db *sql.DB
}

// NewSQLitePlacesRepository 新しいSQLitePlacesRepositoryインスタンスを作成
func NewSQLitePlacesRepository(db *sql.DB) *SQLitePlacesRepository {
	return &SQLitePlacesRepository{db: db}
}

var _ repository.PlacesRepository = (*SQLitePlacesRepository)(nil)

// List は指定種別を挿入順で返す
func (r *SQLitePlacesRepository) List(ctx context.Context, kind model.PlaceKind) ([]*model.Place, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, description, img, coords_json, boundary_json
FROM places WHERE kind = ? ORDER BY seq`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("場所一覧の取得に失敗: %w", err)
	}
	defer rows.Close()

	places := []*model.Place{}
	for rows.Next() {
		p, err := scanPlace(rows, kind)
		if err != nil {
			return nil, err
		}
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("場所一覧の読み取りに失敗: %w", err)
	}
	return places, nil
}

// GetByID は1件取得する
func (r *SQLitePlacesRepository) GetByID(ctx context.Context, kind model.PlaceKind, id string) (*model.Place, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, title, description, img, coords_json, boundary_json
FROM places WHERE kind = ? AND id = ?`, string(kind), id)
	p, err := scanPlace(row, kind)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s/%s: %w", kind, id, model.ErrPlaceNotFound)
	}
	return p, err
}

// Create はUUIDを採番して保存する
func (r *SQLitePlacesRepository) Create(ctx context.Context, place *model.Place) (string, error) {
	id := uuid.New().String()
	coords, boundary, err := encodeGeometry(place)
	if err != nil {
		return "", err
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO places (id, kind, title, description, img, coords_json, boundary_json)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, string(place.Kind), place.Title, place.Desc, place.Img, coords, boundary)
	if err != nil {
		return "", fmt.Errorf("場所の保存に失敗: %w", err)
	}
	log.Printf("💾 %s added: %s", place.Kind, id)
	return id, nil
}

// Update は既存の場所を上書きする
func (r *SQLitePlacesRepository) Update(ctx context.Context, place *model.Place) error {
	coords, boundary, err := encodeGeometry(place)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
UPDATE places SET title = ?, description = ?, img = ?, coords_json = ?, boundary_json = ?
WHERE kind = ? AND id = ?`,
		place.Title, place.Desc, place.Img, coords, boundary, string(place.Kind), place.ID)
	if err != nil {
		return fmt.Errorf("場所の更新に失敗: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s/%s: %w", place.Kind, place.ID, model.ErrPlaceNotFound)
	}
	log.Printf("💾 %s updated: %s", place.Kind, place.ID)
	return nil
}

// Delete は場所を削除する。存在しなくてもエラーにしない
func (r *SQLitePlacesRepository) Delete(ctx context.Context, kind model.PlaceKind, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM places WHERE kind = ? AND id = ?`, string(kind), id); err != nil {
		return fmt.Errorf("場所の削除に失敗: %w", err)
	}
	log.Printf("💾 %s deleted: %s", kind, id)
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlace(row rowScanner, kind model.PlaceKind) (*model.Place, error) {
	var (
		id, title, desc, img string
		coords, boundary     sql.NullString
	)
	if err := row.Scan(&id, &title, &desc, &img, &coords, &boundary); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("場所の読み取りに失敗: %w", err)
	}

	doc := map[string]interface{}{"title": title, "desc": desc, "img": img}
	if coords.Valid && coords.String != "" {
		var v interface{}
		if err := json.Unmarshal([]byte(coords.String), &v); err == nil {
			doc["coords"] = v
		}
	}
	if boundary.Valid && boundary.String != "" {
		var v interface{}
		if err := json.Unmarshal([]byte(boundary.String), &v); err == nil {
			doc["coordinates"] = v
		}
	}
	return DocumentToPlace(id, kind, doc), nil
}

func encodeGeometry(place *model.Place) (coords, boundary sql.NullString, err error) {
	doc := PlaceToDocument(place)
	if v, ok := doc["coords"]; ok {
		b, err := json.Marshal(v)
		if err != nil {
			return coords, boundary, fmt.Errorf("座標のエンコードに失敗: %w", err)
		}
		coords = sql.NullString{String: string(b), Valid: true}
	}
	if v, ok := doc["coordinates"]; ok {
		b, err := json.Marshal(v)
		if err != nil {
			return coords, boundary, fmt.Errorf("境界のエンコードに失敗: %w", err)
		}
		boundary = sql.NullString{String: string(b), Valid: true}
	}
	return coords, boundary, nil
}
