package firestore

import (
	"context"
	"fmt"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

// FirestoreClient はマップデータ（pois / zones コレクション）を保持するFirestoreへの接続
type FirestoreClient struct {
	client    *firestore.Client
	projectID string
}

// NewFirestoreClient は新しいFirestoreClientを作成
// credentialsFile が存在すればそれを使い、なければデフォルト認証（Cloud Run・エミュレータ）を使う
func NewFirestoreClient(ctx context.Context, projectID, credentialsFile string) (*FirestoreClient, error) {
	if projectID == "" {
		return nil, fmt.Errorf("FirestoreのプロジェクトIDが設定されていません")
	}

	var opts []option.ClientOption
	switch {
	case os.Getenv("FIRESTORE_EMULATOR_HOST") != "":
		log.Printf("🧪 Firestoreエミュレータを使用: %s", os.Getenv("FIRESTORE_EMULATOR_HOST"))
	case credentialsFile == "":
		log.Printf("☁️ 認証ファイル未指定: デフォルト認証を使用")
	default:
		if _, err := os.Stat(credentialsFile); err != nil {
			log.Printf("⚠️ Credentials file not found: %s, trying with default authentication", credentialsFile)
		} else {
			log.Printf("📄 Using credentials file: %s", credentialsFile)
			opts = append(opts, option.WithCredentialsFile(credentialsFile))
		}
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	log.Printf("✅ Firestore client initialized for project: %s", projectID)

	return &FirestoreClient{client: client, projectID: projectID}, nil
}

// Close は接続を閉じる
func (fc *FirestoreClient) Close() error {
	return fc.client.Close()
}

// GetClient は内部のFirestoreクライアントを返す
func (fc *FirestoreClient) GetClient() *firestore.Client {
	return fc.client
}

// ProjectID は接続先プロジェクト
func (fc *FirestoreClient) ProjectID() string {
	return fc.projectID
}
