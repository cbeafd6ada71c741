package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"Sulam-App/internal/application"
	"Sulam-App/internal/config"
	"Sulam-App/internal/domain/helper"
	"Sulam-App/internal/domain/model"
	domainrepo "Sulam-App/internal/domain/repository"
	"Sulam-App/internal/domain/service"
	"Sulam-App/internal/handler"
	"Sulam-App/internal/infrastructure/ai"
	"Sulam-App/internal/infrastructure/auth"
	"Sulam-App/internal/infrastructure/database"
	"Sulam-App/internal/infrastructure/firestore"
	"Sulam-App/internal/infrastructure/knowledge"
	"Sulam-App/internal/infrastructure/metrics"
	"Sulam-App/internal/repository"
	"Sulam-App/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	projector, err := helper.NewProjector(cfg.Calibration)
	if err != nil {
		log.Fatalf("マップ校正値が不正: %v", err)
	}

	catalog := service.NewCatalog()
	catalogUpdates, unsubscribe := catalog.Subscribe()
	defer unsubscribe()
	go trackCatalogGauge(ctx, catalog, catalogUpdates)

	// 場所データの保存先
	var placesRepo domainrepo.PlacesRepository
	live := false
	switch cfg.StoreBackend {
	case config.BackendFirestore:
		log.Println("Initializing Firestore client...")
		fsClient, err := firestore.NewFirestoreClient(ctx, cfg.FirestoreProjectID, cfg.CredentialsFile)
		if err != nil {
			log.Fatalf("Firestoreクライアント初期化失敗: %v", err)
		}
		defer fsClient.Close()
		log.Printf("✅ Firestore connected (project=%s)", fsClient.ProjectID())

		fsRepo := repository.NewFirestorePlacesRepository(fsClient.GetClient())
		placesRepo = fsRepo
		if err := catalog.Refresh(ctx, fsRepo); err != nil {
			log.Fatalf("場所データの初期読み込みに失敗: %v", err)
		}
		for _, kind := range []model.PlaceKind{model.KindPOI, model.KindZone} {
			go watchPlaces(ctx, fsRepo, catalog, kind)
		}
		live = true
	case config.BackendSQLite:
		log.Printf("Opening SQLite database %s...", cfg.SQLitePath)
		sqliteClient, err := database.NewSQLiteClient(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("SQLite初期化失敗: %v", err)
		}
		defer sqliteClient.Close()
		if err := sqliteClient.HealthCheck(); err != nil {
			log.Fatalf("SQLiteヘルスチェック失敗: %v", err)
		}

		placesRepo = repository.NewSQLitePlacesRepository(sqliteClient.DB)
		if err := catalog.Refresh(ctx, placesRepo); err != nil {
			log.Fatalf("場所データの初期読み込みに失敗: %v", err)
		}
	}
	log.Printf("✅ カタログ読み込み完了: POI %d件, ゾーン %d件",
		len(catalog.ByKind(model.KindPOI)), len(catalog.ByKind(model.KindZone)))

	// AI試行ログ（PostgreSQLは任意）
	recorder := repository.NewAttemptRecorder(nil)
	var attemptStats domainrepo.AttemptStats
	dsn, err := database.PostgresDSN(cfg.DatabaseURL, cfg.SupabaseURL, cfg.SupabaseDBPassword)
	if err != nil {
		log.Fatalf("PostgreSQL接続設定が不正: %v", err)
	}
	if dsn != "" {
		pgClient, err := database.NewPostgreSQLClient(dsn)
		if err != nil {
			log.Printf("⚠️ PostgreSQLに接続できません（試行ログはメトリクスのみ）: %v", err)
		} else if err := pgClient.HealthCheck(); err != nil {
			log.Printf("⚠️ PostgreSQLヘルスチェック失敗（試行ログはメトリクスのみ）: %v", err)
			pgClient.Close()
		} else {
			defer pgClient.Close()
			log.Println("✅ PostgreSQL attempt log enabled")
			attemptLog := repository.NewPostgresAttemptLogRepository(pgClient.DB)
			recorder = repository.NewAttemptRecorder(attemptLog)
			attemptStats = attemptLog
		}
	}

	// 外部要約（Redisキャッシュは任意）
	var knowledgeRepo domainrepo.KnowledgeRepository = knowledge.NewWikipediaClient(cfg.WikipediaURL, cfg.KnowledgeTimeout, cfg.SummaryMaxChars)
	if rc := knowledge.OpenRedis(cfg.RedisHost, cfg.RedisPort, cfg.RedisPass, cfg.RedisDB); rc != nil {
		defer rc.Close()
		knowledgeRepo = knowledge.NewCachedKnowledgeRepository(knowledgeRepo, rc, cfg.SummaryCacheTTL)
	}

	providers, err := ai.BuildProviders(ai.ProviderSettings{
		Models:     cfg.AIModels,
		OpenRouter: cfg.OpenRouter,
		GeminiKey:  cfg.GeminiAPIKey,
		GeminiURL:  cfg.GeminiBaseURL,
	})
	if err != nil {
		log.Fatalf("AIプロバイダの設定が不正: %v", err)
	}
	if len(providers) == 0 {
		log.Printf("⚠️ 利用できるAIプロバイダがありません。質問には常に利用不可の回答を返します")
	}
	answerService := service.NewAnswerService(providers, recorder)

	// 管理者ログイン（Supabaseは任意）
	var authenticator domainrepo.Authenticator
	if cfg.AuthEnabled() {
		supabaseClient, err := database.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)
		if err != nil {
			log.Fatalf("Supabaseクライアント初期化失敗: %v", err)
		}
		if err := supabaseClient.HealthCheck(); err != nil {
			log.Fatalf("Supabaseヘルスチェック失敗: %v", err)
		}
		authenticator = auth.NewSupabaseAuthenticator(supabaseClient)
		log.Printf("✅ Supabase Auth enabled for admin API (%s)", supabaseClient.URL())
	} else {
		log.Println("⚠️ SUPABASE_URL / SUPABASE_ANON_KEY が未設定のため管理APIは無効です")
	}

	sessions := service.NewSessionStore()
	go pruneSessions(ctx, sessions, cfg.SessionIdleTTL)

	exploreUseCase := usecase.NewExploreUseCase(catalog, sessions, projector)
	askUseCase := usecase.NewAskUseCase(sessions, catalog, knowledgeRepo, answerService, cfg.KnowledgeTimeout, cfg.SummaryMaxChars)
	adminService := application.NewAdminService(placesRepo, catalog, live)

	router := handler.NewRouter(handler.Handlers{
		Health:  handler.NewHealthHandler(catalog, sessions, len(providers), attemptStats),
		Places:  handler.NewPlacesHandler(exploreUseCase),
		Session: handler.NewSessionHandler(exploreUseCase, askUseCase),
		Socket:  handler.NewSessionSocketHandler(exploreUseCase, catalog),
		Admin:   handler.NewAdminHandler(adminService),
		Auth:    handler.NewAuthHandler(authenticator),
		Metrics: metrics.Handler(),
	})

	gin.SetMode(gin.ReleaseMode)
	log.Printf("🚀 Sulam-App server starting on :%s...", cfg.Port)
	go func() {
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatalf("サーバー起動失敗: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("👋 シャットダウンします")
}

// watchPlaces はFirestoreの変更をカタログに反映し続ける
func watchPlaces(ctx context.Context, repo *repository.FirestorePlacesRepository, catalog *service.Catalog, kind model.PlaceKind) {
	for {
		err := repo.Watch(ctx, kind, func(places []*model.Place) {
			version := catalog.Replace(kind, places)
			log.Printf("🔄 %s を更新 (%d件, version=%d)", repository.CollectionFor(kind), len(places), version)
		})
		if ctx.Err() != nil {
			return
		}
		log.Printf("⚠️ %s の監視が切断されました。5秒後に再接続: %v", repository.CollectionFor(kind), err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}

// trackCatalogGauge はカタログ件数をメトリクスに反映する
func trackCatalogGauge(ctx context.Context, catalog *service.Catalog, updates <-chan uint64) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			metrics.CatalogPlaces.WithLabelValues(string(model.KindPOI)).Set(float64(len(catalog.ByKind(model.KindPOI))))
			metrics.CatalogPlaces.WithLabelValues(string(model.KindZone)).Set(float64(len(catalog.ByKind(model.KindZone))))
		}
	}
}

// pruneSessions は放置されたセッションを定期的に破棄する
func pruneSessions(ctx context.Context, sessions *service.SessionStore, idle time.Duration) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Prune(idle); n > 0 {
				log.Printf("🧹 放置セッションを%d件破棄", n)
			}
			metrics.ActiveSessions.Set(float64(sessions.Len()))
		}
	}
}
