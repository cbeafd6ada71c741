package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"Sulam-App/internal/domain/helper"
	"Sulam-App/internal/domain/model"
	"Sulam-App/internal/domain/service"
	"Sulam-App/internal/usecase"
)

type stubAnswerService struct {
	answer string
	inputs []service.AnswerInput
}

func (a *stubAnswerService) Answer(ctx context.Context, in service.AnswerInput) string {
	a.inputs = append(a.inputs, in)
	return a.answer
}

type stubAuthenticator struct {
	token     string
	signedOut []string
	signInErr error
}

func (a *stubAuthenticator) SignIn(ctx context.Context, email, password string) (*model.AuthSession, error) {
	if a.signInErr != nil {
		return nil, a.signInErr
	}
	return &model.AuthSession{AccessToken: a.token, Email: email}, nil
}

func (a *stubAuthenticator) Verify(ctx context.Context, accessToken string) (*model.AdminUser, error) {
	if accessToken == "" || accessToken != a.token {
		return nil, model.ErrUnauthorized
	}
	return &model.AdminUser{ID: "admin-1", Email: "admin@example.com"}, nil
}

func (a *stubAuthenticator) SignOut(ctx context.Context, accessToken string) error {
	a.signedOut = append(a.signedOut, accessToken)
	return nil
}

type stubAdminService struct {
	created []*model.PlaceInput
	deleted []string
	err     error
}

func (s *stubAdminService) ListPlaces(ctx context.Context, kind model.PlaceKind) ([]model.PlaceView, error) {
	return []model.PlaceView{{ID: "a", Title: "A", Kind: kind}}, s.err
}

func (s *stubAdminService) CreatePlace(ctx context.Context, kind model.PlaceKind, req *model.PlaceInput) (*model.CreatePlaceResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = append(s.created, req)
	return &model.CreatePlaceResponse{ID: "new-id"}, nil
}

func (s *stubAdminService) UpdatePlace(ctx context.Context, kind model.PlaceKind, id string, req *model.PlaceInput) error {
	return s.err
}

func (s *stubAdminService) DeletePlace(ctx context.Context, kind model.PlaceKind, id string) error {
	s.deleted = append(s.deleted, id)
	return s.err
}

type stubAttemptStats struct {
	counts map[string]map[model.AttemptOutcome]int
}

func (s *stubAttemptStats) CountByOutcome(ctx context.Context) (map[string]map[model.AttemptOutcome]int, error) {
	return s.counts, nil
}

type testServer struct {
	router   *gin.Engine
	catalog  *service.Catalog
	sessions *service.SessionStore
	answers  *stubAnswerService
	admin    *stubAdminService
	auth     *stubAuthenticator
	attempts *stubAttemptStats
}

func testPOI(id string, x, y float64) *model.Place {
	return &model.Place{ID: id, Title: "Title " + id, Kind: model.KindPOI, Coords: &model.Point{X: x, Y: y}}
}

// newTestServer は認証ありのテスト用ルーターを作る
func newTestServer(t *testing.T) *testServer {
	return newTestServerWithAuth(t, true)
}

func newTestServerWithAuth(t *testing.T, withAuth bool) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog := service.NewCatalog()
	catalog.Replace(model.KindPOI, []*model.Place{
		testPOI("a", 0, 0),
		testPOI("b", 10, 0),
		testPOI("c", 20, 0),
		testPOI("d", 30, 0),
		testPOI("e", 40, 0),
	})
	catalog.Replace(model.KindZone, []*model.Place{{
		ID:       "z",
		Title:    "Plaza",
		Kind:     model.KindZone,
		Boundary: []model.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}},
	}})

	projector, err := helper.NewProjector(model.GeoCalibration{
		TopLeft:     model.LatLng{Lat: 10, Lng: 0},
		BottomRight: model.LatLng{Lat: 0, Lng: 10},
		Width:       100,
		Height:      100,
	})
	require.NoError(t, err)

	sessions := service.NewSessionStore()
	answers := &stubAnswerService{answer: "An answer."}
	explore := usecase.NewExploreUseCase(catalog, sessions, projector)
	ask := usecase.NewAskUseCase(sessions, catalog, nil, answers, time.Second, 100)

	ts := &testServer{
		catalog:  catalog,
		sessions: sessions,
		answers:  answers,
		admin:    &stubAdminService{},
		attempts: &stubAttemptStats{counts: map[string]map[model.AttemptOutcome]int{
			"m1": {model.OutcomeAnswered: 2, model.OutcomeTransportError: 1},
		}},
	}
	var authHandler *AuthHandler
	if withAuth {
		ts.auth = &stubAuthenticator{token: "good-token"}
		authHandler = NewAuthHandler(ts.auth)
	} else {
		authHandler = NewAuthHandler(nil)
	}

	ts.router = NewRouter(Handlers{
		Health:  NewHealthHandler(catalog, sessions, 2, ts.attempts),
		Places:  NewPlacesHandler(explore),
		Session: NewSessionHandler(explore, ask),
		Socket:  NewSessionSocketHandler(explore, catalog),
		Admin:   NewAdminHandler(ts.admin),
		Auth:    authHandler,
	})
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (ts *testServer) createSession(t *testing.T) string {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	return decode[model.SessionView](t, w).SessionID
}
