package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/user/reelcircle/internal/config"
	"github.com/user/reelcircle/internal/middleware"
	"github.com/user/reelcircle/internal/model"
	"github.com/user/reelcircle/internal/recommend"
	"github.com/user/reelcircle/internal/service"
)

const testSecret = "handler-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type stubSource struct {
	movies []recommend.Movie
	err    error
}

func (s *stubSource) ListMovies(ctx context.Context) ([]recommend.Movie, error) {
	return s.movies, s.err
}

func (s *stubSource) ListReviews(ctx context.Context) ([]recommend.Review, error) {
	return []recommend.Review{{UserID: 1, MovieID: 1, Rating: 9}}, nil
}

func (s *stubSource) ListUsers(ctx context.Context) ([]recommend.User, error) {
	return []recommend.User{{ID: 1}}, nil
}

type stubSettings struct {
	saved map[int]recommend.Settings
}

func (s *stubSettings) Get(ctx context.Context, userID int) (*recommend.Settings, error) {
	if st, ok := s.saved[userID]; ok {
		return &st, nil
	}
	return nil, nil
}

func (s *stubSettings) Save(ctx context.Context, userID int, st recommend.Settings) error {
	s.saved[userID] = st
	return nil
}

func (s *stubSettings) Delete(ctx context.Context, userID int) error {
	delete(s.saved, userID)
	return nil
}

func score(v float64) *float64 { return &v }

// newTestRouter 电影 1 已评分；2、3 同为 Drama；其余按评分排序
func newTestRouter(src *stubSource) (*gin.Engine, *stubSettings) {
	if src.movies == nil {
		for id := 1; id <= 25; id++ {
			genre := "Comedy"
			if id <= 3 {
				genre = "Drama"
			}
			src.movies = append(src.movies, recommend.Movie{ID: id, Genre: genre, AggregateRating: score(float64(id % 10))})
		}
	}
	settings := &stubSettings{saved: map[int]recommend.Settings{}}
	h := &Handler{
		Config:    &config.Config{AppSecret: testSecret},
		Recommend: service.NewRecommendationService(src, settings, 8, time.Minute),
	}

	r := gin.New()
	g := r.Group("/api", middleware.RequireAuth(testSecret))
	g.GET("/recommendations", h.Recommendations)
	g.POST("/recommendations/preview", h.PreviewRecommendations)
	g.GET("/recommendations/settings", h.GetRecommendationSettings)
	g.PUT("/recommendations/settings", h.UpdateRecommendationSettings)
	g.DELETE("/recommendations/settings", h.ResetRecommendationSettings)
	g.GET("/movies/:id/similar", h.SimilarMovies)
	r.NoRoute(h.NotFound)
	return r, settings
}

type envelope struct {
	Code    int             `json:"code"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type pageBody struct {
	Items []struct {
		ID    int     `json:"id"`
		Score float64 `json:"score"`
	} `json:"items"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalItems int                `json:"total_items"`
	TotalPages int                `json:"total_pages"`
	Settings   recommend.Settings `json:"settings"`
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	token, err := middleware.GenerateToken(1, "viewer@example.com", model.RoleUser, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return w, env
}

func decodePage(t *testing.T, env envelope) pageBody {
	t.Helper()
	var p pageBody
	if err := json.Unmarshal(env.Data, &p); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	return p
}

func TestRecommendations_DefaultPage(t *testing.T) {
	r, _ := newTestRouter(&stubSource{})

	w, env := doRequest(t, r, http.MethodGet, "/api/recommendations", nil)
	if w.Code != http.StatusOK || !env.Success {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	p := decodePage(t, env)
	if p.TotalItems != 24 {
		t.Errorf("TotalItems = %d, want 24 (reviewed movie excluded)", p.TotalItems)
	}
	if p.PageSize != recommend.DefaultRecommendationPageSize || len(p.Items) != recommend.DefaultRecommendationPageSize {
		t.Errorf("page size = %d with %d items, want %d", p.PageSize, len(p.Items), recommend.DefaultRecommendationPageSize)
	}
	if p.TotalPages != 2 {
		t.Errorf("TotalPages = %d, want 2", p.TotalPages)
	}
	for i := 1; i < len(p.Items); i++ {
		if p.Items[i].Score > p.Items[i-1].Score {
			t.Fatalf("items not sorted by score at %d", i)
		}
	}
}

func TestRecommendations_PageErrors(t *testing.T) {
	r, _ := newTestRouter(&stubSource{})

	tests := []struct {
		name string
		path string
	}{
		{name: "page zero", path: "/api/recommendations?page=0"},
		{name: "beyond last page", path: "/api/recommendations?page=3"},
		{name: "non numeric", path: "/api/recommendations?page=abc"},
		{name: "bad size", path: "/api/recommendations?page_size=0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := doRequest(t, r, http.MethodGet, tt.path, nil)
			if w.Code != http.StatusBadRequest || env.Success {
				t.Errorf("status = %d success = %v, want 400", w.Code, env.Success)
			}
		})
	}
}

func TestRecommendations_DataUnavailable(t *testing.T) {
	r, _ := newTestRouter(&stubSource{movies: []recommend.Movie{}, err: errors.New("db down")})

	w, env := doRequest(t, r, http.MethodGet, "/api/recommendations", nil)
	if w.Code != http.StatusServiceUnavailable || env.Success {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestRecommendationSettings_Lifecycle(t *testing.T) {
	r, store := newTestRouter(&stubSource{})

	_, env := doRequest(t, r, http.MethodGet, "/api/recommendations/settings", nil)
	var got settingsResponse
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if got.Custom || got.Settings != recommend.DefaultSettings() {
		t.Errorf("initial settings = %+v, want defaults", got)
	}

	// 只改部分字段，其余沿用当前配置
	w, env := doRequest(t, r, http.MethodPut, "/api/recommendations/settings?page=2", map[string]interface{}{
		"use_rating": false,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, body = %s", w.Code, w.Body.String())
	}
	p := decodePage(t, env)
	if p.Page != 1 {
		t.Errorf("page after settings update = %d, want 1", p.Page)
	}
	if p.Settings.UseRating || !p.Settings.UseGenres || p.Settings.MinRatingForLike != 7 {
		t.Errorf("merged settings = %+v", p.Settings)
	}
	if _, ok := store.saved[1]; !ok {
		t.Errorf("settings were not persisted")
	}
	// 关闭评分后只有 Drama 片有得分
	if p.Items[0].ID != 2 || p.Items[1].ID != 3 {
		t.Errorf("top items = %d, %d; want 2, 3", p.Items[0].ID, p.Items[1].ID)
	}

	w, _ = doRequest(t, r, http.MethodPut, "/api/recommendations/settings", map[string]interface{}{
		"min_rating_for_like": 0,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid PUT status = %d, want 400", w.Code)
	}

	w, _ = doRequest(t, r, http.MethodDelete, "/api/recommendations/settings", nil)
	if w.Code != http.StatusOK {
		t.Errorf("DELETE status = %d, want 200", w.Code)
	}
	if _, ok := store.saved[1]; ok {
		t.Errorf("settings still stored after reset")
	}
}

func TestPreviewRecommendations_DoesNotSave(t *testing.T) {
	r, store := newTestRouter(&stubSource{})

	w, env := doRequest(t, r, http.MethodPost, "/api/recommendations/preview", map[string]interface{}{
		"use_rating": false, "use_genres": false, "use_people": false,
		"use_selected_movies": false, "use_friends": false,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	p := decodePage(t, env)
	for _, it := range p.Items {
		if it.Score != 0 {
			t.Errorf("movie %d score = %v, want 0 with all signals off", it.ID, it.Score)
		}
	}
	// 全部为 0 时按 ID 升序
	if p.Items[0].ID != 2 {
		t.Errorf("first item = %d, want 2", p.Items[0].ID)
	}
	if len(store.saved) != 0 {
		t.Errorf("preview must not persist settings")
	}
}

func TestNotFound_JSON(t *testing.T) {
	r, _ := newTestRouter(&stubSource{})
	w, env := doRequest(t, r, http.MethodGet, "/api/nope", nil)
	if w.Code != http.StatusNotFound || env.Success {
		t.Errorf("status = %d, want 404 envelope", w.Code)
	}
}

func TestSimilarMovies(t *testing.T) {
	r, _ := newTestRouter(&stubSource{})

	type item struct {
		ID     int              `json:"id"`
		Reason recommend.Reason `json:"reason"`
	}

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantIDs    []int
	}{
		// 同为 Drama，评分高者在前
		{name: "same genre", path: "/api/movies/2/similar", wantStatus: http.StatusOK, wantIDs: []int{3, 1}},
		{name: "limit", path: "/api/movies/2/similar?limit=1", wantStatus: http.StatusOK, wantIDs: []int{3}},
		{name: "bad limit", path: "/api/movies/2/similar?limit=abc", wantStatus: http.StatusBadRequest},
		{name: "zero limit", path: "/api/movies/2/similar?limit=0", wantStatus: http.StatusBadRequest},
		{name: "unknown movie", path: "/api/movies/99/similar", wantStatus: http.StatusNotFound},
		{name: "bad id", path: "/api/movies/x/similar", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := doRequest(t, r, http.MethodGet, tt.path, nil)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body = %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var items []item
			if err := json.Unmarshal(env.Data, &items); err != nil {
				t.Fatalf("decode items: %v", err)
			}
			if len(items) != len(tt.wantIDs) {
				t.Fatalf("len(items) = %d, want %d", len(items), len(tt.wantIDs))
			}
			for i, it := range items {
				if it.ID != tt.wantIDs[i] {
					t.Errorf("items[%d] = %d, want %d", i, it.ID, tt.wantIDs[i])
				}
				if it.Reason.Kind != recommend.ReasonGenre {
					t.Errorf("items[%d] reason = %+v, want genre", i, it.Reason)
				}
			}
		})
	}
}

func TestRecommendations_PageSizeClamped(t *testing.T) {
	r, _ := newTestRouter(&stubSource{})

	w, env := doRequest(t, r, http.MethodGet, "/api/recommendations?page_size=500", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	p := decodePage(t, env)
	if p.PageSize != recommend.MaxPageSize {
		t.Errorf("PageSize = %d, want %d", p.PageSize, recommend.MaxPageSize)
	}
	if p.TotalPages != 1 || len(p.Items) != 24 {
		t.Errorf("TotalPages = %d with %d items, want 1 page of 24", p.TotalPages, len(p.Items))
	}
}

func TestRespondError_Status(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "client gone", err: fmt.Errorf("generate: %w", context.Canceled), want: statusClientClosedRequest},
		{name: "data unavailable", err: fmt.Errorf("%w: %w", service.ErrDataUnavailable, errors.New("db down")), want: http.StatusServiceUnavailable},
		{name: "not found", err: service.ErrNotFound, want: http.StatusNotFound},
		{name: "bad page", err: recommend.ErrInvalidPage, want: http.StatusBadRequest},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/recommendations", nil)

			respondError(c, tt.err)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}
