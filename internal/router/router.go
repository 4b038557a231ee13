package router

import (
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/reelcircle/internal/handler"
	"github.com/user/reelcircle/internal/middleware"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	secret := h.Config.AppSecret
	authLimiter := middleware.NewRateLimiter(h.Config.AuthRateLimit)

	// 健康检查与监控
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ==================== 页面 ====================
	r.GET("/", middleware.OptionalAuth(secret), h.Index)
	r.NoRoute(h.NotFound)

	api := r.Group("/api")

	// ==================== 认证 ====================
	auth := api.Group("/auth")
	{
		auth.POST("/register", authLimiter.Middleware(), h.Register)
		auth.POST("/login", authLimiter.Middleware(), h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", middleware.RequireAuth(secret), h.Me)
	}

	// ==================== 公开接口 ====================
	public := api.Group("")
	public.Use(middleware.OptionalAuth(secret))
	{
		public.GET("/movies", h.ListMovies)
		public.GET("/movies/:id", h.GetMovie)
		public.GET("/movies/:id/reviews", h.MovieReviews)
		public.GET("/movies/:id/similar", h.SimilarMovies)
		public.GET("/genres", h.Genres)

		public.GET("/people", h.ListPeople)
		public.GET("/people/:id", h.GetPerson)

		public.GET("/users/:id", h.GetUser)
		public.GET("/users/:id/reviews", h.UserReviews)
	}

	// ==================== 需要登录 ====================
	private := api.Group("")
	private.Use(middleware.RequireAuth(secret))
	{
		private.PUT("/me/profile", h.UpdateProfile)
		private.PUT("/me/password", h.UpdatePassword)

		private.PUT("/movies/:id/review", h.PutReview)
		private.DELETE("/movies/:id/review", h.DeleteReview)

		private.POST("/movies/:id/like", h.LikeMovie)
		private.DELETE("/movies/:id/like", h.UnlikeMovie)
		private.GET("/me/likes", h.MyLikes)

		private.POST("/movies/:id/watchlist", h.AddToWatchlist)
		private.DELETE("/movies/:id/watchlist", h.RemoveFromWatchlist)
		private.GET("/me/watchlist", h.MyWatchlist)

		// 好友
		private.GET("/me/friends", h.MyFriends)
		private.GET("/me/friends/requests", h.MyFriendRequests)
		private.DELETE("/me/friends/:id", h.Unfriend)
		private.POST("/users/:id/friend-request", h.SendFriendRequest)
		private.POST("/friend-requests/:id/accept", h.AcceptFriendRequest)
		private.POST("/friend-requests/:id/reject", h.RejectFriendRequest)
		private.DELETE("/friend-requests/:id", h.CancelFriendRequest)

		// 推荐
		private.GET("/recommendations", h.Recommendations)
		private.POST("/recommendations/preview", h.PreviewRecommendations)
		private.GET("/recommendations/settings", h.GetRecommendationSettings)
		private.PUT("/recommendations/settings", h.UpdateRecommendationSettings)
		private.DELETE("/recommendations/settings", h.ResetRecommendationSettings)
	}

	// ==================== 管理后台 ====================
	admin := api.Group("/admin")
	admin.Use(middleware.RequireAuth(secret))
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/stats", h.AdminStats)
		admin.GET("/users", h.AdminUsers)
		admin.PUT("/users/:id/role", h.AdminUpdateUserRole)

		admin.POST("/movies", h.AdminCreateMovie)
		admin.PUT("/movies/:id", h.AdminUpdateMovie)
		admin.DELETE("/movies/:id", h.AdminDeleteMovie)

		admin.POST("/people", h.AdminCreatePerson)
		admin.PUT("/people/:id", h.AdminUpdatePerson)
		admin.DELETE("/people/:id", h.AdminDeletePerson)
	}
}

// LoadTemplates 使用 multitemplate 加载模板，解决模板继承问题
func LoadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	layouts, err := filepath.Glob(templatesDir + "/layouts/*.html")
	if err != nil {
		panic(err)
	}

	assemble := func(view string) []string {
		files := make([]string, 0, len(layouts)+1)
		files = append(files, layouts...)
		files = append(files, view)
		return files
	}

	funcMap := template.FuncMap{
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"default": func(defaultValue, value interface{}) interface{} {
			switch v := value.(type) {
			case string:
				if v == "" {
					return defaultValue
				}
			case nil:
				return defaultValue
			}
			return value
		},
	}

	for _, page := range []string{"index", "404"} {
		viewPath := templatesDir + "/pages/" + page + ".html"
		r.AddFromFilesFuncs(page+".html", funcMap, assemble(viewPath)...)
	}

	return r
}
