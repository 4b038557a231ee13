package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/reelcircle/internal/model"
	"github.com/user/reelcircle/internal/recommend"
	"github.com/user/reelcircle/internal/utils"
)

// ==================== 管理后台 ====================

type creditRequest struct {
	PersonID  int    `json:"person_id" binding:"required,min=1"`
	Role      string `json:"role" binding:"required,oneof=director writer actor crew"`
	Character string `json:"character" binding:"max=200"`
}

type movieRequest struct {
	Title     string          `json:"title" binding:"required,max=255"`
	Year      int             `json:"year" binding:"omitempty,min=1870,max=2100"`
	Genre     string          `json:"genre" binding:"max=64"`
	Overview  string          `json:"overview" binding:"max=5000"`
	PosterURL string          `json:"poster_url" binding:"omitempty,url,max=512"`
	Credits   []creditRequest `json:"credits" binding:"dive"`
}

type personRequest struct {
	Name      string `json:"name" binding:"required,max=255"`
	Bio       string `json:"bio" binding:"max=5000"`
	PhotoURL  string `json:"photo_url" binding:"omitempty,url,max=512"`
	BirthYear int    `json:"birth_year" binding:"omitempty,min=1800,max=2100"`
}

type roleRequest struct {
	Role string `json:"role" binding:"required,oneof=user admin"`
}

func (r movieRequest) toModel(id int) *model.Movie {
	m := &model.Movie{
		ID:        id,
		Title:     r.Title,
		Year:      r.Year,
		Genre:     r.Genre,
		Overview:  r.Overview,
		PosterURL: r.PosterURL,
	}
	for _, cr := range r.Credits {
		m.Credits = append(m.Credits, model.MovieCredit{
			PersonID:  cr.PersonID,
			Role:      cr.Role,
			Character: cr.Character,
		})
	}
	return m
}

// bindMovie 解析电影请求并确认演职员都存在
func (h *Handler) bindMovie(c *gin.Context, id int) (*model.Movie, bool) {
	var req movieRequest
	if !bindJSON(c, &req) {
		return nil, false
	}

	ids := make([]int, 0, len(req.Credits))
	for _, cr := range req.Credits {
		ids = append(ids, cr.PersonID)
	}
	ok, err := h.Repos.Person.ExistAll(ids)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if !ok {
		utils.BadRequest(c, "演职员中包含不存在的人物")
		return nil, false
	}
	return req.toModel(id), true
}

// AdminCreateMovie 新增电影
func (h *Handler) AdminCreateMovie(c *gin.Context) {
	movie, ok := h.bindMovie(c, 0)
	if !ok {
		return
	}
	if err := h.Repos.Movie.Create(movie); err != nil {
		respondError(c, err)
		return
	}
	utils.CacheDelete(genresCacheKey)
	h.invalidateRecommendations()
	utils.Created(c, movie)
}

// AdminUpdateMovie 修改电影（整体替换演职员）
func (h *Handler) AdminUpdateMovie(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	movie, ok := h.bindMovie(c, id)
	if !ok {
		return
	}
	if err := h.Repos.Movie.Update(movie); err != nil {
		respondError(c, err)
		return
	}
	utils.CacheDelete(genresCacheKey)
	h.invalidateMovie(id)

	updated, err := h.Repos.Movie.FindByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if updated == nil {
		utils.NotFound(c, "电影不存在")
		return
	}
	utils.Success(c, updated)
}

// AdminDeleteMovie 删除电影
func (h *Handler) AdminDeleteMovie(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Repos.Movie.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	utils.CacheDelete(genresCacheKey)
	h.invalidateMovie(id)
	utils.SuccessWithMessage(c, "删除成功", nil)
}

// AdminCreatePerson 新增人物
func (h *Handler) AdminCreatePerson(c *gin.Context) {
	var req personRequest
	if !bindJSON(c, &req) {
		return
	}
	p := &model.Person{Name: req.Name, Bio: req.Bio, PhotoURL: req.PhotoURL, BirthYear: req.BirthYear}
	if err := h.Repos.Person.Create(p); err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, p)
}

// AdminUpdatePerson 修改人物
func (h *Handler) AdminUpdatePerson(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req personRequest
	if !bindJSON(c, &req) {
		return
	}
	p := &model.Person{ID: id, Name: req.Name, Bio: req.Bio, PhotoURL: req.PhotoURL, BirthYear: req.BirthYear}
	if err := h.Repos.Person.Update(p); err != nil {
		respondError(c, err)
		return
	}
	// 演职员姓名出现在电影详情缓存里
	utils.CacheDeletePrefix(movieCachePrefix)
	utils.Success(c, p)
}

// AdminDeletePerson 删除人物
func (h *Handler) AdminDeletePerson(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Repos.Person.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	utils.CacheDeletePrefix(movieCachePrefix)
	h.invalidateRecommendations()
	utils.SuccessWithMessage(c, "删除成功", nil)
}

// AdminUsers 用户列表
func (h *Handler) AdminUsers(c *gin.Context) {
	page, size, err := parsePaging(c, recommend.DefaultListPageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	users, total, err := h.Repos.User.List(size, offset(page, size))
	if err != nil {
		respondError(c, err)
		return
	}
	data, err := pageData(users, page, size, total)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, data)
}

// AdminUpdateUserRole 修改用户角色
func (h *Handler) AdminUpdateUserRole(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req roleRequest
	if !bindJSON(c, &req) {
		return
	}
	if id == currentUserID(c) && req.Role != model.RoleAdmin {
		utils.BadRequest(c, "不能取消自己的管理员权限")
		return
	}

	user, err := h.Repos.User.FindByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		utils.NotFound(c, "用户不存在")
		return
	}
	if err := h.Repos.User.UpdateRole(id, req.Role); err != nil {
		respondError(c, err)
		return
	}
	user.Role = req.Role
	utils.Success(c, user)
}

// AdminStats 站点统计
func (h *Handler) AdminStats(c *gin.Context) {
	users, err := h.Repos.User.Count()
	if err != nil {
		respondError(c, err)
		return
	}
	movies, _ := h.Repos.Movie.Count()
	people, _ := h.Repos.Person.Count()
	reviews, _ := h.Repos.Review.Count()

	utils.Success(c, gin.H{
		"users":   users,
		"movies":  movies,
		"people":  people,
		"reviews": reviews,
	})
}
