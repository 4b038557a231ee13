package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/reelcircle/internal/recommend"
	"github.com/user/reelcircle/internal/utils"
)

// ListPeople 人物列表
func (h *Handler) ListPeople(c *gin.Context) {
	page, size, err := parsePaging(c, recommend.DefaultListPageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	people, total, err := h.Repos.Person.List(c.Query("q"), size, offset(page, size))
	if err != nil {
		respondError(c, err)
		return
	}
	data, err := pageData(people, page, size, total)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, data)
}

// GetPerson 人物详情及作品
func (h *Handler) GetPerson(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	person, err := h.Repos.Person.FindByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if person == nil {
		utils.NotFound(c, "人物不存在")
		return
	}

	movies, err := h.Repos.Movie.ListByPerson(id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, gin.H{
		"person":      person,
		"filmography": movies,
	})
}
