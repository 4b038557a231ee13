package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/user/reelcircle/internal/model"
	"gorm.io/gorm"
)

type PersonRepository struct {
	db *gorm.DB
}

func NewPersonRepository(db *gorm.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

// List 分页列出人物，可按姓名模糊搜索
func (r *PersonRepository) List(query string, limit, offset int) ([]*model.Person, int64, error) {
	q := r.db.Model(&model.Person{})
	if kw := strings.TrimSpace(query); kw != "" {
		q = q.Where("name ILIKE ?", "%"+kw+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var people []*model.Person
	err := q.Order("name ASC").Order("id ASC").Limit(limit).Offset(offset).Find(&people).Error
	return people, total, err
}

// FindByID 根据 ID 查找人物（含参演记录）
func (r *PersonRepository) FindByID(id int) (*model.Person, error) {
	var person model.Person
	err := r.db.Preload("Credits").Preload("Credits.Movie").First(&person, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &person, nil
}

// ExistAll 检查一组人物 ID 是否都存在
func (r *PersonRepository) ExistAll(ids []int) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}
	uniq := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		uniq[id] = struct{}{}
	}
	var count int64
	err := r.db.Model(&model.Person{}).Where("id IN ?", ids).Count(&count).Error
	return int(count) == len(uniq), err
}

// Create 创建人物
func (r *PersonRepository) Create(p *model.Person) error {
	p.ID = 0
	p.CreatedAt = time.Now()
	p.Credits = nil
	return r.db.Create(p).Error
}

// Update 更新人物
func (r *PersonRepository) Update(p *model.Person) error {
	res := r.db.Model(&model.Person{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"name":       p.Name,
		"bio":        p.Bio,
		"photo_url":  p.PhotoURL,
		"birth_year": p.BirthYear,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete 删除人物及其参演记录
func (r *PersonRepository) Delete(id int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("person_id = ?", id).Delete(&model.MovieCredit{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Person{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Count 人物总数
func (r *PersonRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Person{}).Count(&count).Error
	return count, err
}
