package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrAlreadyMember     = errors.New("membership already exists")
	ErrNotMember         = errors.New("membership does not exist")
	ErrUnknownTag        = errors.New("unknown tag")
	ErrUnknownIngredient = errors.New("unknown ingredient")
	ErrTokenUnusable     = errors.New("refresh token expired or revoked")
)

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

func paginate(offset, limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if offset > 0 {
			db = db.Offset(offset)
		}
		if limit > 0 {
			db = db.Limit(limit)
		}
		return db
	}
}
