package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/foodgram/internal/models"
)

// Relation names the two foreign key columns of a membership table.
type Relation struct {
	Owner  string
	Target string
}

var (
	FavoriteRelation     = Relation{Owner: "user_id", Target: "recipe_id"}
	CartRelation         = Relation{Owner: "user_id", Target: "recipe_id"}
	SubscriptionRelation = Relation{Owner: "user_id", Target: "author_id"}
)

// Membership is a row type linking an owner to a target.
type Membership interface {
	models.Favorite | models.CartEntry | models.Subscription
}

func newRow[T Membership](owner, target uuid.UUID) *T {
	var row T
	switch v := any(&row).(type) {
	case *models.Favorite:
		v.UserID, v.RecipeID = owner, target
	case *models.CartEntry:
		v.UserID, v.RecipeID = owner, target
	case *models.Subscription:
		v.UserID, v.AuthorID = owner, target
	}
	return &row
}

func (rel Relation) where(db *gorm.DB, owner, target uuid.UUID) *gorm.DB {
	return db.Where(rel.Owner+" = ? AND "+rel.Target+" = ?", owner, target)
}

// AddMember inserts the (owner, target) row. The unique index decides concurrent inserts.
func AddMember[T Membership](ctx context.Context, db *gorm.DB, rel Relation, owner, target uuid.UUID) (*T, error) {
	row := newRow[T](owner, target)
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := rel.where(tx.Model(new(T)), owner, target).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrAlreadyMember
		}
		return tx.Omit("User", "Recipe", "Author").Create(row).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrAlreadyMember
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

func RemoveMember[T Membership](ctx context.Context, db *gorm.DB, rel Relation, owner, target uuid.UUID) error {
	res := rel.where(db.WithContext(ctx), owner, target).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotMember
	}
	return nil
}

func IsMember[T Membership](ctx context.Context, db *gorm.DB, rel Relation, owner, target uuid.UUID) (bool, error) {
	var n int64
	if err := rel.where(db.WithContext(ctx).Model(new(T)), owner, target).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// MemberTargets returns which of the targets the owner is linked to.
func MemberTargets[T Membership](ctx context.Context, db *gorm.DB, rel Relation, owner uuid.UUID, targets []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool, len(targets))
	if len(targets) == 0 {
		return out, nil
	}
	var ids []uuid.UUID
	if err := db.WithContext(ctx).Model(new(T)).
		Where(rel.Owner+" = ?", owner).
		Where(rel.Target+" IN ?", targets).
		Pluck(rel.Target, &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
