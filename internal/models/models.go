package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"             json:"id"`
	Email        string    `gorm:"size:254;uniqueIndex;not null"    json:"email"`
	Username     string    `gorm:"size:150;uniqueIndex;not null"    json:"username"`
	FirstName    string    `gorm:"size:150;not null"                json:"first_name"`
	LastName     string    `gorm:"size:150;not null"                json:"last_name"`
	PasswordHash string    `gorm:"not null"                         json:"-"`
	Role         string    `gorm:"size:16;not null;default:user"    json:"role"`
	IsActive     bool      `gorm:"not null;default:true"            json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"            json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"        json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE"     json:"-"`
	JTI       string    `gorm:"uniqueIndex;not null"            json:"jti"`
	Token     string    `gorm:"uniqueIndex;not null"            json:"-"`
	ExpiresAt int64     `gorm:"not null"                        json:"expires_at"`
	Revoked   bool      `gorm:"not null;default:false"          json:"revoked"`
}

type Tag struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey"          json:"id"`
	Name  string    `gorm:"size:200;uniqueIndex;not null" json:"name"`
	Color string    `gorm:"size:7;uniqueIndex;not null"   json:"color"`
	Slug  string    `gorm:"size:200;uniqueIndex;not null" json:"slug"`
}

// Ingredient is identified for aggregation by (Name, MeasurementUnit).
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"                                  json:"id"`
	Name            string    `gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit" json:"name"`
	MeasurementUnit string    `gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit" json:"measurement_unit"`
}

type Recipe struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"            json:"id"`
	AuthorID    uuid.UUID `gorm:"type:uuid;index;not null"        json:"author_id"`
	Author      User      `gorm:"constraint:OnDelete:CASCADE"     json:"-"`
	Name        string    `gorm:"size:200;not null;index"         json:"name"`
	Image       string    `gorm:"type:text;not null"              json:"image"`
	Text        string    `gorm:"type:text;not null"              json:"text"`
	CookingTime int       `gorm:"not null;check:cooking_time>0"   json:"cooking_time"`
	PubDate     time.Time `gorm:"not null;index"                  json:"pub_date"`
}

type RecipeTag struct {
	RecipeID uuid.UUID `gorm:"type:uuid;primaryKey"        json:"recipe_id"`
	Recipe   Recipe    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	TagID    uuid.UUID `gorm:"type:uuid;primaryKey;index"  json:"tag_id"`
	Tag      Tag       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// RecipeIngredient is a recipe line item. Position keeps submission order.
type RecipeIngredient struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"                                  json:"id"`
	RecipeID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient"   json:"recipe_id"`
	Recipe       Recipe     `gorm:"constraint:OnDelete:CASCADE"                           json:"-"`
	IngredientID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient"   json:"ingredient_id"`
	Ingredient   Ingredient `gorm:"constraint:OnDelete:RESTRICT"                          json:"-"`
	Amount       float64    `gorm:"not null;check:amount>0"                               json:"amount"`
	Position     int        `gorm:"not null;default:0"                                    json:"position"`
}

type Favorite struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"                           json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_recipe" json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE"                    json:"-"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_recipe;index" json:"recipe_id"`
	Recipe    Recipe    `gorm:"constraint:OnDelete:CASCADE"                    json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// CartEntry marks a recipe the user intends to shop for.
type CartEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"                         json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_recipe" json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE"                  json:"-"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_recipe;index" json:"recipe_id"`
	Recipe    Recipe    `gorm:"constraint:OnDelete:CASCADE"                  json:"-"`
	CreatedAt time.Time `gorm:"index"                                        json:"created_at"`
}

type Subscription struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"                                 json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscription_user_author" json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE"                          json:"-"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscription_user_author;index" json:"author_id"`
	Author    User      `gorm:"constraint:OnDelete:CASCADE"                          json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (CartEntry) TableName() string { return "cart_entries" }

func (RecipeIngredient) TableName() string { return "recipe_ingredients" }

// All lists every model in migration order.
func All() []any {
	return []any{
		&User{},
		&RefreshToken{},
		&Tag{},
		&Ingredient{},
		&Recipe{},
		&RecipeTag{},
		&RecipeIngredient{},
		&Favorite{},
		&CartEntry{},
		&Subscription{},
	}
}

func newID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	newID(&u.ID)
	return nil
}

func (t *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	newID(&t.ID)
	return nil
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	newID(&t.ID)
	return nil
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	newID(&i.ID)
	return nil
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	newID(&f.ID)
	return nil
}

func (c *CartEntry) BeforeCreate(tx *gorm.DB) error {
	newID(&c.ID)
	return nil
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	newID(&s.ID)
	return nil
}

func (ri *RecipeIngredient) BeforeCreate(tx *gorm.DB) error {
	newID(&ri.ID)
	return nil
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	newID(&r.ID)
	if r.PubDate.IsZero() {
		r.PubDate = time.Now().UTC()
	}
	return nil
}
