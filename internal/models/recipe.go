package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StepList stores an ordered list of instruction steps as a JSON text column.
type StepList []string

// Value implements the driver.Valuer interface
func (s StepList) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements the sql.Scanner interface
func (s *StepList) Scan(value interface{}) error {
	if value == nil {
		*s = StepList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported StepList column type %T", value)
	}

	return json.Unmarshal(data, (*[]string)(s))
}

// Recipe is a user-authored recipe.
type Recipe struct {
	ID             int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         int64        `gorm:"not null;index" json:"user_id"`
	User           User         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Title          string       `gorm:"size:255;not null" json:"title"`
	Image          string       `gorm:"size:255" json:"image"`
	ReadyInMinutes int          `gorm:"not null" json:"readyInMinutes"`
	Vegan          bool         `gorm:"not null;default:false" json:"vegan"`
	Vegetarian     bool         `gorm:"not null;default:false" json:"vegetarian"`
	GlutenFree     bool         `gorm:"not null;default:false" json:"glutenFree"`
	Servings       int          `gorm:"not null" json:"servings"`
	Instructions   StepList     `gorm:"type:text;not null" json:"instructions"`
	IsFamilyRecipe bool         `gorm:"not null;default:false;index" json:"isFamilyRecipe"`
	FamilyWho      string       `gorm:"size:255" json:"familyWho,omitempty"`
	FamilyWhen     string       `gorm:"size:255" json:"familyWhen,omitempty"`
	Ingredients    []Ingredient `gorm:"constraint:OnDelete:CASCADE" json:"ingredients"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// Ingredient is one line of a recipe. It cannot outlive its recipe.
type Ingredient struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	RecipeID int64  `gorm:"not null;index" json:"recipe_id"`
	Position int    `gorm:"not null" json:"position"`
	Name     string `gorm:"size:255;not null" json:"name"`
	Quantity string `gorm:"size:100" json:"quantity"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}

// Text renders the ingredient the way catalog ingredients look.
func (i Ingredient) Text() string {
	switch {
	case i.Quantity == "":
		return i.Name
	case i.Name == "":
		return i.Quantity
	default:
		return i.Quantity + " " + i.Name
	}
}
