package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Category classifies a product by its stage of manufacture.
type Category string

const (
	CategoryFinished     Category = "finished"
	CategorySemiFinished Category = "semi-finished"
	CategoryRaw          Category = "raw"
)

// Categories lists every accepted category label.
var Categories = []Category{CategoryFinished, CategorySemiFinished, CategoryRaw}

// ParseCategory converts a label into a Category, rejecting unknown labels.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", NewValidationError(fmt.Sprintf("invalid category %q", s), map[string]string{
			"category": "must be one of finished, semi-finished, raw",
		})
	}
	return c, nil
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryFinished, CategorySemiFinished, CategoryRaw:
		return true
	}
	return false
}

// UnmarshalJSON rejects labels outside the closed set.
func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return NewValidationError("category must be a string", map[string]string{"category": "must be a string"})
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// UnitOfMeasure is the quantity unit a product is counted or sold in.
type UnitOfMeasure string

const (
	UnitMetre      UnitOfMeasure = "mtr"
	UnitMillimetre UnitOfMeasure = "mm"
	UnitLitre      UnitOfMeasure = "ltr"
	UnitMillilitre UnitOfMeasure = "ml"
	UnitCentimetre UnitOfMeasure = "cm"
	UnitMilligram  UnitOfMeasure = "mg"
	UnitGram       UnitOfMeasure = "gm"
	UnitUnit       UnitOfMeasure = "unit"
	UnitPack       UnitOfMeasure = "pack"
)

// UnitsOfMeasure lists every accepted unit label.
var UnitsOfMeasure = []UnitOfMeasure{
	UnitMetre, UnitMillimetre, UnitLitre, UnitMillilitre, UnitCentimetre,
	UnitMilligram, UnitGram, UnitUnit, UnitPack,
}

// ParseUnitOfMeasure converts a label into a UnitOfMeasure, rejecting unknown labels.
func ParseUnitOfMeasure(s string) (UnitOfMeasure, error) {
	u := UnitOfMeasure(s)
	if !u.Valid() {
		return "", NewValidationError(fmt.Sprintf("invalid unit of measure %q", s), map[string]string{
			"unit_of_measure": "must be one of mtr, mm, ltr, ml, cm, mg, gm, unit, pack",
		})
	}
	return u, nil
}

// Valid reports whether u is a known unit.
func (u UnitOfMeasure) Valid() bool {
	for _, known := range UnitsOfMeasure {
		if u == known {
			return true
		}
	}
	return false
}

// UnmarshalJSON rejects labels outside the closed set.
func (u *UnitOfMeasure) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return NewValidationError("unit_of_measure must be a string", map[string]string{"unit_of_measure": "must be a string"})
	}
	parsed, err := ParseUnitOfMeasure(s)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// Product is a catalogue record.
type Product struct {
	ID            int64         `json:"id" db:"id"`
	Name          string        `json:"name" db:"name"`
	Category      Category      `json:"category" db:"category"`
	Description   *string       `json:"description" db:"description"`
	ProductImage  *string       `json:"product_image" db:"product_image"`
	SKU           string        `json:"sku" db:"sku"`
	UnitOfMeasure UnitOfMeasure `json:"unit_of_measure" db:"unit_of_measure"`
	LeadTime      *int32        `json:"lead_time" db:"lead_time"`
	CreatedDate   time.Time     `json:"created_date" db:"created_date"`
	UpdatedDate   time.Time     `json:"updated_date" db:"updated_date"`
}

// ProductCreate is the payload for creating a product.
type ProductCreate struct {
	Name          string        `json:"name" validate:"required,max=100"`
	Category      Category      `json:"category" validate:"required,enum"`
	Description   *string       `json:"description,omitempty" validate:"omitempty,max=250"`
	ProductImage  *string       `json:"product_image,omitempty" validate:"omitempty,max=255"`
	SKU           string        `json:"sku" validate:"required,max=100"`
	UnitOfMeasure UnitOfMeasure `json:"unit_of_measure" validate:"required,enum"`
	LeadTime      *int32        `json:"lead_time,omitempty"`
}

// ProductUpdate is a sparse payload; only fields marked Set are written.
type ProductUpdate struct {
	Name          Field[string]        `json:"name"`
	Category      Field[Category]      `json:"category"`
	Description   Field[string]        `json:"description"`
	ProductImage  Field[string]        `json:"product_image"`
	SKU           Field[string]        `json:"sku"`
	UnitOfMeasure Field[UnitOfMeasure] `json:"unit_of_measure"`
	LeadTime      Field[int32]         `json:"lead_time"`
}

// Empty reports whether no field was supplied.
func (u *ProductUpdate) Empty() bool {
	return !u.Name.Set && !u.Category.Set && !u.Description.Set && !u.ProductImage.Set &&
		!u.SKU.Set && !u.UnitOfMeasure.Set && !u.LeadTime.Set
}
