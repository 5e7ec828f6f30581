package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"product-store/internal/model"

	"github.com/go-playground/validator/v10"
)

// enumerated is satisfied by the closed label types in model.
type enumerated interface {
	Valid() bool
}

// newValidator returns a validator that reports fields by their JSON name
// and understands the "enum" tag.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
		e, ok := fl.Field().Interface().(enumerated)
		return ok && e.Valid()
	})

	return v
}

// validateCreate checks every field of a create payload.
func validateCreate(v *validator.Validate, req *model.ProductCreate) error {
	if req == nil {
		return model.NewValidationError("request body is required", nil)
	}
	if err := v.Struct(req); err != nil {
		return toValidationError(err)
	}
	return nil
}

// updateRules holds the tag applied to each supplied update field.
var updateRules = map[string]string{
	"name":            "required,max=100",
	"category":        "required,enum",
	"description":     "max=250",
	"product_image":   "max=255",
	"sku":             "required,max=100",
	"unit_of_measure": "required,enum",
}

// validateUpdate checks only the fields present in an update payload.
// null is accepted for nullable fields and rejected for required ones.
func validateUpdate(v *validator.Validate, req *model.ProductUpdate) error {
	if req == nil {
		return model.NewValidationError("request body is required", nil)
	}

	fields := map[string]string{}
	check := func(name string, set, null, nullable bool, value any) {
		if !set {
			return
		}
		if null {
			if !nullable {
				fields[name] = "must not be null"
			}
			return
		}
		rule, ok := updateRules[name]
		if !ok {
			return
		}
		if err := v.Var(value, rule); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				fields[name] = describe(verrs[0])
			} else {
				fields[name] = err.Error()
			}
		}
	}

	check("name", req.Name.Set, req.Name.Null, false, req.Name.Value)
	check("category", req.Category.Set, req.Category.Null, false, req.Category.Value)
	check("description", req.Description.Set, req.Description.Null, true, req.Description.Value)
	check("product_image", req.ProductImage.Set, req.ProductImage.Null, true, req.ProductImage.Value)
	check("sku", req.SKU.Set, req.SKU.Null, false, req.SKU.Value)
	check("unit_of_measure", req.UnitOfMeasure.Set, req.UnitOfMeasure.Null, false, req.UnitOfMeasure.Value)
	check("lead_time", req.LeadTime.Set, req.LeadTime.Null, true, req.LeadTime.Value)

	if len(fields) > 0 {
		return model.NewValidationError("invalid product update", fields)
	}
	return nil
}

// toValidationError converts validator output into a model.ValidationError.
func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return model.NewValidationError(err.Error(), nil)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = describe(fe)
	}
	return model.NewValidationError("invalid product", fields)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "enum":
		return fmt.Sprintf("unknown value %q", fmt.Sprint(fe.Value()))
	default:
		return "failed on rule: " + fe.Tag()
	}
}
