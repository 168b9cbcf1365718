package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CreateGenreInput is the body of POST /generos/.
type CreateGenreInput struct {
	Name *string `json:"genNombre" validate:"required,max=50"`
}

// CreateMovieInput is the body of POST /peliculas/. Pointer fields make
// presence observable: 0 and "" are valid values, a missing key is not.
// Field order defines which missing field is reported first.
type CreateMovieInput struct {
	Code     *string `json:"pelCodigo" validate:"required,max=9"`
	Title    *string `json:"pelTitulo" validate:"required,max=50"`
	Lead     *string `json:"pelProtagonista" validate:"required,max=50"`
	Duration *int    `json:"pelDuracion" validate:"required"`
	Summary  *string `json:"pelResumen" validate:"required"`
	PhotoRef *string `json:"pelFoto" validate:"required,max=45"`
	GenreID  *int64  `json:"pelGenero" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON names so messages match what the client sent.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkStruct validates in and converts the first failure into a
// ValidationError.
func checkStruct(in any, missing func(field string) string) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return InternalError(err)
	}
	fe := verrs[0]
	if fe.Tag() == "required" {
		return ValidationError(missing(fe.Field()))
	}
	return ValidationError(describe(fe.Field(), fe.Tag(), fe.Param()))
}

// checkVar validates a single value against tag.
func checkVar(field string, value any, tag string) error {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return InternalError(err)
	}
	return ValidationError(describe(field, verrs[0].Tag(), verrs[0].Param()))
}

func describe(field, tag, param string) string {
	switch tag {
	case "max":
		return fmt.Sprintf("El campo '%s' no puede superar %s caracteres", field, param)
	default:
		return fmt.Sprintf("El campo '%s' no es válido", field)
	}
}

func missingGenreField(string) string {
	return "Se requiere el campo 'genNombre'"
}

func missingMovieField(field string) string {
	return "Falta el campo requerido: " + field
}
