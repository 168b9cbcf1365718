package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// MoviePatch is the decoded body of PUT /peliculas/:id: a partial map from
// field name to raw JSON value.
type MoviePatch map[string]json.RawMessage

// fieldSetter decodes raw and stores it on m.
type fieldSetter func(m *model.Movie, raw json.RawMessage) error

// updatableMovieFields is the allow-list of keys a client may change.
// The identifier is not updatable. Unknown keys are rejected.
var updatableMovieFields = map[string]fieldSetter{
	"pelCodigo":       stringField("pelCodigo", model.MovieCodeMax, func(m *model.Movie, v string) { m.Code = v }),
	"pelTitulo":       stringField("pelTitulo", model.MovieTitleMax, func(m *model.Movie, v string) { m.Title = v }),
	"pelProtagonista": stringField("pelProtagonista", model.MovieLeadMax, func(m *model.Movie, v string) { m.Lead = v }),
	"pelDuracion":     intField("pelDuracion", func(m *model.Movie, v int64) { m.Duration = int(v) }),
	"pelResumen":      stringField("pelResumen", 0, func(m *model.Movie, v string) { m.Summary = v }),
	"pelFoto":         stringField("pelFoto", model.MoviePhotoRefMax, func(m *model.Movie, v string) { m.PhotoRef = v }),
	"pelGenero":       intField("pelGenero", func(m *model.Movie, v int64) { m.GenreID = v }),
}

// Keys returns the patch keys in a stable order.
func (p MoviePatch) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// checkKeys rejects any key outside the allow-list.
func (p MoviePatch) checkKeys() error {
	for _, k := range p.Keys() {
		if _, ok := updatableMovieFields[k]; !ok {
			return ValidationError(fmt.Sprintf("Campo no permitido: %s", k))
		}
	}
	return nil
}

// apply writes every patched field onto m. It stops at the first invalid
// value and leaves m partially modified; callers discard m on error.
func (p MoviePatch) apply(m *model.Movie) error {
	if err := p.checkKeys(); err != nil {
		return err
	}
	for _, k := range p.Keys() {
		if err := updatableMovieFields[k](m, p[k]); err != nil {
			return err
		}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func stringField(name string, maxLen int, set func(*model.Movie, string)) fieldSetter {
	return func(m *model.Movie, raw json.RawMessage) error {
		if isNull(raw) {
			return ValidationError(fmt.Sprintf("El campo '%s' no puede ser nulo", name))
		}
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return ValidationError(fmt.Sprintf("El campo '%s' debe ser texto", name))
		}
		if maxLen > 0 {
			if err := checkVar(name, v, fmt.Sprintf("max=%d", maxLen)); err != nil {
				return err
			}
		}
		set(m, v)
		return nil
	}
}

func intField(name string, set func(*model.Movie, int64)) fieldSetter {
	return func(m *model.Movie, raw json.RawMessage) error {
		if isNull(raw) {
			return ValidationError(fmt.Sprintf("El campo '%s' no puede ser nulo", name))
		}
		var v int64
		if err := json.Unmarshal(raw, &v); err != nil {
			return ValidationError(fmt.Sprintf("El campo '%s' debe ser un número entero", name))
		}
		set(m, v)
		return nil
	}
}
