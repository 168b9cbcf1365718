package model

// Genre is a named category assigned to movies. It corresponds to a row in
// the `generos` table; Name is unique across the catalog.
type Genre struct {
	ID   int64  // generos.idGenero
	Name string // generos.genNombre
}

// Column limits shared by validation and the schema.
const (
	GenreNameMax     = 50
	MovieCodeMax     = 9
	MovieTitleMax    = 50
	MovieLeadMax     = 50
	MoviePhotoRefMax = 45
)
