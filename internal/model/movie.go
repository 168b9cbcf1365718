package model

// Movie is a catalogued film. It corresponds to a row in the `peliculas`
// table and references exactly one Genre through GenreID.
//
// Genre is populated by read queries that join `generos`; it is nil when
// the join found no row.
type Movie struct {
	ID       int64  // peliculas.idPelicula
	Code     string // peliculas.pelCodigo (unique)
	Title    string // peliculas.pelTitulo
	Lead     string // peliculas.pelProtagonista
	Duration int    // peliculas.pelDuracion
	Summary  string // peliculas.pelResumen
	PhotoRef string // peliculas.pelFoto
	GenreID  int64  // peliculas.pelGenero
	Genre    *Genre
}
