package model

// Movie is the canonical catalog entry for a title.  Rows are immutable
// once ingested.  This struct corresponds to a row in the `movies` table.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – canonical title, the target of fuzzy matching.
//  Synopsis    – short plot description.
//  RuntimeMin  – running time in minutes, zero when unknown.
//  Rating      – age rating label ("L", "12", "16" ...).
//  Genre       – free-text genre list.
//  Director    – director name(s).
//  Cast        – main cast, comma separated.
//  ReleaseDate – premiere date as stored ("YYYY-MM-DD"), empty when unknown.
//  PosterURL   – poster image.
//  TrailerURL  – trailer link.
type Movie struct {
    ID          int64  // movies.id
    Name        string // movies.name
    Synopsis    string // movies.synopsis
    RuntimeMin  int    // movies.runtime_min
    Rating      string // movies.rating
    Genre       string // movies.genre
    Director    string // movies.director
    Cast        string // movies.cast_list
    ReleaseDate string // movies.release_date
    PosterURL   string // movies.poster_url
    TrailerURL  string // movies.trailer_url
}

// MovieRef is the (id, name) pair used by the name snapshot.
type MovieRef struct {
    ID   int64
    Name string
}
