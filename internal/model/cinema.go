package model

// Cinema represents a venue of the chain.  It is read-only reference
// data: rows are maintained by the ingestion jobs, never by this service.
// This struct corresponds to a row in the `cinemas` table.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name of the venue.
//  Address     – street address shown in cinema info answers.
//  ScheduleURL – public schedule page, linked from every fallback answer.
//  InfoURL     – optional page with prices, parking and accessibility info.
type Cinema struct {
    ID          int64  // cinemas.id
    Name        string // cinemas.name
    Address     string // cinemas.address
    ScheduleURL string // cinemas.schedule_url
    InfoURL     string // cinemas.info_url
}
