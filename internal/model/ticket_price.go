package model

// TicketPrice is one price line of a cinema (per room type or session
// kind).  Monetary fields are kept as the text the ingestion produced;
// the formatter parses them and drops what does not parse.
//
// Fields:
//  ID          – primary key identifier.
//  CinemaID    – venue.
//  Label       – room or session kind ("2D", "3D", "VIP").
//  FullWeekday – full price Monday to Thursday.
//  HalfWeekday – half price Monday to Thursday.
//  FullWeekend – full price Friday to Sunday and holidays.
//  HalfWeekend – half price Friday to Sunday and holidays.
type TicketPrice struct {
    ID          int64  // ticket_prices.id
    CinemaID    int64  // ticket_prices.cinema_id
    Label       string // ticket_prices.label
    FullWeekday string // ticket_prices.full_weekday
    HalfWeekday string // ticket_prices.half_weekday
    FullWeekend string // ticket_prices.full_weekend
    HalfWeekend string // ticket_prices.half_weekend
}
