package domain

import "fmt"

// SeatSpec is one seat to be created for a flight, before it has a database
// id. ClassName selects the seat class at insert time.
type SeatSpec struct {
	SeatNumber string
	ClassName  string
}

// SeatLayout describes how seat numbers and classes are derived when a
// flight's seats are created in bulk. Rows are lettered from 'A'; the first
// FirstRows rows are First class, the next BusinessRows rows Business, the
// rest Economy.
type SeatLayout struct {
	SeatsPerRow  int
	FirstRows    int
	BusinessRows int
}

// DefaultSeatLayout mirrors the production cabin: row A is First, row B is
// Business, everything behind is Economy, ten seats per row.
func DefaultSeatLayout() SeatLayout {
	return SeatLayout{SeatsPerRow: 10, FirstRows: 1, BusinessRows: 1}
}

const maxLayoutRows = 26 // row letters A..Z

// Generate produces exactly totalSeats specs: A1..A10, B1..B10, and so on,
// with no duplicates and no gaps.
func (l SeatLayout) Generate(totalSeats int) ([]SeatSpec, error) {
	if l.SeatsPerRow <= 0 {
		return nil, fmt.Errorf("seat layout: seats per row must be positive")
	}
	if totalSeats < 1 {
		return nil, BadRequest("total seats must be at least 1")
	}
	if totalSeats > maxLayoutRows*l.SeatsPerRow {
		return nil, BadRequest(fmt.Sprintf("total seats exceeds layout capacity of %d", maxLayoutRows*l.SeatsPerRow))
	}

	seats := make([]SeatSpec, 0, totalSeats)
	for i := 0; i < totalSeats; i++ {
		row := i / l.SeatsPerRow
		col := i%l.SeatsPerRow + 1
		seats = append(seats, SeatSpec{
			SeatNumber: fmt.Sprintf("%c%d", 'A'+row, col),
			ClassName:  l.classForRow(row),
		})
	}
	return seats, nil
}

func (l SeatLayout) classForRow(row int) string {
	switch {
	case row < l.FirstRows:
		return "First"
	case row < l.FirstRows+l.BusinessRows:
		return "Business"
	default:
		return "Economy"
	}
}
