package model

import "time"

// DateLayout is the canonical calendar-date format used on the wire by
// every service in this repository (YYYY-MM-DD, no time component).
const DateLayout = "2006-01-02"

// Reservation status values.  The original system never transitions a
// reservation out of the active state; the field is kept as an
// extension point.
const (
	ReservaAtiva     = "ativa"
	ReservaCancelada = "cancelada"
)

// Reserva records the booking of a physical room (regular classroom or
// laboratory) by a class for a single calendar date.
//
// Fields:
//  ID      – identifier assigned by the store, monotonically increasing,
//            never reused even after deletion.
//  NumSala – room number, positive.
//  Lab     – whether the room is a laboratory.  A lab and a regular room
//            may share the same number, so the flag is part of the
//            uniqueness key.
//  Data    – reservation date in DateLayout form.  Validated on write;
//            never re-validated afterwards.
//  TurmaID – class owning the reservation.  The class lives in the
//            escola service and is only ever checked remotely.
//  Status  – ReservaAtiva or ReservaCancelada.
type Reserva struct {
	ID      int    `json:"id"`
	NumSala int    `json:"num_sala"`
	Lab     bool   `json:"lab"`
	Data    string `json:"data"`
	TurmaID int    `json:"turma_id"`
	Status  string `json:"status"`
}

// ReservaView is the wire representation of a reservation.  It carries
// the derived dias_para_reserva field, which is recomputed on every
// read and therefore lives outside the stored record.
type ReservaView struct {
	ID              int    `json:"id"`
	NumSala         int    `json:"num_sala"`
	Lab             bool   `json:"lab"`
	Data            string `json:"data"`
	TurmaID         int    `json:"turma_id"`
	Status          string `json:"status"`
	DiasParaReserva *int   `json:"dias_para_reserva"`
}

// ReservaPatch describes a partial update to a reservation.  Pointer
// fields distinguish "not provided" from a provided zero value, so a
// caller can, for example, set lab to false without the field being
// mistaken for absent.
type ReservaPatch struct {
	NumSala *int    `json:"num_sala"`
	Lab     *bool   `json:"lab"`
	Data    *string `json:"data"`
	TurmaID *int    `json:"turma_id"`
}

// Empty reports whether the patch carries no fields at all.
func (p ReservaPatch) Empty() bool {
	return p.NumSala == nil && p.Lab == nil && p.Data == nil && p.TurmaID == nil
}

// TouchesKey reports whether the patch changes any component of the
// (num_sala, lab, data) uniqueness key and therefore requires a fresh
// conflict check.
func (p ReservaPatch) TouchesKey() bool {
	return p.NumSala != nil || p.Lab != nil || p.Data != nil
}

// View derives the wire representation at the given instant.
// dias_para_reserva is the number of whole days between today and the
// reservation date: positive for future dates, negative for past ones
// and nil when the stored date does not parse.
func (r Reserva) View(now time.Time) ReservaView {
	return ReservaView{
		ID:              r.ID,
		NumSala:         r.NumSala,
		Lab:             r.Lab,
		Data:            r.Data,
		TurmaID:         r.TurmaID,
		Status:          r.Status,
		DiasParaReserva: DaysUntil(r.Data, now),
	}
}

// DaysUntil returns the whole-day distance from now's calendar date to
// the given DateLayout date, or nil when the date is unparsable.
func DaysUntil(date string, now time.Time) *int {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return nil
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := int(d.Sub(today).Hours() / 24)
	return &days
}
