// Package queue carries reservation domain events over RabbitMQ:
// payload definitions, a best-effort publisher and the audit consumer.
package queue

// Queue names for reservation lifecycle events.
const (
	ReservaCreatedQueue   = "reserva.created"
	ReservaCancelledQueue = "reserva.cancelled"
)

// ReservaEvent is published whenever a reservation is created or
// cancelled.  It carries enough for downstream consumers to log or
// notify without calling back into the reservas service.
type ReservaEvent struct {
	ReservaID  int    `json:"reserva_id"`
	NumSala    int    `json:"num_sala"`
	Lab        bool   `json:"lab"`
	Data       string `json:"data"`
	TurmaID    int    `json:"turma_id"`
	OccurredAt string `json:"occurred_at"`
}
