package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType discriminates cash box entries.
type MovementType string

const (
	MovementIngreso MovementType = "Ingreso"
	MovementEgreso  MovementType = "Egreso"
)

// Movement is one append-only entry in a day's cash box.
type Movement struct {
	ID        int             `json:"id"`
	Type      MovementType    `json:"tipo" validate:"required,oneof=Ingreso Egreso"`
	Concept   string          `json:"concepto" validate:"required"`
	Amount    decimal.Decimal `json:"monto" validate:"required"`
	Document  string          `json:"documento,omitempty"`
	Actor     PrincipalRef    `json:"usuario"`
	CreatedAt time.Time       `json:"fecha"`
}

// CashBox is the day-scoped petty cash ledger as served by the backend.
// Totals are always recomputed from the movement list, never trusted
// from stored fields.
type CashBox struct {
	ID             int             `json:"id"`
	Date           string          `json:"fecha"`
	OpeningBalance decimal.Decimal `json:"monto_inicial"`
	Movements      []Movement      `json:"movimientos"`
	Closed         bool            `json:"cerrada"`
}
