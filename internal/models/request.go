package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// State is the closed lifecycle of a request and its liquidation.
// The liquidation continues the request's lifecycle rather than
// having a state space of its own.
type State string

const (
	StatePendingSubmission          State = "PENDIENTE_ENVIO"
	StatePendingAttention           State = "PENDIENTE_ATENCION"
	StateAttendedPendingLiquidation State = "ATENDIDO_PENDIENTE_LIQUIDACION"
	StateLiquidationSubmitted       State = "LIQUIDACION_PRESENTADA"
	StateLiquidationApproved        State = "LIQUIDACION_APROBADA"
	StateRejected                   State = "RECHAZADO"
)

// Terminal reports whether no further transition can leave s.
func (s State) Terminal() bool {
	return s == StateLiquidationApproved || s == StateRejected
}

// Category is the closed set of expense categories.
type Category string

const (
	CategoryViaticos    Category = "Viáticos"
	CategoryMovilidad   Category = "Movilidad"
	CategoryCompras     Category = "Compras"
	CategoryOtrosGastos Category = "Otros gastos"
)

// Request is an expense/reimbursement request. Amounts are captured in
// soles; the dollar amount derives from the exchange rate captured at
// creation time, never from a live rate.
type Request struct {
	ID           int             `json:"id"`
	Sequence     string          `json:"numero"`
	Requester    PrincipalRef    `json:"solicitante"`
	Destinatario PrincipalRef    `json:"destinatario"`
	Category     Category        `json:"categoria"`
	Concept      string          `json:"concepto"`
	MontoSoles   decimal.Decimal `json:"monto_soles"`
	TipoCambio   decimal.Decimal `json:"tipo_cambio"`
	State        State           `json:"estado"`
	Observations string          `json:"observaciones,omitempty"`
	Bank         string          `json:"banco,omitempty"`
	Account      string          `json:"numero_cuenta,omitempty"`
	CreatedAt    time.Time       `json:"fecha_creacion"`
	TransferDate *time.Time      `json:"fecha_abono,omitempty"`
	LiquidatedAt *time.Time      `json:"fecha_liquidacion,omitempty"`
}

// MontoDolares converts the request amount using the captured rate,
// rounded to 2 decimals. Returns zero when no rate was captured.
func (r *Request) MontoDolares() decimal.Decimal {
	return ToDollars(r.MontoSoles, r.TipoCambio)
}

// ToDollars converts a soles amount at the given exchange rate,
// rounded to 2 decimals per currency-display convention.
func ToDollars(soles, rate decimal.Decimal) decimal.Decimal {
	if rate.IsZero() {
		return decimal.Zero
	}
	return soles.DivRound(rate, 2)
}

// CreateRequestForm is the payload for a new request. Banking fields are
// prefilled from the requester's profile at creation.
type CreateRequestForm struct {
	DestinatarioID int             `json:"destinatario_id" validate:"required,gt=0"`
	Category       Category        `json:"categoria" validate:"required"`
	Concept        string          `json:"concepto" validate:"required"`
	MontoSoles     decimal.Decimal `json:"monto_soles" validate:"required"`
	TipoCambio     decimal.Decimal `json:"tipo_cambio" validate:"required"`
	Bank           string          `json:"banco"`
	Account        string          `json:"numero_cuenta"`
}
