package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Document is one receipt or invoice attached to a liquidation. The
// issuer fields come from server-side OCR of the uploaded image.
type Document struct {
	ID         int             `json:"id"`
	FileName   string          `json:"nombre_archivo"`
	Number     string          `json:"numero_documento"`
	Type       string          `json:"tipo_documento"`
	IssuerRUC  string          `json:"ruc_emisor"`
	IssuerName string          `json:"razon_social"`
	Date       time.Time       `json:"fecha"`
	Total      decimal.Decimal `json:"total"`
}

// Liquidation is the documentary justification bundle attached one-to-one
// to a request. Its state is the parent request's state.
type Liquidation struct {
	ID        int        `json:"id"`
	RequestID int        `json:"solicitud_id"`
	Sequence  string     `json:"numero"`
	Documents []Document `json:"documentos"`
	State     State      `json:"estado"`
	CreatedAt time.Time  `json:"fecha_creacion"`
}

// TotalSoles sums document totals. Derived on every read, never stored.
func (l *Liquidation) TotalSoles() decimal.Decimal {
	total := decimal.Zero
	for _, d := range l.Documents {
		total = total.Add(d.Total)
	}
	return total
}

// TotalDolares converts the aggregate at the given captured rate.
func (l *Liquidation) TotalDolares(rate decimal.Decimal) decimal.Decimal {
	return ToDollars(l.TotalSoles(), rate)
}
