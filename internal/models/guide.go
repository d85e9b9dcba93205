package models

import "time"

// GuideState is the closed lifecycle of an outbound guide.
type GuideState string

const (
	GuidePendiente GuideState = "Pendiente"
	GuideEnviada   GuideState = "Enviada"
	GuideRecibida  GuideState = "Recibida"
)

// GuideItem is one line of an outbound guide.
type GuideItem struct {
	Quantity    int    `json:"cantidad" validate:"required,gt=0"`
	Description string `json:"descripcion" validate:"required"`
}

// Guide is an outbound shipment receipt (guía de salida).
type Guide struct {
	ID          int         `json:"id"`
	Tracking    string      `json:"codigo"`
	Origin      string      `json:"origen" validate:"required"`
	Destination string      `json:"destino" validate:"required"`
	Responsible string      `json:"responsable" validate:"required"`
	Items       []GuideItem `json:"items" validate:"required,min=1,dive"`
	State       GuideState  `json:"estado"`
	CreatedAt   time.Time   `json:"fecha_creacion"`
}
