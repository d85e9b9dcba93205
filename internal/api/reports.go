package api

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
)

// DashboardSummary is the KPI snapshot for the dashboard screen.
type DashboardSummary struct {
	PendingAttention   int             `json:"pendientes_atencion"`
	PendingLiquidation int             `json:"pendientes_liquidacion"`
	SubmittedApproval  int             `json:"pendientes_aprobacion"`
	Approved           int             `json:"aprobadas"`
	Rejected           int             `json:"rechazadas"`
	TotalSoles         decimal.Decimal `json:"total_soles"`
	TotalDolares       decimal.Decimal `json:"total_dolares"`
}

// GetDashboardSummary fetches the KPI counters.
func (c *Client) GetDashboardSummary(ctx context.Context) (*DashboardSummary, error) {
	var summary DashboardSummary
	if err := c.do(ctx, http.MethodGet, "/dashboard/resumen/", nil, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// ReportFormat selects the export encoding the server renders.
type ReportFormat string

const (
	ReportXLSX ReportFormat = "xlsx"
	ReportPDF  ReportFormat = "pdf"
)

// DownloadReport streams a server-rendered report blob to w. Query
// parameters narrow the report period.
func (c *Client) DownloadReport(ctx context.Context, report string, format ReportFormat, desde, hasta string, w io.Writer) error {
	query := url.Values{}
	query.Set("formato", string(format))
	if desde != "" {
		query.Set("desde", desde)
	}
	if hasta != "" {
		query.Set("hasta", hasta)
	}
	return c.download(ctx, "/reportes/"+report+"/", query, w)
}
