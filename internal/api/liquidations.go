package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pminsight/client/internal/models"
)

// ListLiquidations fetches liquidations filtered by state.
func (c *Client) ListLiquidations(ctx context.Context, estado models.State) ([]models.Liquidation, error) {
	query := url.Values{}
	if estado != "" {
		query.Set("estado", string(estado))
	}
	var list []models.Liquidation
	if err := c.do(ctx, http.MethodGet, "/liquidaciones/", query, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetLiquidation fetches one liquidation with its documents.
func (c *Client) GetLiquidation(ctx context.Context, id int) (*models.Liquidation, error) {
	var liq models.Liquidation
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/liquidaciones/%d/", id), nil, nil, &liq); err != nil {
		return nil, err
	}
	return &liq, nil
}

// LiquidationAction applies a lifecycle action (presentar/aprobar/rechazar)
// to a liquidation.
func (c *Client) LiquidationAction(ctx context.Context, id int, accion string) (*models.Liquidation, error) {
	body := map[string]string{"accion": accion}
	var liq models.Liquidation
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/liquidaciones/%d/accion/", id), nil, body, &liq); err != nil {
		return nil, err
	}
	return &liq, nil
}
