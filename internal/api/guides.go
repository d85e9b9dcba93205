package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pminsight/client/internal/models"
)

// ListGuides fetches outbound guides filtered by state.
func (c *Client) ListGuides(ctx context.Context, estado models.GuideState) ([]models.Guide, error) {
	query := url.Values{}
	if estado != "" {
		query.Set("estado", string(estado))
	}
	var list []models.Guide
	if err := c.do(ctx, http.MethodGet, "/guias_salida/", query, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// CreateGuide registers a new outbound guide.
func (c *Client) CreateGuide(ctx context.Context, guide models.Guide) (*models.Guide, error) {
	var created models.Guide
	if err := c.do(ctx, http.MethodPost, "/guias_salida/", nil, guide, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateGuideState patches a guide's estado.
func (c *Client) UpdateGuideState(ctx context.Context, id int, estado models.GuideState) (*models.Guide, error) {
	body := map[string]string{"estado": string(estado)}
	var guide models.Guide
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/guias_salida/%d/estado/", id), nil, body, &guide); err != nil {
		return nil, err
	}
	return &guide, nil
}
