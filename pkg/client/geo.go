package client

import (
	"context"
	"net/url"
)

// AreaCodeLocation is the city and state an area code maps to.
type AreaCodeLocation struct {
	AreaCode string `json:"areaCode"`
	City     string `json:"city"`
	State    string `json:"state"`
}

// GeoClient wraps the /api/v1/geo endpoints.
type GeoClient struct {
	client *Client
}

// AreaCode looks up a three-digit area code.  An unknown code yields an
// *APIError for which IsNotFound is true.
func (g *GeoClient) AreaCode(ctx context.Context, code string) (*AreaCodeLocation, error) {
	var out AreaCodeLocation
	if err := g.client.get(ctx, "/api/v1/geo/area-codes/"+url.PathEscape(code), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//Personal.AI order the ending
