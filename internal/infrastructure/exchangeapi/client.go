package exchangeapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"exchange-desk/internal/application"
	"exchange-desk/internal/domain"
	"exchange-desk/internal/infrastructure/httpx"

	"github.com/shopspring/decimal"
)

const (
	currencyPath      = "/currency"
	directionPath     = "/direction"
	userReservePath   = "/user/reserve"
	userDirectionPath = "/user/direction/"
)

var _ application.ExchangeAPI = (*Client)(nil)

// Client talks to the exchange REST API.
type Client struct {
	HTTP *httpx.Client
}

func New(h *httpx.Client) *Client { return &Client{HTTP: h} }

type reserveResp struct {
	Reserve decimal.Decimal `json:"reserve"`
}

func (c *Client) Currencies(ctx context.Context, f application.CurrencyFilter) (domain.CurrencyList, error) {
	q := url.Values{}
	if f.OnlyGive {
		q.Set("onlyGive", "true")
	}
	if f.OnlyGet {
		q.Set("onlyGet", "true")
	}
	var out []domain.Currency
	res, err := c.HTTP.GetJSON(ctx, "currencies", currencyPath, q, &out)
	if err != nil {
		return domain.CurrencyList{}, fmt.Errorf("exchangeapi: currencies: %w", err)
	}
	return domain.CurrencyList{Items: out, Warning: warning(res)}, nil
}

func (c *Client) Directions(ctx context.Context, f application.DirectionFilter) (domain.DirectionPage, error) {
	q := url.Values{}
	if f.FromID != 0 {
		q.Set("fromId", strconv.FormatInt(f.FromID, 10))
	}
	if f.ToID != 0 {
		q.Set("toId", strconv.FormatInt(f.ToID, 10))
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	var out domain.DirectionPage
	res, err := c.HTTP.GetJSON(ctx, "directions", directionPath, q, &out)
	if err != nil {
		return domain.DirectionPage{}, fmt.Errorf("exchangeapi: directions: %w", err)
	}
	out.Warning = warning(res)
	return out, nil
}

func (c *Client) Reserve(ctx context.Context, toCode string) (domain.Reserve, error) {
	if toCode == "" {
		return domain.Reserve{}, fmt.Errorf("exchangeapi: reserve: %w", domain.ErrInvalidCurrency)
	}
	var out reserveResp
	res, err := c.HTTP.GetJSON(ctx, "reserve", userReservePath, url.Values{"to": {toCode}}, &out)
	if err != nil {
		return domain.Reserve{}, fmt.Errorf("exchangeapi: reserve: %w", err)
	}
	return domain.Reserve{Amount: out.Reserve, Warning: warning(res)}, nil
}

func (c *Client) DirectionLimit(ctx context.Context, directionID int64) (domain.Limit, error) {
	var out domain.Limit
	path := userDirectionPath + strconv.FormatInt(directionID, 10)
	res, err := c.HTTP.GetJSON(ctx, "direction_limit", path, nil, &out)
	if err != nil {
		return domain.Limit{}, fmt.Errorf("exchangeapi: direction limit: %w", err)
	}
	out.Warning = warning(res)
	return out, nil
}

func warning(res httpx.Result) string {
	if res.Warning() {
		return res.Message
	}
	return ""
}

// Ping checks that the API answers the cheapest endpoint.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Currencies(ctx, application.CurrencyFilter{OnlyGive: true})
	return err
}
