package application

import (
	"context"

	"exchange-desk/internal/domain"
)

type CurrencyFilter struct {
	OnlyGive bool
	OnlyGet  bool
}

type DirectionFilter struct {
	FromID int64
	ToID   int64
	Status string
}

type CurrencyFetcher interface {
	Currencies(ctx context.Context, f CurrencyFilter) (domain.CurrencyList, error)
}

type DirectionFetcher interface {
	Directions(ctx context.Context, f DirectionFilter) (domain.DirectionPage, error)
}

type ReserveFetcher interface {
	Reserve(ctx context.Context, toCode string) (domain.Reserve, error)
}

type LimitFetcher interface {
	DirectionLimit(ctx context.Context, directionID int64) (domain.Limit, error)
}

// ExchangeAPI bundles every collaborator the resolver consumes.
type ExchangeAPI interface {
	CurrencyFetcher
	DirectionFetcher
	ReserveFetcher
	LimitFetcher
}
