package application

import (
	"context"
	"errors"
	"sync"

	"exchange-desk/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	ErrUpstream = errors.New("upstream error")
)

var (
	usd = domain.Currency{ID: 1, Code: "USD", Name: "US Dollar", Fidelity: 2}
	rub = domain.Currency{ID: 2, Code: "RUB", Name: "Ruble", Fidelity: 0}
	btc = domain.Currency{ID: 3, Code: "BTC", Name: "Bitcoin", Fidelity: 8}
)

type fakeAPI struct {
	mu         sync.Mutex
	currencies []domain.Currency
	directions []domain.Direction
	reserves   map[string]decimal.Decimal
	limits     map[int64]domain.Limit

	currErr  error
	dirErr   error
	resErr   error
	limitErr error

	curWarn, dirWarn, resWarn, limitWarn string

	// Called on entry to Reserve and DirectionLimit when set.
	onReserve func(ctx context.Context) error
	onLimit   func(ctx context.Context) error

	dirCalls []DirectionFilter
	curCalls []CurrencyFilter
}

func (f *fakeAPI) Currencies(_ context.Context, flt CurrencyFilter) (domain.CurrencyList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.curCalls = append(f.curCalls, flt)
	if f.currErr != nil {
		return domain.CurrencyList{}, f.currErr
	}
	return domain.CurrencyList{Items: append([]domain.Currency(nil), f.currencies...), Warning: f.curWarn}, nil
}

func (f *fakeAPI) Directions(_ context.Context, flt DirectionFilter) (domain.DirectionPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dirCalls = append(f.dirCalls, flt)
	if f.dirErr != nil {
		return domain.DirectionPage{}, f.dirErr
	}
	var out domain.DirectionPage
	for _, d := range f.directions {
		if flt.FromID != 0 && d.From.ID != flt.FromID {
			continue
		}
		if flt.ToID != 0 && d.To.ID != flt.ToID {
			continue
		}
		out.Items = append(out.Items, d)
	}
	out.Total = len(out.Items)
	out.Warning = f.dirWarn
	return out, nil
}

func (f *fakeAPI) Reserve(ctx context.Context, code string) (domain.Reserve, error) {
	if f.onReserve != nil {
		if err := f.onReserve(ctx); err != nil {
			return domain.Reserve{}, err
		}
	}
	if f.resErr != nil {
		return domain.Reserve{}, f.resErr
	}
	return domain.Reserve{Amount: f.reserves[code], Warning: f.resWarn}, nil
}

func (f *fakeAPI) DirectionLimit(ctx context.Context, id int64) (domain.Limit, error) {
	if f.onLimit != nil {
		if err := f.onLimit(ctx); err != nil {
			return domain.Limit{}, err
		}
	}
	if f.limitErr != nil {
		return domain.Limit{}, f.limitErr
	}
	l, ok := f.limits[id]
	if !ok {
		return domain.Limit{}, domain.ErrNotFound
	}
	l.Warning = f.limitWarn
	return l, nil
}

func dir(id int64, from, to domain.Currency, price string) domain.Direction {
	return domain.Direction{ID: id, Price: decimal.RequireFromString(price), IsActive: true, From: from, To: to}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
