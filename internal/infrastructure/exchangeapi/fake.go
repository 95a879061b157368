package exchangeapi

import (
	"context"
	"sync"

	"exchange-desk/internal/application"
	"exchange-desk/internal/domain"

	"github.com/shopspring/decimal"
)

// Ensure Fake implements application.ExchangeAPI.
var _ application.ExchangeAPI = (*Fake)(nil)

// Fake is an in-memory exchange API used for local runs and tests.
type Fake struct {
	mu         sync.RWMutex
	currencies []domain.Currency
	directions []domain.Direction
	reserves   map[string]decimal.Decimal
	limits     map[int64]domain.Limit
	warning    string
}

func NewFake() *Fake {
	return &Fake{reserves: map[string]decimal.Decimal{}, limits: map[int64]domain.Limit{}}
}

// NewDemoFake returns a fake seeded with a few currencies and directions.
func NewDemoFake() *Fake {
	usd := domain.Currency{ID: 1, Code: "USD", Name: "US Dollar", Fidelity: 2}
	rub := domain.Currency{ID: 2, Code: "RUB", Name: "Russian Ruble", Fidelity: 0}
	btc := domain.Currency{ID: 3, Code: "BTC", Name: "Bitcoin", Fidelity: 8}
	f := NewFake()
	f.AddCurrency(usd)
	f.AddCurrency(rub)
	f.AddCurrency(btc)
	f.AddDirection(domain.Direction{ID: 10, Price: decimal.NewFromInt(95), IsActive: true, From: usd, To: rub},
		domain.Limit{MinSumGive: decimal.NewFromInt(10), MaxSumGive: decimal.NewFromInt(10000), MaxSumGet: decimal.NewFromInt(1000000)})
	f.AddDirection(domain.Direction{ID: 11, Price: decimal.RequireFromString("0.0105"), IsActive: true, From: rub, To: usd},
		domain.Limit{MinSumGive: decimal.NewFromInt(1000)})
	f.AddDirection(domain.Direction{ID: 12, Price: decimal.RequireFromString("0.0000163"), IsActive: true, From: usd, To: btc},
		domain.Limit{MinSumGet: decimal.RequireFromString("0.001")})
	f.SetReserve("RUB", decimal.NewFromInt(2500000))
	f.SetReserve("USD", decimal.RequireFromString("18250.75"))
	f.SetReserve("BTC", decimal.RequireFromString("1.23456789"))
	return f
}

func (f *Fake) AddCurrency(c domain.Currency) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.currencies = append(f.currencies, c)
}

func (f *Fake) AddDirection(d domain.Direction, l domain.Limit) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.directions = append(f.directions, d)
	f.limits[d.ID] = l
}

// SetWarning attaches msg to every subsequent successful response.
func (f *Fake) SetWarning(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.warning = msg
}

func (f *Fake) SetReserve(code string, v decimal.Decimal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reserves[code] = v
}

// Currencies treats a currency as usable for Give when some direction leaves
// it, and for Get when some direction arrives at it.
func (f *Fake) Currencies(_ context.Context, flt application.CurrencyFilter) (domain.CurrencyList, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]domain.Currency, 0, len(f.currencies))
	for _, c := range f.currencies {
		if flt.OnlyGive && !f.hasDirection(func(d domain.Direction) bool { return d.From.ID == c.ID }) {
			continue
		}
		if flt.OnlyGet && !f.hasDirection(func(d domain.Direction) bool { return d.To.ID == c.ID }) {
			continue
		}
		out = append(out, c)
	}
	return domain.CurrencyList{Items: out, Warning: f.warning}, nil
}

func (f *Fake) hasDirection(match func(domain.Direction) bool) bool {
	for _, d := range f.directions {
		if match(d) {
			return true
		}
	}
	return false
}

func (f *Fake) Directions(_ context.Context, flt application.DirectionFilter) (domain.DirectionPage, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out domain.DirectionPage
	for _, d := range f.directions {
		if flt.FromID != 0 && d.From.ID != flt.FromID {
			continue
		}
		if flt.ToID != 0 && d.To.ID != flt.ToID {
			continue
		}
		if flt.Status == "active" && !d.IsActive {
			continue
		}
		out.Items = append(out.Items, d)
	}
	out.Total = len(out.Items)
	out.Warning = f.warning
	return out, nil
}

func (f *Fake) Reserve(_ context.Context, code string) (domain.Reserve, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return domain.Reserve{Amount: f.reserves[code], Warning: f.warning}, nil
}

func (f *Fake) DirectionLimit(_ context.Context, id int64) (domain.Limit, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	l, ok := f.limits[id]
	if !ok {
		return domain.Limit{}, domain.ErrNotFound
	}
	l.Warning = f.warning
	return l, nil
}

func (f *Fake) Ping(context.Context) error { return nil }
