package application

import (
	"context"
	"slices"

	"exchange-desk/internal/domain"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Resolver computes quotes, reserves and limits for a currency pair.
// It holds no selection state; callers pass the current selection on every call.
type Resolver struct {
	currencies CurrencyFetcher
	directions DirectionFetcher
	reserves   ReserveFetcher
	limits     LimitFetcher
	status     string
}

type Option func(*Resolver)

// WithDirectionStatus restricts direction lookups to the given server status.
func WithDirectionStatus(status string) Option { return func(r *Resolver) { r.status = status } }

func NewResolver(currencies CurrencyFetcher, directions DirectionFetcher, reserves ReserveFetcher, limits LimitFetcher, opts ...Option) *Resolver {
	r := &Resolver{
		currencies: currencies,
		directions: directions,
		reserves:   reserves,
		limits:     limits,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewResolverFromAPI wires all four collaborators from a single client.
func NewResolverFromAPI(api ExchangeAPI, opts ...Option) *Resolver {
	return NewResolver(api, api, api, api, opts...)
}

// InitialPair is the outcome of LoadInitialPair. Warnings here and on the
// other result types carry messages the server attached to otherwise
// successful responses.
type InitialPair struct {
	GiveList []domain.Currency
	GetList  []domain.Currency
	domain.Quote
	Warnings []string
}

// GiveSide is the outcome of a Get-side change: a fresh list of source currencies.
type GiveSide struct {
	GiveList []domain.Currency
	domain.Quote
	Warnings []string
}

// GetSide is the outcome of a Give-side change: a fresh list of target currencies.
type GetSide struct {
	GetList []domain.Currency
	domain.Quote
	Warnings []string
}

type ReserveLimit struct {
	Reserve        decimal.Decimal
	ReserveDisplay string
	Limit          domain.Limit
	Warnings       []string
}

// LoadInitialPair picks the Give currency (preferred id or first), loads its
// outgoing directions and picks the Get currency the same way. Zero ids mean
// no preference.
func (r *Resolver) LoadInitialPair(ctx context.Context, preferredGiveID, preferredGetID int64) (InitialPair, error) {
	list, err := r.currencies.Currencies(ctx, CurrencyFilter{OnlyGive: true})
	if err != nil {
		return InitialPair{}, err
	}
	giveList := list.Items
	give := domain.PickCurrency(giveList, preferredGiveID)
	if give == nil {
		return InitialPair{GiveList: giveList, Warnings: CollectWarnings(list.Warning)}, nil
	}

	page, err := r.directions.Directions(ctx, DirectionFilter{FromID: give.ID, Status: r.status})
	if err != nil {
		return InitialPair{}, err
	}
	getList := page.Targets()
	get := domain.PickCurrency(getList, preferredGetID)

	var dir *domain.Direction
	if get != nil {
		dir = page.ByTo(get.ID)
	}
	return InitialPair{
		GiveList: giveList,
		GetList:  getList,
		Quote:    domain.QuoteFor(give, get, dir),
		Warnings: CollectWarnings(list.Warning, page.Warning),
	}, nil
}

// SelectGet handles a change of the Get currency. getList is the list the new
// id was picked from; prevGive is kept when it still has a direction to getID.
func (r *Resolver) SelectGet(ctx context.Context, getID int64, getList []domain.Currency, prevGive *domain.Currency) (GiveSide, error) {
	get := domain.FindCurrency(getList, getID)

	page, err := r.directions.Directions(ctx, DirectionFilter{ToID: getID, Status: r.status})
	if err != nil {
		return GiveSide{}, err
	}
	giveList := page.Sources()
	give := keepOrFirst(giveList, prevGive)

	var dir *domain.Direction
	if give != nil {
		dir = page.ByFrom(give.ID)
	}
	return GiveSide{GiveList: giveList, Quote: domain.QuoteFor(give, get, dir), Warnings: CollectWarnings(page.Warning)}, nil
}

// SelectGive handles a change of the Give currency.
func (r *Resolver) SelectGive(ctx context.Context, giveID int64, giveList []domain.Currency, prevGet *domain.Currency) (GetSide, error) {
	give := domain.FindCurrency(giveList, giveID)

	page, err := r.directions.Directions(ctx, DirectionFilter{FromID: giveID, Status: r.status})
	if err != nil {
		return GetSide{}, err
	}
	getList := page.Targets()
	get := keepOrFirst(getList, prevGet)

	var dir *domain.Direction
	if get != nil {
		dir = page.ByTo(get.ID)
	}
	return GetSide{GetList: getList, Quote: domain.QuoteFor(give, get, dir), Warnings: CollectWarnings(page.Warning)}, nil
}

// RefreshReserveAndLimit loads the reserve of the target currency and the
// limits of the direction concurrently. It returns nil when either input is missing.
func (r *Resolver) RefreshReserveAndLimit(ctx context.Context, directionID *int64, get *domain.Currency) (*ReserveLimit, error) {
	if directionID == nil || get == nil {
		return nil, nil
	}

	var (
		reserve domain.Reserve
		limit   domain.Limit
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := r.reserves.Reserve(gctx, get.Code)
		reserve = v
		return err
	})
	g.Go(func() error {
		v, err := r.limits.DirectionLimit(gctx, *directionID)
		limit = v
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rounded := domain.RoundTo(reserve.Amount, get.Fidelity)
	return &ReserveLimit{
		Reserve:        rounded,
		ReserveDisplay: domain.Display(rounded, get.Fidelity),
		Limit:          limit,
		Warnings:       CollectWarnings(reserve.Warning, limit.Warning),
	}, nil
}

// CollectWarnings drops empty and repeated messages, keeping the first-seen order.
func CollectWarnings(msgs ...string) []string {
	var out []string
	for _, m := range msgs {
		if m == "" || slices.Contains(out, m) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func keepOrFirst(list []domain.Currency, prev *domain.Currency) *domain.Currency {
	var id int64
	if prev != nil {
		id = prev.ID
	}
	return domain.PickCurrency(list, id)
}
