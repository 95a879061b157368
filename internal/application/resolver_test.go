package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"exchange-desk/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func usdRubAPI() *fakeAPI {
	return &fakeAPI{
		currencies: []domain.Currency{usd, rub},
		directions: []domain.Direction{dir(10, usd, rub, "95")},
	}
}

func Test_LoadInitialPair_Defaults(t *testing.T) {
	t.Parallel()
	r := NewResolverFromAPI(usdRubAPI())

	got, err := r.LoadInitialPair(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Equal(t, int64(1), got.Give.ID)
	require.Equal(t, int64(2), got.Get.ID)
	require.Equal(t, int64(10), *got.DirectionID)
	require.True(t, got.Price.Decimal.Equal(dec("95")))
	require.Equal(t, "1 USD = 95 RUB", FormatQuote(got.Quote))
}

func Test_LoadInitialPair_Preferred(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{
		currencies: []domain.Currency{usd, rub, btc},
		directions: []domain.Direction{
			dir(10, rub, usd, "0.0105"),
			dir(11, rub, btc, "0.00000017"),
			dir(12, usd, rub, "95"),
		},
	}
	r := NewResolverFromAPI(api)

	got, err := r.LoadInitialPair(context.Background(), rub.ID, btc.ID)
	require.NoError(t, err)
	require.Equal(t, rub.ID, got.Give.ID)
	require.Equal(t, btc.ID, got.Get.ID)
	require.Equal(t, int64(11), *got.DirectionID)
	require.Len(t, got.GetList, 2)
	require.Equal(t, CurrencyFilter{OnlyGive: true}, api.curCalls[0])
	require.Equal(t, rub.ID, api.dirCalls[0].FromID)
}

func Test_LoadInitialPair_UnknownPreferenceFallsBack(t *testing.T) {
	t.Parallel()
	r := NewResolverFromAPI(usdRubAPI())

	got, err := r.LoadInitialPair(context.Background(), 42, 43)
	require.NoError(t, err)
	require.Equal(t, usd.ID, got.Give.ID)
	require.Equal(t, rub.ID, got.Get.ID)
}

func Test_LoadInitialPair_NoDirections(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{currencies: []domain.Currency{usd, rub}}
	r := NewResolverFromAPI(api)

	got, err := r.LoadInitialPair(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Equal(t, usd.ID, got.Give.ID)
	require.Nil(t, got.Get)
	require.Nil(t, got.DirectionID)
	require.False(t, got.Price.Valid)
	require.Empty(t, got.GetList)
	require.Equal(t, "", FormatQuote(got.Quote))
}

func Test_LoadInitialPair_NoCurrencies(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{}
	r := NewResolverFromAPI(api)

	got, err := r.LoadInitialPair(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Nil(t, got.Give)
	require.Empty(t, api.dirCalls)
}

func Test_LoadInitialPair_PropagatesErrors(t *testing.T) {
	t.Parallel()
	api := usdRubAPI()
	api.dirErr = ErrUpstream
	r := NewResolverFromAPI(api)

	_, err := r.LoadInitialPair(context.Background(), 0, 0)
	require.ErrorIs(t, err, ErrUpstream)

	api = usdRubAPI()
	api.currErr = ErrUpstream
	_, err = NewResolverFromAPI(api).LoadInitialPair(context.Background(), 0, 0)
	require.ErrorIs(t, err, ErrUpstream)
	require.Empty(t, api.dirCalls)
}

func Test_SelectGet_KeepsPreviousGive(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{directions: []domain.Direction{
		dir(20, usd, btc, "0.000016"),
		dir(21, rub, btc, "0.00000017"),
	}}
	r := NewResolverFromAPI(api)

	prev := rub
	got, err := r.SelectGet(context.Background(), btc.ID, []domain.Currency{rub, btc}, &prev)
	require.NoError(t, err)
	require.Equal(t, btc.ID, got.Get.ID)
	require.Equal(t, rub.ID, got.Give.ID)
	require.Equal(t, int64(21), *got.DirectionID)
	require.Equal(t, []domain.Currency{usd, rub}, got.GiveList)
	require.Equal(t, btc.ID, api.dirCalls[0].ToID)
}

func Test_SelectGet_FallsBackToFirst(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{directions: []domain.Direction{dir(20, usd, btc, "0.000016")}}
	r := NewResolverFromAPI(api)

	prev := rub
	got, err := r.SelectGet(context.Background(), btc.ID, []domain.Currency{btc}, &prev)
	require.NoError(t, err)
	require.Equal(t, usd.ID, got.Give.ID)
	require.Equal(t, int64(20), *got.DirectionID)
}

func Test_SelectGive_KeepsPreviousGet(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{directions: []domain.Direction{
		dir(30, usd, rub, "95"),
		dir(31, usd, btc, "0.000016"),
	}}
	r := NewResolverFromAPI(api, WithDirectionStatus("active"))

	prev := btc
	got, err := r.SelectGive(context.Background(), usd.ID, []domain.Currency{usd, rub}, &prev)
	require.NoError(t, err)
	require.Equal(t, usd.ID, got.Give.ID)
	require.Equal(t, btc.ID, got.Get.ID)
	require.Equal(t, int64(31), *got.DirectionID)
	require.Equal(t, "active", api.dirCalls[0].Status)
}

func Test_SelectGive_NoDirections(t *testing.T) {
	t.Parallel()
	r := NewResolverFromAPI(&fakeAPI{})

	got, err := r.SelectGive(context.Background(), usd.ID, []domain.Currency{usd}, nil)
	require.NoError(t, err)
	require.Equal(t, usd.ID, got.Give.ID)
	require.Nil(t, got.Get)
	require.False(t, got.Resolved())
}

// Two currencies sharing a code must not be confused when resolving the direction.
func Test_SelectGet_DuplicateCodesMatchByID(t *testing.T) {
	t.Parallel()
	usdtTron := domain.Currency{ID: 7, Code: "USDT", Fidelity: 2}
	usdtEth := domain.Currency{ID: 8, Code: "USDT", Fidelity: 2}
	api := &fakeAPI{directions: []domain.Direction{
		dir(70, usdtTron, rub, "96"),
		dir(80, usdtEth, rub, "94"),
	}}
	r := NewResolverFromAPI(api)

	prev := usdtEth
	got, err := r.SelectGet(context.Background(), rub.ID, []domain.Currency{rub}, &prev)
	require.NoError(t, err)
	require.Equal(t, int64(8), got.Give.ID)
	require.Equal(t, int64(80), *got.DirectionID)
	require.True(t, got.Price.Decimal.Equal(dec("94")))
}

func Test_SelectGive_DuplicateCodesMatchByID(t *testing.T) {
	t.Parallel()
	usdtTron := domain.Currency{ID: 7, Code: "USDT", Fidelity: 2}
	usdtEth := domain.Currency{ID: 8, Code: "USDT", Fidelity: 2}
	api := &fakeAPI{directions: []domain.Direction{
		dir(71, rub, usdtTron, "0.0104"),
		dir(81, rub, usdtEth, "0.0106"),
	}}
	r := NewResolverFromAPI(api)

	prev := usdtEth
	got, err := r.SelectGive(context.Background(), rub.ID, []domain.Currency{rub}, &prev)
	require.NoError(t, err)
	require.Equal(t, int64(81), *got.DirectionID)
}

func Test_RefreshReserveAndLimit(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{
		reserves: map[string]decimal.Decimal{"RUB": dec("1500000.4567")},
		limits:   map[int64]domain.Limit{10: {MinSumGive: dec("10"), MaxSumGet: dec("500000")}},
	}
	r := NewResolverFromAPI(api)

	id := int64(10)
	get := rub
	got, err := r.RefreshReserveAndLimit(context.Background(), &id, &get)
	require.NoError(t, err)
	require.Equal(t, "1500000", got.ReserveDisplay)
	require.True(t, got.Reserve.Equal(dec("1500000")))
	require.True(t, got.Limit.MinSumGive.Equal(dec("10")))
}

func Test_RefreshReserveAndLimit_StripsTrailingZeros(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{
		reserves: map[string]decimal.Decimal{"USD": dec("12.5")},
		limits:   map[int64]domain.Limit{1: {}},
	}
	id := int64(1)
	get := usd
	got, err := NewResolverFromAPI(api).RefreshReserveAndLimit(context.Background(), &id, &get)
	require.NoError(t, err)
	require.Equal(t, "12.5", got.ReserveDisplay)
}

func Test_RefreshReserveAndLimit_MissingInputs(t *testing.T) {
	t.Parallel()
	r := NewResolverFromAPI(&fakeAPI{resErr: ErrUpstream})

	got, err := r.RefreshReserveAndLimit(context.Background(), nil, &usd)
	require.NoError(t, err)
	require.Nil(t, got)

	id := int64(1)
	got, err = r.RefreshReserveAndLimit(context.Background(), &id, nil)
	require.NoError(t, err)
	require.Nil(t, got)
}

func Test_RefreshReserveAndLimit_Error(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{
		reserves: map[string]decimal.Decimal{"RUB": dec("1")},
		limitErr: ErrUpstream,
	}
	id := int64(10)
	get := rub
	_, err := NewResolverFromAPI(api).RefreshReserveAndLimit(context.Background(), &id, &get)
	require.ErrorIs(t, err, ErrUpstream)
}

func Test_RefreshReserveAndLimit_FetchesConcurrently(t *testing.T) {
	t.Parallel()
	reserveStarted := make(chan struct{})
	limitStarted := make(chan struct{})
	errSequential := errors.New("fetches did not overlap")

	// Each fetch waits for the other to begin, so a sequential join times out.
	await := func(ctx context.Context, started, other chan struct{}) error {
		close(started)
		select {
		case <-other:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
			return errSequential
		}
	}
	api := &fakeAPI{
		reserves:  map[string]decimal.Decimal{"RUB": dec("100")},
		limits:    map[int64]domain.Limit{10: {MinSumGive: dec("1")}},
		onReserve: func(ctx context.Context) error { return await(ctx, reserveStarted, limitStarted) },
		onLimit:   func(ctx context.Context) error { return await(ctx, limitStarted, reserveStarted) },
	}
	id := int64(10)
	get := rub
	got, err := NewResolverFromAPI(api).RefreshReserveAndLimit(context.Background(), &id, &get)
	require.NoError(t, err)
	require.Equal(t, "100", got.ReserveDisplay)
	require.True(t, got.Limit.MinSumGive.Equal(dec("1")))
}

func Test_RefreshReserveAndLimit_RelaysWarnings(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{
		reserves:  map[string]decimal.Decimal{"RUB": dec("5")},
		limits:    map[int64]domain.Limit{10: {}},
		resWarn:   "reserve is being replenished",
		limitWarn: "please verify your card",
	}
	id := int64(10)
	get := rub
	got, err := NewResolverFromAPI(api).RefreshReserveAndLimit(context.Background(), &id, &get)
	require.NoError(t, err)
	require.Equal(t, []string{"reserve is being replenished", "please verify your card"}, got.Warnings)
}

func Test_LoadInitialPair_RelaysWarnings(t *testing.T) {
	t.Parallel()
	api := usdRubAPI()
	api.curWarn = "maintenance at 03:00"
	api.dirWarn = "maintenance at 03:00"
	got, err := NewResolverFromAPI(api).LoadInitialPair(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Equal(t, []string{"maintenance at 03:00"}, got.Warnings)

	api.curWarn, api.dirWarn = "", ""
	got, err = NewResolverFromAPI(api).LoadInitialPair(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Empty(t, got.Warnings)
}

func Test_SelectGive_RelaysWarnings(t *testing.T) {
	t.Parallel()
	api := usdRubAPI()
	api.dirWarn = "rate may change"
	got, err := NewResolverFromAPI(api).SelectGive(context.Background(), usd.ID, []domain.Currency{usd}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"rate may change"}, got.Warnings)
}

func TestCollectWarnings(t *testing.T) {
	require.Nil(t, CollectWarnings("", ""))
	require.Equal(t, []string{"a", "b"}, CollectWarnings("a", "", "b", "a"))
}
