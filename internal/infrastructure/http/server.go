package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"exchange-desk/internal/application"
	"exchange-desk/internal/domain"
	infraconfig "exchange-desk/internal/infrastructure/config"
	"exchange-desk/internal/infrastructure/httpx"
	"exchange-desk/internal/infrastructure/logx"
	"exchange-desk/internal/infrastructure/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const sessionHeader = "X-Session-ID"

type Server struct {
	resolver   *application.Resolver
	currencies application.CurrencyFetcher
	seq        *application.Sequencer
	ping       func(ctx context.Context) error
	metrics    *metrics.Metrics
}

func NewServer(resolver *application.Resolver, currencies application.CurrencyFetcher, seq *application.Sequencer) *Server {
	if seq == nil {
		seq = application.NewSequencer(nil)
	}
	return &Server{resolver: resolver, currencies: currencies, seq: seq}
}

// SetReadyCheck installs the check behind /readyz.
func (s *Server) SetReadyCheck(fn func(ctx context.Context) error) { s.ping = fn }

func (s *Server) SetMetrics(m *metrics.Metrics) { s.metrics = m }

type envelope struct {
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
	Type    string `json:"type"`
}

type quoteDTO struct {
	Give           *domain.Currency `json:"give"`
	Get            *domain.Currency `json:"get"`
	DirectionID    *int64           `json:"directionId"`
	Price          *decimal.Decimal `json:"price"`
	FormattedPrice string           `json:"formattedPrice"`
}

type pairDTO struct {
	GiveList []domain.Currency `json:"giveList,omitempty"`
	GetList  []domain.Currency `json:"getList,omitempty"`
	quoteDTO
}

type reserveDTO struct {
	Reserve        decimal.Decimal `json:"reserve"`
	ReserveDisplay string          `json:"reserveDisplay"`
	Limit          domain.Limit    `json:"limit"`
}

type validateRequest struct {
	Limit      *domain.Limit    `json:"limit"`
	Reserve    decimal.Decimal  `json:"reserve"`
	GiveAmount decimal.Decimal  `json:"giveAmount"`
	GetAmount  decimal.Decimal  `json:"getAmount"`
	Give       *domain.Currency `json:"give"`
	Get        *domain.Currency `json:"get"`
}

func (s *Server) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := application.CurrencyFilter{OnlyGive: queryBool(q.Get("onlyGive")), OnlyGet: queryBool(q.Get("onlyGet"))}
	list, err := s.currencies.Currencies(r.Context(), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	okWithWarnings(w, list.Items, application.CollectWarnings(list.Warning))
}

func (s *Server) InitialPair(w http.ResponseWriter, r *http.Request) {
	give, err1 := queryID(r, "give", false)
	get, err2 := queryID(r, "get", false)
	if err := errors.Join(err1, err2); err != nil {
		badRequest(w, err.Error())
		return
	}
	res, err := s.resolver.LoadInitialPair(r.Context(), give, get)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	okWithWarnings(w, pairDTO{GiveList: res.GiveList, GetList: res.GetList, quoteDTO: toQuoteDTO(res.Quote)}, res.Warnings)
}

// SelectGet recomputes the Give side after the user picked a Get currency.
func (s *Server) SelectGet(w http.ResponseWriter, r *http.Request) {
	get, err1 := queryID(r, "get", true)
	prev, err2 := queryID(r, "prevGive", false)
	if err := errors.Join(err1, err2); err != nil {
		badRequest(w, err.Error())
		return
	}
	var (
		out      pairDTO
		warnings []string
	)
	err := s.seq.Run(r.Context(), r.Header.Get(sessionHeader), func(ctx context.Context) error {
		getList, err := s.currencies.Currencies(ctx, application.CurrencyFilter{OnlyGet: true})
		if err != nil {
			return err
		}
		res, err := s.resolver.SelectGet(ctx, get, getList.Items, currencyRef(prev))
		if err != nil {
			return err
		}
		out = pairDTO{GiveList: res.GiveList, quoteDTO: toQuoteDTO(res.Quote)}
		warnings = application.CollectWarnings(append([]string{getList.Warning}, res.Warnings...)...)
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	okWithWarnings(w, out, warnings)
}

// SelectGive recomputes the Get side after the user picked a Give currency.
func (s *Server) SelectGive(w http.ResponseWriter, r *http.Request) {
	give, err1 := queryID(r, "give", true)
	prev, err2 := queryID(r, "prevGet", false)
	if err := errors.Join(err1, err2); err != nil {
		badRequest(w, err.Error())
		return
	}
	var (
		out      pairDTO
		warnings []string
	)
	err := s.seq.Run(r.Context(), r.Header.Get(sessionHeader), func(ctx context.Context) error {
		giveList, err := s.currencies.Currencies(ctx, application.CurrencyFilter{OnlyGive: true})
		if err != nil {
			return err
		}
		res, err := s.resolver.SelectGive(ctx, give, giveList.Items, currencyRef(prev))
		if err != nil {
			return err
		}
		out = pairDTO{GetList: res.GetList, quoteDTO: toQuoteDTO(res.Quote)}
		warnings = application.CollectWarnings(append([]string{giveList.Warning}, res.Warnings...)...)
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	okWithWarnings(w, out, warnings)
}

func (s *Server) ReserveAndLimit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(w, "invalid direction id")
		return
	}
	q := r.URL.Query()
	code := q.Get("toCode")
	if code == "" {
		badRequest(w, "toCode is required")
		return
	}
	fid, err := parseFidelity(q.Get("toFidelity"))
	if err != nil {
		badRequest(w, "invalid toFidelity")
		return
	}
	get := &domain.Currency{Code: code, Fidelity: fid}

	var res *application.ReserveLimit
	err = s.seq.Run(r.Context(), r.Header.Get(sessionHeader), func(ctx context.Context) error {
		var err error
		res, err = s.resolver.RefreshReserveAndLimit(ctx, &id, get)
		return err
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	okWithWarnings(w, reserveDTO{Reserve: res.Reserve, ReserveDisplay: res.ReserveDisplay, Limit: res.Limit}, res.Warnings)
}

func (s *Server) ValidateAmounts(w http.ResponseWriter, r *http.Request) {
	var body validateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, infraconfig.DefaultValidateBodyMax)).Decode(&body); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	for _, c := range []*domain.Currency{body.Give, body.Get} {
		if c != nil && !domain.ValidFidelity(c.Fidelity) {
			badRequest(w, "invalid fidelity")
			return
		}
	}
	res := application.ValidateAmounts(body.Limit, body.Reserve, body.GiveAmount, body.GetAmount, body.Give, body.Get)
	if res.OK() {
		ok(w, res)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Data: res, Message: firstNonEmpty(res.Give, res.Get), Type: httpx.TypeWarning})
}

func (s *Server) FormatRate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	price, err := decimal.NewFromString(q.Get("price"))
	if err != nil {
		badRequest(w, "invalid price")
		return
	}
	giveFid, err1 := parseFidelity(q.Get("giveFidelity"))
	getFid, err2 := parseFidelity(q.Get("getFidelity"))
	if err1 != nil || err2 != nil {
		badRequest(w, "invalid fidelity")
		return
	}
	give := &domain.Currency{Code: q.Get("giveCode"), Fidelity: giveFid}
	get := &domain.Currency{Code: q.Get("getCode"), Fidelity: getFid}
	ok(w, map[string]string{"formattedPrice": application.FormatRate(price, give, get)})
}

func toQuoteDTO(q domain.Quote) quoteDTO {
	out := quoteDTO{
		Give:           q.Give,
		Get:            q.Get,
		DirectionID:    q.DirectionID,
		FormattedPrice: application.FormatQuote(q),
	}
	if q.Price.Valid {
		p := q.Price.Decimal
		out.Price = &p
	}
	return out
}

func currencyRef(id int64) *domain.Currency {
	if id == 0 {
		return nil
	}
	return &domain.Currency{ID: id}
}

func queryID(r *http.Request, key string, required bool) (int64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		if required {
			return 0, errors.New(key + " is required")
		}
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return id, nil
}

// parseFidelity accepts decimal place counts in 0..domain.MaxFidelity.
func parseFidelity(raw string) (int32, error) {
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	if !domain.ValidFidelity(int32(v)) {
		return 0, fmt.Errorf("fidelity %d out of range", v)
	}
	return int32(v), nil
}

func queryBool(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// fail maps resolver and upstream errors onto the response envelope.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *httpx.APIError
	switch {
	case errors.As(err, &apiErr):
		writeError(w, apiErr.StatusCode, apiErr.Message, apiErr.Type)
	case errors.Is(err, httpx.ErrCannotConnect):
		writeError(w, http.StatusBadGateway, httpx.ErrCannotConnect.Error(), httpx.TypeError)
	case errors.Is(err, application.ErrStale):
		writeError(w, http.StatusConflict, application.ErrStale.Error(), httpx.TypeWarning)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound), httpx.TypeError)
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, http.StatusText(http.StatusGatewayTimeout), httpx.TypeError)
	default:
		logx.WithFields(r.Context()).Error("request_failed", zap.String("path", r.URL.Path), zap.Error(err))
		internalError(w)
	}
}

func ok(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Data: data, Type: "success"})
}

// okWithWarnings answers 200; upstream warnings turn the envelope into type "warning".
func okWithWarnings(w http.ResponseWriter, data any, warnings []string) {
	if len(warnings) == 0 {
		ok(w, data)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Data: data, Message: strings.Join(warnings, "; "), Type: httpx.TypeWarning})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, typ string) {
	writeJSON(w, status, envelope{Data: nil, Message: msg, Type: typ})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusBadRequest, msg, httpx.TypeError)
}

func internalError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), httpx.TypeError)
}
