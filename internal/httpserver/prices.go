package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"open-producten/internal/domain"
	pricesvc "open-producten/internal/service/price"
)

type priceOptionRequest struct {
	ID          string      `json:"id"`
	Amount      json.Number `json:"amount"`
	Description string      `json:"description"`
}

type priceRequest struct {
	StartDate string               `json:"startDate"`
	Options   []priceOptionRequest `json:"options"`
}

type updatePriceRequest struct {
	StartDate *string              `json:"startDate"`
	Options   []priceOptionRequest `json:"options"`
}

type priceOptionResponse struct {
	ID          string `json:"id"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

type priceResponse struct {
	ID        string                `json:"id"`
	StartDate string                `json:"startDate"`
	Options   []priceOptionResponse `json:"options"`
}

func toPriceResponse(p *domain.Price) priceResponse {
	out := priceResponse{ID: p.ID, StartDate: p.StartDate.Format(time.DateOnly), Options: []priceOptionResponse{}}
	for _, o := range p.Options {
		out.Options = append(out.Options, priceOptionResponse{ID: o.ID, Amount: formatCents(o.AmountCents), Description: o.Description})
	}
	return out
}

type priceHandler struct {
	svc PriceService
}

func registerPriceRoutes(r *gin.RouterGroup, svc PriceService) {
	h := priceHandler{svc: svc}
	r.GET("/producttypes/:id/prices", h.list)
	r.POST("/producttypes/:id/prices", h.create)
	r.GET("/producttypes/:id/prices/current", h.current)
	r.GET("/producttypes/:id/prices/:priceId", h.get)
	r.PATCH("/producttypes/:id/prices/:priceId", h.update)
	r.DELETE("/producttypes/:id/prices/:priceId", h.delete)
}

func (h priceHandler) list(c *gin.Context) {
	prices, err := h.svc.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]priceResponse, 0, len(prices))
	for i := range prices {
		out = append(out, toPriceResponse(&prices[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h priceHandler) current(c *gin.Context) {
	p, err := h.svc.Current(c.Request.Context(), c.Param("id"))
	h.write(c, http.StatusOK, p, err)
}

func (h priceHandler) price(c *gin.Context) (*domain.Price, bool) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("priceId"))
	if err == nil && p.ProductTypeID != c.Param("id") {
		err = domain.ErrNotFound
	}
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return p, true
}

func (h priceHandler) get(c *gin.Context) {
	if p, ok := h.price(c); ok {
		c.JSON(http.StatusOK, toPriceResponse(p))
	}
}

func (h priceHandler) create(c *gin.Context) {
	var req priceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	start, err := parseDate("startDate", req.StartDate)
	if err != nil {
		writeError(c, err)
		return
	}
	options, err := toOptionInputs(req.Options)
	if err != nil {
		writeError(c, err)
		return
	}
	p, err := h.svc.Create(c.Request.Context(), c.Param("id"), start, options)
	h.write(c, http.StatusCreated, p, err)
}

func (h priceHandler) update(c *gin.Context) {
	var req updatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cur, ok := h.price(c)
	if !ok {
		return
	}
	var in pricesvc.UpdateInput
	if req.StartDate != nil {
		start, err := parseDate("startDate", *req.StartDate)
		if err != nil {
			writeError(c, err)
			return
		}
		in.StartDate = &start
	}
	if req.Options != nil {
		options, err := toOptionInputs(req.Options)
		if err != nil {
			writeError(c, err)
			return
		}
		in.Options = options
		if in.Options == nil {
			in.Options = []pricesvc.OptionInput{}
		}
	}
	p, err := h.svc.Update(c.Request.Context(), cur.ID, in)
	h.write(c, http.StatusOK, p, err)
}

func (h priceHandler) delete(c *gin.Context) {
	if p, ok := h.price(c); ok {
		respondNoContent(c, h.svc.Delete(c.Request.Context(), p.ID))
	}
}

func (h priceHandler) write(c *gin.Context, status int, p *domain.Price, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(status, toPriceResponse(p))
}

func toOptionInputs(req []priceOptionRequest) ([]pricesvc.OptionInput, error) {
	var out []pricesvc.OptionInput
	errs := &domain.BatchError{Field: "options"}
	for i, o := range req {
		cents, err := parseCents(o.Amount.String())
		if err != nil {
			errs.Add(i, err)
			continue
		}
		out = append(out, pricesvc.OptionInput{ID: o.ID, AmountCents: cents, Description: o.Description})
	}
	return out, errs.ErrOrNil()
}

// parseCents reads a decimal amount with at most two fraction digits.
func parseCents(s string) (int64, error) {
	invalid := domain.Invalid("Enter a valid amount with at most 2 decimal places.")
	whole, frac, _ := strings.Cut(strings.TrimSpace(s), ".")
	if whole == "" || len(frac) > 2 || strings.HasPrefix(whole, "-") {
		return 0, invalid
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, invalid
	}
	frac += strings.Repeat("0", 2-len(frac))
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, invalid
	}
	return units*100 + cents, nil
}

func formatCents(cents int64) string {
	return strconv.FormatInt(cents/100, 10) + "." + leftPad(strconv.FormatInt(cents%100, 10))
}

func leftPad(s string) string {
	if len(s) < 2 {
		return "0" + s
	}
	return s
}

func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, domain.OnField(field, domain.Invalid("Date has wrong format. Use YYYY-MM-DD."))
	}
	return t, nil
}
