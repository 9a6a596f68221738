package httpserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	productsvc "open-producten/internal/service/product"
)

type dataRequest struct {
	ID      string `json:"id"`
	FieldID string `json:"fieldId"`
	Value   string `json:"value"`
}

type productRequest struct {
	ProductTypeID string        `json:"productTypeId"`
	StartDate     string        `json:"startDate"`
	EndDate       string        `json:"endDate"`
	BSN           string        `json:"bsn"`
	KVK           string        `json:"kvk"`
	Published     bool          `json:"published"`
	Data          []dataRequest `json:"data"`
}

type updateProductRequest struct {
	StartDate *string       `json:"startDate"`
	EndDate   *string       `json:"endDate"`
	BSN       *string       `json:"bsn"`
	KVK       *string       `json:"kvk"`
	Published *bool         `json:"published"`
	Data      []dataRequest `json:"data"`
}

type productHandler struct {
	svc ProductService
}

func registerProductRoutes(r *gin.RouterGroup, svc ProductService) {
	h := productHandler{svc: svc}
	r.GET("/products", h.list)
	r.POST("/products", h.create)
	r.GET("/products/:id", h.get)
	r.PATCH("/products/:id", h.update)
	r.DELETE("/products/:id", h.delete)
}

func (h productHandler) list(c *gin.Context) {
	out, err := h.svc.List(c.Request.Context(), c.Query("productType"))
	respondList(c, out, err)
}

func (h productHandler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, p, err)
}

func (h productHandler) create(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	start, err := parseDate("startDate", req.StartDate)
	if err != nil {
		writeError(c, err)
		return
	}
	end, err := parseDate("endDate", req.EndDate)
	if err != nil {
		writeError(c, err)
		return
	}
	p, err := h.svc.Create(c.Request.Context(), productsvc.CreateInput{
		ProductTypeID: req.ProductTypeID,
		StartDate:     start,
		EndDate:       end,
		BSN:           req.BSN,
		KVK:           req.KVK,
		Published:     req.Published,
		Data:          toDataInputs(req.Data),
	})
	respond(c, http.StatusCreated, p, err)
}

func (h productHandler) update(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	in := productsvc.UpdateInput{
		BSN:       req.BSN,
		KVK:       req.KVK,
		Published: req.Published,
	}
	var err error
	if in.StartDate, err = optionalDate("startDate", req.StartDate); err != nil {
		writeError(c, err)
		return
	}
	if in.EndDate, err = optionalDate("endDate", req.EndDate); err != nil {
		writeError(c, err)
		return
	}
	if req.Data != nil {
		in.Data = toDataInputs(req.Data)
	}
	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), in)
	respond(c, http.StatusOK, p, err)
}

func (h productHandler) delete(c *gin.Context) {
	respondNoContent(c, h.svc.Delete(c.Request.Context(), c.Param("id")))
}

// toDataInputs keeps an empty submitted list non-nil so it still clears the
// product's data.
func toDataInputs(req []dataRequest) []productsvc.DataInput {
	if req == nil {
		return nil
	}
	out := make([]productsvc.DataInput, 0, len(req))
	for _, d := range req {
		out = append(out, productsvc.DataInput{ID: d.ID, FieldID: d.FieldID, Value: d.Value})
	}
	return out
}

func optionalDate(field string, s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := parseDate(field, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
