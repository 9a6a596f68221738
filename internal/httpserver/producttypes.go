package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"open-producten/internal/domain"
	producttypesvc "open-producten/internal/service/producttype"
)

type productTypeRequest struct {
	Name                  string   `json:"name"`
	Summary               string   `json:"summary"`
	Content               string   `json:"content"`
	FormLink              string   `json:"formLink"`
	Keywords              []string `json:"keywords"`
	Published             bool     `json:"published"`
	UniformProductNameID  string   `json:"uniformProductNameId"`
	CategoryIDs           []string `json:"categoryIds"`
	TagIDs                []string `json:"tagIds"`
	ConditionIDs          []string `json:"conditionIds"`
	RelatedProductTypeIDs []string `json:"relatedProductTypeIds"`
}

type updateProductTypeRequest struct {
	Name                  *string  `json:"name"`
	Summary               *string  `json:"summary"`
	Content               *string  `json:"content"`
	FormLink              *string  `json:"formLink"`
	Keywords              []string `json:"keywords"`
	Published             *bool    `json:"published"`
	UniformProductNameID  *string  `json:"uniformProductNameId"`
	CategoryIDs           []string `json:"categoryIds"`
	TagIDs                []string `json:"tagIds"`
	ConditionIDs          []string `json:"conditionIds"`
	RelatedProductTypeIDs []string `json:"relatedProductTypeIds"`
}

type fieldRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	IsRequired  bool     `json:"isRequired"`
	Choices     []string `json:"choices"`
}

type updateFieldRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Type        *string  `json:"type"`
	IsRequired  *bool    `json:"isRequired"`
	Choices     []string `json:"choices"`
}

type linkRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type productTypeHandler struct {
	svc ProductTypeService
}

func registerProductTypeRoutes(r *gin.RouterGroup, svc ProductTypeService) {
	h := productTypeHandler{svc: svc}
	r.GET("/upns", h.listUPNs)

	r.GET("/producttypes", h.list)
	r.POST("/producttypes", h.create)
	r.GET("/producttypes/:id", h.get)
	r.PATCH("/producttypes/:id", h.update)
	r.DELETE("/producttypes/:id", h.delete)

	r.GET("/producttypes/:id/fields", h.listFields)
	r.POST("/producttypes/:id/fields", h.createField)
	r.GET("/producttypes/:id/fields/:fieldId", h.getField)
	r.PATCH("/producttypes/:id/fields/:fieldId", h.updateField)
	r.DELETE("/producttypes/:id/fields/:fieldId", h.deleteField)

	r.GET("/producttypes/:id/links", h.listLinks)
	r.POST("/producttypes/:id/links", h.createLink)
	r.GET("/producttypes/:id/links/:linkId", h.getLink)
	r.PUT("/producttypes/:id/links/:linkId", h.updateLink)
	r.DELETE("/producttypes/:id/links/:linkId", h.deleteLink)
}

func (h productTypeHandler) listUPNs(c *gin.Context) {
	includeDeleted, _ := strconv.ParseBool(c.Query("includeDeleted"))
	out, err := h.svc.ListUPNs(c.Request.Context(), includeDeleted)
	respondList(c, out, err)
}

func (h productTypeHandler) list(c *gin.Context) {
	out, err := h.svc.List(c.Request.Context())
	respondList(c, out, err)
}

func (h productTypeHandler) get(c *gin.Context) {
	pt, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, pt, err)
}

func (h productTypeHandler) create(c *gin.Context) {
	var req productTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	pt, err := h.svc.Create(c.Request.Context(), domain.ProductType{
		Name:                  req.Name,
		Summary:               req.Summary,
		Content:               req.Content,
		FormLink:              req.FormLink,
		Keywords:              req.Keywords,
		Published:             req.Published,
		UniformProductNameID:  req.UniformProductNameID,
		CategoryIDs:           req.CategoryIDs,
		TagIDs:                req.TagIDs,
		ConditionIDs:          req.ConditionIDs,
		RelatedProductTypeIDs: req.RelatedProductTypeIDs,
	})
	respond(c, http.StatusCreated, pt, err)
}

func (h productTypeHandler) update(c *gin.Context) {
	var req updateProductTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	pt, err := h.svc.Update(c.Request.Context(), c.Param("id"), producttypesvc.UpdateInput{
		Name:                  req.Name,
		Summary:               req.Summary,
		Content:               req.Content,
		FormLink:              req.FormLink,
		Keywords:              req.Keywords,
		Published:             req.Published,
		UniformProductNameID:  req.UniformProductNameID,
		CategoryIDs:           req.CategoryIDs,
		TagIDs:                req.TagIDs,
		ConditionIDs:          req.ConditionIDs,
		RelatedProductTypeIDs: req.RelatedProductTypeIDs,
	})
	respond(c, http.StatusOK, pt, err)
}

func (h productTypeHandler) delete(c *gin.Context) {
	respondNoContent(c, h.svc.Delete(c.Request.Context(), c.Param("id")))
}

func (h productTypeHandler) listFields(c *gin.Context) {
	out, err := h.svc.ListFields(c.Request.Context(), c.Param("id"))
	respondList(c, out, err)
}

// field loads a field and checks it belongs to the product type in the URL.
func (h productTypeHandler) field(c *gin.Context) (*domain.Field, bool) {
	f, err := h.svc.GetField(c.Request.Context(), c.Param("fieldId"))
	if err == nil && f.ProductTypeID != c.Param("id") {
		err = domain.ErrNotFound
	}
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return f, true
}

func (h productTypeHandler) getField(c *gin.Context) {
	if f, ok := h.field(c); ok {
		c.JSON(http.StatusOK, f)
	}
}

func (h productTypeHandler) createField(c *gin.Context) {
	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	f, err := h.svc.CreateField(c.Request.Context(), domain.Field{
		ProductTypeID: c.Param("id"),
		Name:          req.Name,
		Description:   req.Description,
		Type:          domain.FieldType(req.Type),
		IsRequired:    req.IsRequired,
		Choices:       req.Choices,
	})
	respond(c, http.StatusCreated, f, err)
}

func (h productTypeHandler) updateField(c *gin.Context) {
	var req updateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cur, ok := h.field(c)
	if !ok {
		return
	}
	in := producttypesvc.FieldUpdate{
		Name:        req.Name,
		Description: req.Description,
		IsRequired:  req.IsRequired,
		Choices:     req.Choices,
	}
	if req.Type != nil {
		ft := domain.FieldType(*req.Type)
		in.Type = &ft
	}
	f, err := h.svc.UpdateField(c.Request.Context(), cur.ID, in)
	respond(c, http.StatusOK, f, err)
}

func (h productTypeHandler) deleteField(c *gin.Context) {
	if f, ok := h.field(c); ok {
		respondNoContent(c, h.svc.DeleteField(c.Request.Context(), f.ID))
	}
}

func (h productTypeHandler) listLinks(c *gin.Context) {
	out, err := h.svc.ListLinks(c.Request.Context(), c.Param("id"))
	respondList(c, out, err)
}

func (h productTypeHandler) link(c *gin.Context) (*domain.Link, bool) {
	l, err := h.svc.GetLink(c.Request.Context(), c.Param("linkId"))
	if err == nil && l.ProductTypeID != c.Param("id") {
		err = domain.ErrNotFound
	}
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return l, true
}

func (h productTypeHandler) getLink(c *gin.Context) {
	if l, ok := h.link(c); ok {
		c.JSON(http.StatusOK, l)
	}
}

func (h productTypeHandler) createLink(c *gin.Context) {
	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	l, err := h.svc.CreateLink(c.Request.Context(), domain.Link{ProductTypeID: c.Param("id"), Name: req.Name, URL: req.URL})
	respond(c, http.StatusCreated, l, err)
}

func (h productTypeHandler) updateLink(c *gin.Context) {
	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cur, ok := h.link(c)
	if !ok {
		return
	}
	cur.Name, cur.URL = req.Name, req.URL
	l, err := h.svc.UpdateLink(c.Request.Context(), *cur)
	respond(c, http.StatusOK, l, err)
}

func (h productTypeHandler) deleteLink(c *gin.Context) {
	if l, ok := h.link(c); ok {
		respondNoContent(c, h.svc.DeleteLink(c.Request.Context(), l.ID))
	}
}
