package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"open-producten/internal/domain"
	categorysvc "open-producten/internal/service/category"
)

type createCategoryRequest struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Published      bool     `json:"published"`
	ParentID       string   `json:"parentId"`
	ProductTypeIDs []string `json:"productTypeIds"`
}

type updateCategoryRequest struct {
	Name           *string  `json:"name"`
	Description    *string  `json:"description"`
	Published      *bool    `json:"published"`
	ParentID       *string  `json:"parentId"`
	ProductTypeIDs []string `json:"productTypeIds"`
}

type moveCategoryRequest struct {
	TargetID string `json:"targetId" binding:"required"`
	Position string `json:"position" binding:"required"`
}

type publishRequest struct {
	Published *bool `json:"published" binding:"required"`
}

type batchPublishEntry struct {
	ID        string `json:"id" binding:"required"`
	Published *bool  `json:"published" binding:"required"`
}

type categoryHandler struct {
	svc CategoryService
}

func registerCategoryRoutes(r *gin.RouterGroup, svc CategoryService) {
	h := categoryHandler{svc: svc}
	r.GET("/categories", h.list)
	r.POST("/categories", h.create)
	r.GET("/categories/roots", h.roots)
	r.POST("/categories/publish", h.batchPublish)
	r.GET("/categories/:id", h.get)
	r.PATCH("/categories/:id", h.update)
	r.DELETE("/categories/:id", h.delete)
	r.POST("/categories/:id/move", h.move)
	r.POST("/categories/:id/publish", h.publish)
	r.GET("/categories/:id/parent", h.parent)
	r.GET("/categories/:id/children", h.children)
	r.GET("/categories/:id/ancestors", h.ancestors)
	r.GET("/categories/:id/descendants", h.descendants)
}

func (h categoryHandler) list(c *gin.Context) {
	out, err := h.svc.List(c.Request.Context())
	respondList(c, out, err)
}

func (h categoryHandler) roots(c *gin.Context) {
	out, err := h.svc.Roots(c.Request.Context())
	respondList(c, out, err)
}

func (h categoryHandler) get(c *gin.Context) {
	cat, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, cat, err)
}

func (h categoryHandler) create(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cat, err := h.svc.Create(c.Request.Context(), categorysvc.CreateInput{
		CategoryAttrs: domain.CategoryAttrs{
			Name:        req.Name,
			Description: req.Description,
			Published:   req.Published,
		},
		ParentID:       req.ParentID,
		ProductTypeIDs: req.ProductTypeIDs,
	})
	respond(c, http.StatusCreated, cat, err)
}

func (h categoryHandler) update(c *gin.Context) {
	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cat, err := h.svc.Update(c.Request.Context(), c.Param("id"), categorysvc.UpdateInput{
		Name:           req.Name,
		Description:    req.Description,
		Published:      req.Published,
		ParentID:       req.ParentID,
		ProductTypeIDs: req.ProductTypeIDs,
	})
	respond(c, http.StatusOK, cat, err)
}

func (h categoryHandler) delete(c *gin.Context) {
	respondNoContent(c, h.svc.Delete(c.Request.Context(), c.Param("id")))
}

func (h categoryHandler) move(c *gin.Context) {
	var req moveCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	pos, err := categorysvc.ParsePosition(req.Position)
	if err != nil {
		writeError(c, domain.OnField("position", err))
		return
	}
	ctx := c.Request.Context()
	if err := h.svc.Move(ctx, c.Param("id"), req.TargetID, pos); err != nil {
		writeError(c, err)
		return
	}
	cat, err := h.svc.Get(ctx, c.Param("id"))
	respond(c, http.StatusOK, cat, err)
}

func (h categoryHandler) publish(c *gin.Context) {
	var req publishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cat, err := h.svc.SetPublished(c.Request.Context(), c.Param("id"), *req.Published)
	respond(c, http.StatusOK, cat, err)
}

func (h categoryHandler) batchPublish(c *gin.Context) {
	var req []batchPublishEntry
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	changes := make([]categorysvc.PublishChange, 0, len(req))
	for _, e := range req {
		if e.Published == nil {
			badRequest(c, domain.Invalid("published is required for %s", e.ID))
			return
		}
		changes = append(changes, categorysvc.PublishChange{ID: e.ID, Published: *e.Published})
	}
	respondNoContent(c, h.svc.BatchSetPublished(c.Request.Context(), changes))
}

func (h categoryHandler) parent(c *gin.Context) {
	parent, err := h.svc.Parent(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if parent == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, parent)
}

func (h categoryHandler) children(c *gin.Context) {
	out, err := h.svc.Children(c.Request.Context(), c.Param("id"))
	respondList(c, out, err)
}

func (h categoryHandler) ancestors(c *gin.Context) {
	out, err := h.svc.Ancestors(c.Request.Context(), c.Param("id"))
	respondList(c, out, err)
}

func (h categoryHandler) descendants(c *gin.Context) {
	out, err := h.svc.Descendants(c.Request.Context(), c.Param("id"))
	respondList(c, out, err)
}
