package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"open-producten/internal/domain"
	questionrepo "open-producten/internal/repository/question"
)

type questionRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type updateQuestionRequest struct {
	Question *string `json:"question"`
	Answer   *string `json:"answer"`
}

type tagTypeRequest struct {
	Name string `json:"name"`
}

type tagRequest struct {
	Name   string  `json:"name"`
	TypeID *string `json:"typeId"`
}

type conditionRequest struct {
	Name         string `json:"name"`
	Question     string `json:"question"`
	PositiveText string `json:"positiveText"`
	NegativeText string `json:"negativeText"`
	Rule         string `json:"rule"`
}

func (r conditionRequest) condition(id string) domain.Condition {
	return domain.Condition{
		ID:           id,
		Name:         r.Name,
		Question:     r.Question,
		PositiveText: r.PositiveText,
		NegativeText: r.NegativeText,
		Rule:         r.Rule,
	}
}

type questionHandler struct {
	svc QuestionService
}

func registerQuestionRoutes(r *gin.RouterGroup, svc QuestionService) {
	h := questionHandler{svc: svc}
	r.GET("/categories/:id/questions", h.list(func(id string) questionrepo.Owner { return questionrepo.Owner{CategoryID: id} }))
	r.POST("/categories/:id/questions", h.create(func(id string, q *domain.Question) { q.CategoryID = &id }))
	r.GET("/producttypes/:id/questions", h.list(func(id string) questionrepo.Owner { return questionrepo.Owner{ProductTypeID: id} }))
	r.POST("/producttypes/:id/questions", h.create(func(id string, q *domain.Question) { q.ProductTypeID = &id }))
	r.GET("/questions/:id", h.get)
	r.PATCH("/questions/:id", h.update)
	r.DELETE("/questions/:id", h.delete)
}

func (h questionHandler) list(owner func(id string) questionrepo.Owner) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := h.svc.List(c.Request.Context(), owner(c.Param("id")))
		respondList(c, out, err)
	}
}

func (h questionHandler) create(attach func(id string, q *domain.Question)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req questionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		q := domain.Question{Question: req.Question, Answer: req.Answer}
		attach(c.Param("id"), &q)
		out, err := h.svc.Create(c.Request.Context(), q)
		respond(c, http.StatusCreated, out, err)
	}
}

func (h questionHandler) get(c *gin.Context) {
	q, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, q, err)
}

func (h questionHandler) update(c *gin.Context) {
	var req updateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	q, err := h.svc.Update(c.Request.Context(), c.Param("id"), req.Question, req.Answer)
	respond(c, http.StatusOK, q, err)
}

func (h questionHandler) delete(c *gin.Context) {
	respondNoContent(c, h.svc.Delete(c.Request.Context(), c.Param("id")))
}

type tagHandler struct {
	svc TagService
}

func registerTagRoutes(r *gin.RouterGroup, svc TagService) {
	h := tagHandler{svc: svc}
	r.GET("/tagtypes", h.listTypes)
	r.POST("/tagtypes", h.createType)
	r.GET("/tagtypes/:id", h.getType)
	r.PUT("/tagtypes/:id", h.updateType)
	r.DELETE("/tagtypes/:id", h.deleteType)

	r.GET("/tags", h.list)
	r.POST("/tags", h.create)
	r.GET("/tags/:id", h.get)
	r.PUT("/tags/:id", h.update)
	r.DELETE("/tags/:id", h.delete)
}

func (h tagHandler) listTypes(c *gin.Context) {
	out, err := h.svc.ListTypes(c.Request.Context())
	respondList(c, out, err)
}

func (h tagHandler) getType(c *gin.Context) {
	t, err := h.svc.GetType(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, t, err)
}

func (h tagHandler) createType(c *gin.Context) {
	var req tagTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	t, err := h.svc.CreateType(c.Request.Context(), domain.TagType{Name: req.Name})
	respond(c, http.StatusCreated, t, err)
}

func (h tagHandler) updateType(c *gin.Context) {
	var req tagTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	t, err := h.svc.UpdateType(c.Request.Context(), domain.TagType{ID: c.Param("id"), Name: req.Name})
	respond(c, http.StatusOK, t, err)
}

func (h tagHandler) deleteType(c *gin.Context) {
	respondNoContent(c, h.svc.DeleteType(c.Request.Context(), c.Param("id")))
}

func (h tagHandler) list(c *gin.Context) {
	out, err := h.svc.List(c.Request.Context())
	respondList(c, out, err)
}

func (h tagHandler) get(c *gin.Context) {
	t, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, t, err)
}

func (h tagHandler) create(c *gin.Context) {
	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	t, err := h.svc.Create(c.Request.Context(), domain.Tag{Name: req.Name, TypeID: req.TypeID})
	respond(c, http.StatusCreated, t, err)
}

func (h tagHandler) update(c *gin.Context) {
	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	t, err := h.svc.Update(c.Request.Context(), domain.Tag{ID: c.Param("id"), Name: req.Name, TypeID: req.TypeID})
	respond(c, http.StatusOK, t, err)
}

func (h tagHandler) delete(c *gin.Context) {
	respondNoContent(c, h.svc.Delete(c.Request.Context(), c.Param("id")))
}

type conditionHandler struct {
	svc ConditionService
}

func registerConditionRoutes(r *gin.RouterGroup, svc ConditionService) {
	h := conditionHandler{svc: svc}
	r.GET("/conditions", h.list)
	r.POST("/conditions", h.create)
	r.GET("/conditions/:id", h.get)
	r.PUT("/conditions/:id", h.update)
	r.DELETE("/conditions/:id", h.delete)
}

func (h conditionHandler) list(c *gin.Context) {
	out, err := h.svc.List(c.Request.Context())
	respondList(c, out, err)
}

func (h conditionHandler) get(c *gin.Context) {
	cond, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, cond, err)
}

func (h conditionHandler) create(c *gin.Context) {
	var req conditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cond, err := h.svc.Create(c.Request.Context(), req.condition(""))
	respond(c, http.StatusCreated, cond, err)
}

func (h conditionHandler) update(c *gin.Context) {
	var req conditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cond, err := h.svc.Update(c.Request.Context(), req.condition(c.Param("id")))
	respond(c, http.StatusOK, cond, err)
}

func (h conditionHandler) delete(c *gin.Context) {
	respondNoContent(c, h.svc.Delete(c.Request.Context(), c.Param("id")))
}
