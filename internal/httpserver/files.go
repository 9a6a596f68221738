package httpserver

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"open-producten/internal/domain"
	attachmentsvc "open-producten/internal/service/attachment"
)

type fileHandler struct {
	svc FileService
}

func registerFileRoutes(r *gin.RouterGroup, svc FileService) {
	h := fileHandler{svc: svc}
	r.GET("/producttypes/:id/files", h.list)
	r.POST("/producttypes/:id/files", h.upload)
	r.GET("/producttypes/:id/files/:fileId", h.download)
	r.DELETE("/producttypes/:id/files/:fileId", h.delete)
}

func (h fileHandler) list(c *gin.Context) {
	out, err := h.svc.List(c.Request.Context(), c.Param("id"))
	respondList(c, out, err)
}

// upload takes a multipart form with the document in "file".
func (h fileHandler) upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		writeError(c, domain.OnField("file", domain.Invalid("No file was submitted.")))
		return
	}
	if header.Size > attachmentsvc.MaxSize {
		writeError(c, domain.OnField("file", domain.Invalid("Ensure the file is at most %d bytes.", attachmentsvc.MaxSize)))
		return
	}
	f, err := header.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer f.Close()
	content, err := io.ReadAll(io.LimitReader(f, attachmentsvc.MaxSize+1))
	if err != nil {
		writeError(c, err)
		return
	}
	out, err := h.svc.Upload(c.Request.Context(), c.Param("id"), header.Filename, header.Header.Get("Content-Type"), content)
	respond(c, http.StatusCreated, out, err)
}

func (h fileHandler) download(c *gin.Context) {
	f, err := h.svc.Get(c.Request.Context(), c.Param("id"), c.Param("fileId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename=`+strconv.Quote(f.Name))
	c.Data(http.StatusOK, f.ContentType, f.Content)
}

func (h fileHandler) delete(c *gin.Context) {
	respondNoContent(c, h.svc.Delete(c.Request.Context(), c.Param("id"), c.Param("fileId")))
}
