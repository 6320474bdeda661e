package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	filesvc "insurance-tracker/internal/service/file"
)

func (h *handlers) uploadFile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, filesvc.MaxSize+1<<20)
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}
	body, err := fh.Open()
	if err != nil {
		h.fail(c, err)
		return
	}
	defer body.Close()

	created, err := h.deps.FileSvc.Upload(c.Request.Context(), filesvc.UploadInput{
		CustomerID:  c.Param("id"),
		FileName:    fh.Filename,
		Description: c.PostForm("description"),
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        body,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) fileURL(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	url, err := h.deps.FileSvc.URL(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "expiresIn": int(filesvc.URLTTL.Seconds())})
}

func (h *handlers) deleteFile(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	f, err := h.deps.FileSvc.Delete(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": f.FileName})
}
