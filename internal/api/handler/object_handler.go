package handler

import (
	"io"
	"net/http"
	"path"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vidshare/vidshare/internal/core/domain"
	"github.com/vidshare/vidshare/internal/core/ports"
	"github.com/vidshare/vidshare/internal/infrastructure/storage"
)

// ObjectHandler serves stored objects at their public URLs.
type ObjectHandler struct {
	reader ports.ObjectReader
	bucket string
}

func NewObjectHandler(reader ports.ObjectReader, bucket string) *ObjectHandler {
	return &ObjectHandler{reader: reader, bucket: bucket}
}

// Serve handles GET /objects/{bucket}/{key}. Seekable backends get range
// support.
func (h *ObjectHandler) Serve(c echo.Context) error {
	key, ok := storage.KeyFromPath(c.Param("*"), h.bucket)
	if !ok {
		return domain.ErrObjectNotFound
	}

	obj, err := h.reader.Open(c.Request().Context(), key)
	if err != nil {
		return err
	}
	defer obj.Body.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	c.Response().Header().Set(echo.HeaderContentType, contentType)

	if rs, ok := obj.Body.(io.ReadSeeker); ok {
		http.ServeContent(c.Response(), c.Request(), path.Base(key), obj.ModTime, rs)
		return nil
	}

	if obj.Size >= 0 {
		c.Response().Header().Set(echo.HeaderContentLength, strconv.FormatInt(obj.Size, 10))
	}
	return c.Stream(http.StatusOK, contentType, obj.Body)
}
