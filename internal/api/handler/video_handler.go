package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vidshare/vidshare/internal/core/ports"
)

// VideoHandler handles uploads, listings and play events.
type VideoHandler struct {
	uploads ports.UploadService
	catalog ports.CatalogService
}

func NewVideoHandler(uploads ports.UploadService, catalog ports.CatalogService) *VideoHandler {
	return &VideoHandler{uploads: uploads, catalog: catalog}
}

// Upload handles POST /v1/videos.
//
// @Summary      Upload a video
// @Description  Stores the file under {user_id}/{file_name} and records its metadata. Accepts mp4, mov and avi up to 100 MiB.
// @Tags         videos
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file         formData  file    true   "Video file"
// @Param        title        formData  string  false  "Title"
// @Param        description  formData  string  false  "Description"
// @Param        tags         formData  string  false  "Comma-separated tags"
// @Param        category     formData  string  false  "Education, Entertainment, Tutorial or Other"
// @Success      201          {object}  uploadResponse
// @Failure      400          {object}  errorResponse
// @Failure      401          {object}  errorResponse
// @Failure      413          {object}  errorResponse
// @Failure      415          {object}  errorResponse
// @Failure      502          {object}  errorResponse
// @Failure      504          {object}  errorResponse
// @Router       /v1/videos [post]
func (h *VideoHandler) Upload(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
			return err
		}
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	var form uploadForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&form); err != nil {
		return err
	}

	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := h.uploads.Upload(c.Request().Context(), ports.UploadInput{
		Owner:       sess.User,
		Body:        f,
		Size:        fh.Size,
		FileName:    fh.Filename,
		Title:       form.Title,
		Description: form.Description,
		RawTags:     form.Tags,
		Category:    form.Category,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, uploadResponse{ID: res.ID, Key: res.Key, URL: res.URL})
}

// List handles GET /v1/videos.
//
// @Summary      List videos
// @Description  Admins see every video, other users only their own, newest first.
// @Tags         videos
// @Produce      json
// @Security     BearerAuth
// @Param        category  query     []string  false  "Category filter (repeat or comma-separate)"
// @Param        tags      query     string    false  "Comma-separated tags; all must match"
// @Param        q         query     string    false  "Case-insensitive search in title and description"
// @Success      200       {object}  listVideosResponse
// @Failure      401       {object}  errorResponse
// @Failure      502       {object}  errorResponse
// @Router       /v1/videos [get]
func (h *VideoHandler) List(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	q := toCatalogQuery(c.QueryParams()["category"], c.QueryParam("tags"), c.QueryParam("q"))
	res, err := h.catalog.List(c.Request().Context(), sess, q)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toListVideosResponse(res))
}

// Play handles POST /v1/videos/:id/plays.
//
// @Summary      Record a play
// @Tags         videos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Video id"
// @Success      201  {object}  playResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/videos/{id}/plays [post]
func (h *VideoHandler) Play(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	event, err := h.catalog.RecordPlay(c.Request().Context(), sess, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, playResponse{VideoID: event.VideoID, RecordedAt: event.CreatedAt})
}
