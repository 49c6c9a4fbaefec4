package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vidshare/vidshare/internal/core/domain"
	"github.com/vidshare/vidshare/internal/core/ports"
)

func multipartRequest(t *testing.T, fields map[string]string, fileName string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/videos", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestVideoHandler_Upload_Success(t *testing.T) {
	content := []byte("fake mp4 bytes")
	uploads := &stubUploadService{
		uploadFn: func(ctx context.Context, in ports.UploadInput) (*ports.UploadResult, error) {
			if in.Owner.ID != "u1" || in.FileName != "clip.mp4" || in.Size != int64(len(content)) {
				t.Fatalf("unexpected input: %+v", in)
			}
			if in.Title != "Intro" || in.RawTags != "go, intro" || in.Category != "Tutorial" {
				t.Fatalf("unexpected form fields: %+v", in)
			}
			body, err := io.ReadAll(in.Body)
			if err != nil || !bytes.Equal(body, content) {
				t.Fatalf("unexpected body %q (%v)", body, err)
			}
			return &ports.UploadResult{ID: "v1", Key: "u1/clip.mp4", URL: "https://cdn.example.test/objects/videos/u1/clip.mp4"}, nil
		},
	}
	req := multipartRequest(t, map[string]string{"title": "Intro", "tags": "go, intro", "category": "Tutorial"}, "clip.mp4", content)
	c, rec := newContext(req)
	withSession(c, "u1", false)

	if err := NewVideoHandler(uploads, nil).Upload(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp uploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != "v1" || resp.Key != "u1/clip.mp4" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestVideoHandler_Upload_MissingFile(t *testing.T) {
	uploads := &stubUploadService{
		uploadFn: func(ctx context.Context, in ports.UploadInput) (*ports.UploadResult, error) {
			mustNotCall(t)
			return nil, nil
		},
	}
	c, _ := newContext(multipartRequest(t, map[string]string{"title": "x"}, "", nil))
	withSession(c, "u1", false)

	err := NewVideoHandler(uploads, nil).Upload(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestVideoHandler_Upload_UnknownCategory(t *testing.T) {
	uploads := &stubUploadService{
		uploadFn: func(ctx context.Context, in ports.UploadInput) (*ports.UploadResult, error) {
			mustNotCall(t)
			return nil, nil
		},
	}
	c, _ := newContext(multipartRequest(t, map[string]string{"category": "Horror"}, "clip.mp4", []byte("x")))
	withSession(c, "u1", false)

	err := NewVideoHandler(uploads, nil).Upload(c)
	if domain.KindOf(err) != domain.KindInvalidInput {
		t.Fatalf("expected invalid_input, got %v", err)
	}
}

func TestVideoHandler_Upload_ServiceErrorPassesThrough(t *testing.T) {
	uploads := &stubUploadService{
		uploadFn: func(ctx context.Context, in ports.UploadInput) (*ports.UploadResult, error) {
			return nil, &domain.InsertRejectedError{Status: http.StatusForbidden, Body: `{"message":"denied"}`}
		},
	}
	c, _ := newContext(multipartRequest(t, nil, "clip.mp4", []byte("x")))
	withSession(c, "u1", false)

	err := NewVideoHandler(uploads, nil).Upload(c)
	if !errors.Is(err, domain.ErrInsertRejected) {
		t.Fatalf("expected ErrInsertRejected, got %v", err)
	}
}

func TestVideoHandler_List(t *testing.T) {
	created := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	catalog := &stubCatalogService{
		listFn: func(ctx context.Context, sess *domain.Session, q ports.CatalogQuery) (*ports.CatalogResult, error) {
			if sess.User.ID != "u1" {
				t.Fatalf("unexpected session %+v", sess)
			}
			want := ports.CatalogQuery{Categories: []string{"Education", "Tutorial", "Other"}, RawTags: "go,intro", Search: "basics"}
			if !reflect.DeepEqual(q, want) {
				t.Fatalf("unexpected query %+v, want %+v", q, want)
			}
			return &ports.CatalogResult{
				Items:      []domain.VideoRecord{{ID: "v1", UserID: "u1", Title: "Basics", Category: "Education", CreatedAt: created}},
				Categories: []string{"Education"},
				Total:      1,
			}, nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/v1/videos?category=Education&category=Tutorial,%20Other&tags=go,intro&q=%20basics%20", nil)
	c, rec := newContext(req)
	withSession(c, "u1", false)

	if err := NewVideoHandler(nil, catalog).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp listVideosResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Total != 1 || len(resp.Items) != 1 || resp.Items[0].ID != "v1" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Items[0].Tags == nil {
		t.Fatalf("expected empty tags array, got null")
	}
}

func TestVideoHandler_List_NoSession(t *testing.T) {
	catalog := &stubCatalogService{
		listFn: func(ctx context.Context, sess *domain.Session, q ports.CatalogQuery) (*ports.CatalogResult, error) {
			mustNotCall(t)
			return nil, nil
		},
	}
	c, _ := newContext(httptest.NewRequest(http.MethodGet, "/v1/videos", nil))

	err := NewVideoHandler(nil, catalog).List(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestVideoHandler_Play(t *testing.T) {
	at := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	catalog := &stubCatalogService{
		playFn: func(ctx context.Context, sess *domain.Session, videoID string) (*domain.ViewEvent, error) {
			if videoID != "v1" {
				t.Fatalf("unexpected video id %q", videoID)
			}
			return &domain.ViewEvent{UserID: sess.User.ID, VideoID: videoID, CreatedAt: at}, nil
		},
	}
	c, rec := newContext(httptest.NewRequest(http.MethodPost, "/v1/videos/v1/plays", nil))
	c.SetParamNames("id")
	c.SetParamValues("v1")
	withSession(c, "u1", false)

	if err := NewVideoHandler(nil, catalog).Play(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp playResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.VideoID != "v1" || !resp.RecordedAt.Equal(at) {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestVideoHandler_Play_Forbidden(t *testing.T) {
	catalog := &stubCatalogService{
		playFn: func(ctx context.Context, sess *domain.Session, videoID string) (*domain.ViewEvent, error) {
			return nil, domain.ErrForbidden
		},
	}
	c, _ := newContext(httptest.NewRequest(http.MethodPost, "/v1/videos/v9/plays", nil))
	c.SetParamNames("id")
	c.SetParamValues("v9")
	withSession(c, "u1", false)

	if err := NewVideoHandler(nil, catalog).Play(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
