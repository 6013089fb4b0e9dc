package services_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bencao/herbquiz/internal/content"
	"github.com/bencao/herbquiz/internal/services"
)

func newContentFixture(t *testing.T, handler http.HandlerFunc) services.ContentService {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	client := content.New(content.Config{
		APIBase: ts.URL,
		Repo:    "owner/herbdata",
		Branch:  "main",
		Token:   "tok",
	})
	return services.NewContentService(client)
}

func TestContentService_Document(t *testing.T) {
	svc := newContentFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/owner/herbdata/contents/data/herbs.json", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{
			"content": base64.StdEncoding.EncodeToString([]byte(`[]`)),
			"sha":     "v1",
		})
	})

	doc, err := svc.Document(context.Background(), services.DocHerbs)
	require.NoError(t, err)
	assert.Equal(t, "v1", doc.Version)
}

func TestContentService_UnknownDocument(t *testing.T) {
	svc := newContentFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for an unknown document")
	})

	_, err := svc.Document(context.Background(), "recipes")
	assertServiceCode(t, err, "NOT_FOUND")
}

func TestContentService_SaveRequiresVersion(t *testing.T) {
	svc := newContentFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected without a version token")
	})

	_, err := svc.SaveDocument(context.Background(), services.DocHerbs, []byte(`[]`), "", "")
	assertServiceCode(t, err, "VALIDATION_ERROR")
}

func TestContentService_SaveValidatesPayloadShape(t *testing.T) {
	svc := newContentFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for an invalid payload")
	})
	ctx := context.Background()

	_, err := svc.SaveDocument(ctx, services.DocHerbs, []byte(`{"not":"an array"}`), "v1", "")
	assertServiceCode(t, err, "VALIDATION_ERROR")

	_, err = svc.SaveDocument(ctx, services.DocHerbs, []byte(`[{"id":1},{"id":1}]`), "v1", "")
	assertServiceCode(t, err, "VALIDATION_ERROR")

	_, err = svc.SaveDocument(ctx, services.DocCategories, []byte(`[1,2,3]`), "v1", "")
	assertServiceCode(t, err, "VALIDATION_ERROR")
}

func TestContentService_SaveDocument(t *testing.T) {
	svc := newContentFixture(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "v1", body["sha"])
		json.NewEncoder(w).Encode(map[string]any{
			"content": map[string]string{"sha": "v2"},
		})
	})

	version, err := svc.SaveDocument(context.Background(), services.DocHerbs, []byte(`[{"id":1}]`), "v1", "add herb")
	require.NoError(t, err)
	assert.Equal(t, "v2", version)
}

func TestContentService_SaveStaleVersion(t *testing.T) {
	svc := newContentFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})

	_, err := svc.SaveDocument(context.Background(), services.DocHerbs, []byte(`[]`), "stale", "")
	assertServiceCode(t, err, "CONFLICT")
}

func TestContentService_UploadImageRejectsEmpty(t *testing.T) {
	svc := newContentFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for an empty upload")
	})

	_, err := svc.UploadImage(context.Background(), nil)
	assertServiceCode(t, err, "VALIDATION_ERROR")
}
