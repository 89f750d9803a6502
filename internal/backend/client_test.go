package backend_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"karigari/internal/apierr"
	"karigari/internal/backend"
	"karigari/internal/testsupport"
)

func newClient(t *testing.T, server *httptest.Server) *backend.Client {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithBaseURL(server.URL))
	return backend.NewClient(backend.Config{
		BaseURL:        cfg.API.BaseURL,
		TimeoutSeconds: cfg.API.TimeoutSeconds,
	})
}

func TestLoginSuccessCarriesUserID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/login" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("email"); got != "maya@example.com" {
			t.Fatalf("unexpected email param %q", got)
		}
		if got := r.URL.Query().Get("password"); got != "secret" {
			t.Fatalf("unexpected password param %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "ok", "user_id": "u1"})
	}))
	defer server.Close()

	result, err := newClient(t, server).Login(context.Background(), "maya@example.com", "secret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.UserID != "u1" || result.Message != "ok" {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestLoginServerErrorCarriesDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid credentials"})
	}))
	defer server.Close()

	_, err := newClient(t, server).Login(context.Background(), "maya@example.com", "wrong")
	if err == nil {
		t.Fatal("expected login failure")
	}
	info := apierr.Normalize(err)
	if info.Kind != apierr.KindServer || info.Message != "Invalid credentials" {
		t.Fatalf("unexpected normalization: %#v", info)
	}
}

func TestLoginNonStringDetailFallsThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"detail": []map[string]string{{"loc": "email", "msg": "field required"}},
		})
	}))
	defer server.Close()

	_, err := newClient(t, server).Login(context.Background(), "maya@example.com", "pw")
	if err == nil {
		t.Fatal("expected login failure")
	}
	var status *apierr.StatusError
	if !errors.As(err, &status) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if status.Detail != "" {
		t.Fatalf("non-string detail must be dropped, got %q", status.Detail)
	}
}

func TestRegisterSendsProfileParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		for _, key := range []string{"name", "email", "password", "craft", "experience", "location"} {
			if query.Get(key) == "" {
				t.Fatalf("missing %s param", key)
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "registered"})
	}))
	defer server.Close()

	message, err := newClient(t, server).Register(context.Background(), backend.Registration{
		Name:       "Maya",
		Email:      "maya@example.com",
		Password:   "secret",
		Craft:      "pottery",
		Experience: "8 years",
		Location:   "Jaipur",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if message != "registered" {
		t.Fatalf("unexpected message %q", message)
	}
}

func TestChatPostsMessageAsQueryParam(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chats/u1" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("message"); got != "hello" {
			t.Fatalf("unexpected message param %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"reply": "namaste"})
	}))
	defer server.Close()

	reply, err := newClient(t, server).Chat(context.Background(), "u1", "hello")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if reply != "namaste" {
		t.Fatalf("unexpected reply %q", reply)
	}
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	client := backend.NewClient(backend.Config{BaseURL: "http://localhost:0"})
	if _, err := client.Chat(context.Background(), "u1", "   "); err == nil {
		t.Fatal("expected validation error for empty message")
	}
}

func TestGenerateStoryUsesFormEncoding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/voice/generate-story" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Content-Type"); got != "application/x-www-form-urlencoded" {
			t.Fatalf("unexpected content type %q", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostFormValue("user_id") != "u1" || r.PostFormValue("message") == "" {
			t.Fatalf("unexpected form values: %v", r.PostForm)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"story_text":  "Once upon a loom...",
			"story_audio": "QUJD",
		})
	}))
	defer server.Close()

	story, err := newClient(t, server).GenerateStory(context.Background(), "u1", "a magical spice market")
	if err != nil {
		t.Fatalf("GenerateStory failed: %v", err)
	}
	if story.Text == "" || story.Audio != "QUJD" {
		t.Fatalf("unexpected story: %#v", story)
	}
}

func TestCaptionImageUploadsMultipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/caption/image-caption" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("missing image part: %v", err)
		}
		defer file.Close()
		if header.Filename != "vase.jpg" {
			t.Fatalf("unexpected filename %q", header.Filename)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"raw_output": "```json\n{}\n```"})
	}))
	defer server.Close()

	raw, err := newClient(t, server).CaptionImage(context.Background(), "vase.jpg", strings.NewReader("fake-image-bytes"))
	if err != nil {
		t.Fatalf("CaptionImage failed: %v", err)
	}
	if !strings.Contains(raw, "```json") {
		t.Fatalf("unexpected raw output %q", raw)
	}
}

func TestListProductsNormalizesNanImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/products/products" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"products": []map[string]any{
				{"id": 7, "product_name": "Blue Vase", "description": "Hand painted", "price": 450, "image_url": "nan"},
				{"id": "p-2", "product_name": "Silk Scarf", "price": "1200.50", "image_url": "https://cdn.example.com/scarf.jpg"},
			},
		})
	}))
	defer server.Close()

	products, err := newClient(t, server).ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].ID != "7" || products[0].ImageURL != "" {
		t.Fatalf("unexpected first product: %#v", products[0])
	}
	if products[1].Price != "1200.50" || products[1].ImageURL == "" {
		t.Fatalf("unexpected second product: %#v", products[1])
	}
}

func TestAddProductSubmitsMultipartFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/products/products" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		for _, key := range []string{"artisan_id", "product_name", "description", "price"} {
			if r.FormValue(key) == "" {
				t.Fatalf("missing %s field", key)
			}
		}
		if _, _, err := r.FormFile("image"); err != nil {
			t.Fatalf("missing image part: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": 11, "product_name": "Clay Pot", "description": "Terracotta", "price": 300,
		})
	}))
	defer server.Close()

	product, err := newClient(t, server).AddProduct(context.Background(), backend.AddProductParams{
		ArtisanID:   "u1",
		Name:        "Clay Pot",
		Description: "Terracotta",
		Price:       "300",
		ImageName:   "pot.jpg",
		Image:       strings.NewReader("fake-image-bytes"),
	})
	if err != nil {
		t.Fatalf("AddProduct failed: %v", err)
	}
	if product.ID != "11" || product.Name != "Clay Pot" {
		t.Fatalf("unexpected product: %#v", product)
	}
}

func TestTransportFailureNormalizesToNetwork(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	_, err := newClient(t, server).ListProducts(context.Background())
	if err == nil {
		t.Fatal("expected transport failure")
	}
	if info := apierr.Normalize(err); info.Kind != apierr.KindNetwork {
		t.Fatalf("expected network kind, got %s (%q)", info.Kind, info.Message)
	}
}
