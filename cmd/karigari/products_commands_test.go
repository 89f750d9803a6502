package main

import (
	"net/http"
	"testing"
)

func TestProductsListRendersCatalog(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/products/products", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"products":[
			{"id":1,"product_name":"blue pottery vase","description":"Jaipur blue pottery","price":"1200","image_url":"nan"},
			{"id":2,"product_name":"brass diya","description":"Hand-cast brass lamp","price":450,"image_url":"https://cdn.example.com/diya.jpg"}
		]}`))
	})
	env := setupCLITestEnv(t, mux)

	out, _, err := runCLI(t, env, "products", "list")
	if err != nil {
		t.Fatalf("products list: %v", err)
	}
	// Names are title-cased for display, and "nan" image URLs become blanks.
	requireContains(t, out, "Blue Pottery Vase")
	requireContains(t, out, "Brass Diya")
	requireContains(t, out, "₹1200")
	requireContains(t, out, "https://cdn.example.com/diya.jpg")
}

func TestProductsAddSubmitsForm(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/products/products", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("artisan_id"); got != "42" {
			t.Errorf("artisan_id = %q", got)
		}
		if got := r.FormValue("product_name"); got != "blue pottery vase" {
			t.Errorf("product_name = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":7,"product_name":"blue pottery vase","description":"Jaipur blue pottery","price":"1200","image_url":"nan"}`))
	})
	env := setupCLITestEnv(t, mux)
	signIn(t, env, "42", "mira@example.com")

	out, _, err := runCLI(t, env,
		"products", "add",
		"--name", "blue pottery vase",
		"--description", "Jaipur blue pottery",
		"--price", "1200",
	)
	if err != nil {
		t.Fatalf("products add: %v", err)
	}
	requireContains(t, out, "Added Blue Pottery Vase")
	requireContains(t, out, "id 7")
}

func TestProductsAddRequiresLogin(t *testing.T) {
	env := setupCLITestEnv(t, nil)

	_, _, err := runCLI(t, env, "products", "add", "--name", "vase")
	if err == nil {
		t.Fatal("expected unauthenticated error")
	}
	requireContains(t, err.Error(), "Please login first.")
}
