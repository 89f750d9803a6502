package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// Product is one catalog entry as the backend reports it.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       string
	ImageURL    string
}

type productPayload struct {
	ID          stringOrNumber `json:"id"`
	Name        string         `json:"product_name"`
	Description string         `json:"description"`
	Price       stringOrNumber `json:"price"`
	ImageURL    string         `json:"image_url"`
}

func (p productPayload) toProduct() Product {
	imageURL := strings.TrimSpace(p.ImageURL)
	// The backend stores missing images as the literal string "nan".
	if strings.EqualFold(imageURL, "nan") {
		imageURL = ""
	}
	return Product{
		ID:          string(p.ID),
		Name:        strings.TrimSpace(p.Name),
		Description: strings.TrimSpace(p.Description),
		Price:       string(p.Price),
		ImageURL:    imageURL,
	}
}

// ListProducts fetches the catalog snapshot in backend order.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/products/products", nil)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	var payload struct {
		Products []productPayload `json:"products"`
	}
	if err := c.do(req, &payload); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	products := make([]Product, 0, len(payload.Products))
	for _, p := range payload.Products {
		products = append(products, p.toProduct())
	}
	return products, nil
}

// AddProductParams carries a new product submission. Image is optional.
type AddProductParams struct {
	ArtisanID   string
	Name        string
	Description string
	Price       string
	ImageName   string
	Image       io.Reader
}

// AddProduct creates a catalog entry and returns the backend's record of it.
// The returned record is reported as-is; it is not reconciled against a later
// catalog listing.
func (c *Client) AddProduct(ctx context.Context, params AddProductParams) (Product, error) {
	if strings.TrimSpace(params.ArtisanID) == "" {
		return Product{}, errors.New("add product: artisan id required")
	}
	if strings.TrimSpace(params.Name) == "" {
		return Product{}, errors.New("add product: product name required")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	fields := map[string]string{
		"artisan_id":   strings.TrimSpace(params.ArtisanID),
		"product_name": strings.TrimSpace(params.Name),
		"description":  strings.TrimSpace(params.Description),
		"price":        strings.TrimSpace(params.Price),
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return Product{}, fmt.Errorf("add product: build form: %w", err)
		}
	}
	if params.Image != nil {
		filename := strings.TrimSpace(params.ImageName)
		if filename == "" {
			filename = "image"
		}
		part, err := writer.CreateFormFile("image", filename)
		if err != nil {
			return Product{}, fmt.Errorf("add product: build form: %w", err)
		}
		if _, err := io.Copy(part, params.Image); err != nil {
			return Product{}, fmt.Errorf("add product: read image: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return Product{}, fmt.Errorf("add product: finish form: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/products/products", &body)
	if err != nil {
		return Product{}, fmt.Errorf("add product: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var payload productPayload
	if err := c.do(req, &payload); err != nil {
		return Product{}, fmt.Errorf("add product: %w", err)
	}
	return payload.toProduct(), nil
}
