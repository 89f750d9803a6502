package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"karigari/internal/apierr"
	"karigari/internal/backend"
	"karigari/internal/lifecycle"
)

var titleCaser = cases.Title(language.English)

func newProductsCommand(ctx *commandContext) *cobra.Command {
	productsCmd := &cobra.Command{
		Use:   "products",
		Short: "Browse and manage the product catalog",
	}

	productsCmd.AddCommand(newProductsListCommand(ctx))
	productsCmd.AddCommand(newProductsAddCommand(ctx))

	return productsCmd
}

func newProductsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog products",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}

			slot := lifecycle.NewSlot[[]backend.Product]("products", ctx.log())
			slot.Start(cmd.Context(), func(opCtx context.Context) ([]backend.Product, error) {
				return client.ListProducts(opCtx)
			})
			snap, err := slot.Await(cmd.Context())
			if err != nil {
				return err
			}
			if snap.Phase == lifecycle.PhaseError {
				return snap.Err
			}
			products := snap.Value

			if ctx.jsonOutput() {
				return writeJSON(cmd, products)
			}
			if len(products) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No products yet.")
				return nil
			}

			rows := make([][]string, 0, len(products))
			for _, p := range products {
				image := p.ImageURL
				if image == "" {
					image = "-"
				}
				rows = append(rows, []string{
					p.ID,
					titleCaser.String(p.Name),
					formatPrice(p.Price),
					p.Description,
					image,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Price", "Description", "Image"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func newProductsAddCommand(ctx *commandContext) *cobra.Command {
	var name string
	var description string
	var price string
	var imagePath string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product to the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			name = strings.TrimSpace(name)
			if name == "" {
				return apierr.New(apierr.KindValidation, "Product name is required.")
			}

			store, err := ctx.identityStore()
			if err != nil {
				return err
			}
			session, authErr := store.Require()
			if authErr != nil {
				return authErr
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}

			params := backend.AddProductParams{
				ArtisanID:   session.UserID,
				Name:        name,
				Description: description,
				Price:       price,
			}
			if imagePath != "" {
				file, err := os.Open(imagePath)
				if err != nil {
					return fmt.Errorf("open image: %w", err)
				}
				defer file.Close()
				params.Image = file
				params.ImageName = filepath.Base(imagePath)
			}

			slot := lifecycle.NewSlot[backend.Product]("product-add", ctx.log())
			slot.Start(cmd.Context(), func(opCtx context.Context) (backend.Product, error) {
				return client.AddProduct(opCtx, params)
			})
			snap, err := slot.Await(cmd.Context())
			if err != nil {
				return err
			}
			if snap.Phase == lifecycle.PhaseError {
				return snap.Err
			}
			product := snap.Value

			if ctx.jsonOutput() {
				return writeJSON(cmd, product)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s", titleCaser.String(product.Name))
			if product.ID != "" {
				fmt.Fprintf(cmd.OutOrStdout(), " (id %s)", product.ID)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Product name")
	cmd.Flags().StringVar(&description, "description", "", "Product description")
	cmd.Flags().StringVar(&price, "price", "", "Product price")
	cmd.Flags().StringVar(&imagePath, "image", "", "Path to a product photo")
	return cmd
}

func formatPrice(price string) string {
	price = strings.TrimSpace(price)
	if price == "" {
		return "-"
	}
	return "₹" + price
}
