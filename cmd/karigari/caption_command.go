package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"karigari/internal/apierr"
	"karigari/internal/caption"
	"karigari/internal/lifecycle"
)

func newCaptionCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "caption <image>",
		Short: "Generate product captions for a photo",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
				return apierr.New(apierr.KindValidation, "Please select an image first.")
			}
			imagePath := args[0]

			client, err := ctx.client()
			if err != nil {
				return err
			}

			file, err := os.Open(imagePath)
			if err != nil {
				return fmt.Errorf("open image: %w", err)
			}
			defer file.Close()

			slot := lifecycle.NewSlot[caption.Bundle]("caption", ctx.log())
			slot.Start(cmd.Context(), func(opCtx context.Context) (caption.Bundle, error) {
				raw, err := client.CaptionImage(opCtx, filepath.Base(imagePath), file)
				if err != nil {
					return caption.Bundle{}, err
				}
				return caption.Parse(raw)
			})
			snap, err := slot.Await(cmd.Context())
			if err != nil {
				return err
			}
			if snap.Phase == lifecycle.PhaseError {
				return snap.Err
			}
			bundle := snap.Value

			if ctx.jsonOutput() {
				return writeJSON(cmd, bundle)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Tier", "Caption"},
				[][]string{
					{"Short", bundle.Captions.Short},
					{"Medium", bundle.Captions.Medium},
					{"Long", bundle.Captions.Long},
				},
				[]columnAlignment{alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "Labels: %s\n", strings.Join(bundle.Analysis.Labels, ", "))
			return nil
		},
	}
}
