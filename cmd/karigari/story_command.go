package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"karigari/internal/apierr"
	"karigari/internal/backend"
	"karigari/internal/lifecycle"
	"karigari/internal/logging"
	"karigari/internal/media"
	"karigari/internal/playback"
)

// Suggested prompts shown alongside the generator in the web app.
var popularPrompts = []string{
	"A lost city found in the Himalayas",
	"The diary of a time-traveling artist",
	"A friendly robot who wants to learn painting",
	"A story about a magical spice market",
}

func newStoryCommand(ctx *commandContext) *cobra.Command {
	var preset int
	var play bool
	var keepClip bool

	cmd := &cobra.Command{
		Use:   "story [prompt]",
		Short: "Generate and narrate a story about your craft",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := ""
			if len(args) > 0 {
				prompt = strings.TrimSpace(args[0])
			}
			if preset > 0 {
				if preset > len(popularPrompts) {
					return apierr.Newf(apierr.KindValidation, "Preset must be between 1 and %d.", len(popularPrompts))
				}
				prompt = popularPrompts[preset-1]
			}
			if prompt == "" {
				return apierr.New(apierr.KindValidation, "Please enter a message describing the story.")
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
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			slot := lifecycle.NewSlot[backend.Story]("story", ctx.log())
			slot.Start(cmd.Context(), func(opCtx context.Context) (backend.Story, error) {
				return client.GenerateStory(opCtx, session.UserID, prompt)
			})
			snap, err := slot.Await(cmd.Context())
			if err != nil {
				return err
			}
			if snap.Phase == lifecycle.PhaseError {
				return snap.Err
			}
			story := snap.Value

			clipPath := ""
			if story.Audio != "" && (play || keepClip) {
				clipPath, err = media.WriteClip(filepath.Join(cfg.Paths.StateDir, "clips"), story.Audio)
				if err != nil {
					return err
				}
			}

			if archive, err := ctx.openHistory(); err == nil && archive != nil {
				defer archive.Close()
				if _, err := archive.SaveStory(cmd.Context(), session.UserID, prompt, story.Text, clipPath); err != nil {
					ctx.log().Warn("archive story failed", logging.FieldUserID, session.UserID, "error", err)
				}
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]string{
					"prompt": prompt,
					"story":  story.Text,
					"clip":   clipPath,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, story.Text)
			if clipPath != "" {
				fmt.Fprintf(out, "\nNarration saved to %s\n", clipPath)
			}
			if play {
				if clipPath == "" {
					fmt.Fprintln(out, "No narration audio was returned.")
					return nil
				}
				return playClip(cmd, ctx, clipPath)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&preset, "preset", 0, "Use one of the popular prompts (see 'story prompts')")
	cmd.Flags().BoolVar(&play, "play", false, "Play the narration after generating")
	cmd.Flags().BoolVar(&keepClip, "save-audio", false, "Keep the narration clip even without --play")

	cmd.AddCommand(newStoryPromptsCommand(ctx))
	return cmd
}

func newStoryPromptsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prompts",
		Short: "List the popular story prompts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if ctx.jsonOutput() {
				return writeJSON(cmd, popularPrompts)
			}
			rows := make([][]string, 0, len(popularPrompts))
			for i, prompt := range popularPrompts {
				rows = append(rows, []string{fmt.Sprintf("%d", i+1), prompt})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"#", "Prompt"},
				rows,
				[]columnAlignment{alignRight, alignLeft},
			))
			return nil
		},
	}
}

// playClip narrates the clip through ffplay, rendering a progress clock on
// interactive terminals, and returns once playback finishes.
func playClip(cmd *cobra.Command, ctx *commandContext, path string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	duration, err := media.ProbeDuration(cmd.Context(), cfg.Playback.FFprobeBinary, path)
	if err != nil {
		return err
	}

	controller := playback.NewController()
	player := media.NewPlayer(cfg.Playback.FFplayBinary, path, duration)
	controller.Attach(player)
	defer controller.Detach()

	if err := controller.TogglePlay(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	interactive := isTerminal(out)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		case <-ticker.C:
			status := controller.Snapshot()
			if interactive {
				fmt.Fprintf(out, "\rPlaying %s / %s ",
					playback.FormatClock(status.Current),
					playback.FormatClock(status.Duration))
			}
			if !status.Playing {
				if interactive {
					fmt.Fprintln(out)
				}
				return nil
			}
		}
	}
}
