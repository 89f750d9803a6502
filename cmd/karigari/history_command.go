package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"karigari/internal/apierr"
	"karigari/internal/history"
	"karigari/internal/identity"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the local chat and story archive",
	}

	historyCmd.AddCommand(newHistoryChatCommand(ctx))
	historyCmd.AddCommand(newHistoryStoriesCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))

	return historyCmd
}

func (c *commandContext) requireArchive() (*history.Store, identity.Session, error) {
	store, err := c.identityStore()
	if err != nil {
		return nil, identity.Session{}, err
	}
	session, authErr := store.Require()
	if authErr != nil {
		return nil, identity.Session{}, authErr
	}
	archive, err := c.openHistory()
	if err != nil {
		return nil, identity.Session{}, err
	}
	if archive == nil {
		return nil, identity.Session{}, apierr.New(apierr.KindValidation, "History is disabled in the configuration.")
	}
	return archive, session, nil
}

func newHistoryChatCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Show recent chat turns",
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, session, err := ctx.requireArchive()
			if err != nil {
				return err
			}
			defer archive.Close()

			turns, err := archive.RecentTurns(cmd.Context(), session.UserID, limit)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, turns)
			}
			if len(turns) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No chat history yet.")
				return nil
			}
			printTranscript(cmd, turns)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of turns to show")
	return cmd
}

func newHistoryStoriesCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "stories",
		Short: "Show archived stories",
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, session, err := ctx.requireArchive()
			if err != nil {
				return err
			}
			defer archive.Close()

			stories, err := archive.ListStories(cmd.Context(), session.UserID, limit)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, stories)
			}
			if len(stories) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No stories yet.")
				return nil
			}

			rows := make([][]string, 0, len(stories))
			for _, story := range stories {
				clip := "-"
				if story.AudioPath != "" {
					clip = story.AudioPath
				}
				rows = append(rows, []string{
					timestamp(story.CreatedAt),
					story.Prompt,
					clip,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Created", "Prompt", "Narration"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of stories to show")
	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the signed-in user's archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, session, err := ctx.requireArchive()
			if err != nil {
				return err
			}
			defer archive.Close()

			if err := archive.ClearUser(cmd.Context(), session.UserID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
			return nil
		},
	}
}
