package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"karigari/internal/apierr"
	"karigari/internal/conversation"
	"karigari/internal/lifecycle"
	"karigari/internal/logging"
)

func newChatCommand(ctx *commandContext) *cobra.Command {
	var contextTurns int

	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Ask the artisan assistant a question",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := ""
			if len(args) > 0 {
				message = strings.TrimSpace(args[0])
			}
			if message == "" {
				return apierr.New(apierr.KindValidation, "Please enter a message.")
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

			// The transcript for this invocation starts from the archived
			// tail so the rendered exchange reads like the ongoing
			// conversation it belongs to.
			transcript := conversation.NewLog()
			archive, err := ctx.openHistory()
			if err != nil {
				return err
			}
			if archive != nil {
				defer archive.Close()
				if contextTurns > 0 {
					prior, err := archive.RecentTurns(cmd.Context(), session.UserID, contextTurns)
					if err != nil {
						return err
					}
					for _, turn := range prior {
						transcript.Append(turn)
					}
				}
			}

			// The user's turn lands in the transcript before the request
			// settles, mirroring how the exchange is displayed.
			userTurn := conversation.Turn{Speaker: conversation.SpeakerUser, Text: message}
			transcript.Append(userTurn)

			slot := lifecycle.NewSlot[string]("chat", ctx.log())
			slot.Start(cmd.Context(), func(opCtx context.Context) (string, error) {
				return client.Chat(opCtx, session.UserID, message)
			})
			snap, err := slot.Await(cmd.Context())
			if err != nil {
				return err
			}
			if snap.Phase == lifecycle.PhaseError {
				return snap.Err
			}

			reply := snap.Value
			transcript.Append(conversation.Turn{Speaker: conversation.SpeakerAssistant, Text: reply})

			if archive != nil {
				for _, turn := range []conversation.Turn{userTurn, {Speaker: conversation.SpeakerAssistant, Text: reply}} {
					if err := archive.AppendTurn(cmd.Context(), session.UserID, turn); err != nil {
						// The reply was already produced; archiving is best effort.
						ctx.log().Warn("archive chat turn failed", logging.FieldUserID, session.UserID, "error", err)
					}
				}
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]string{"reply": reply})
			}
			printTranscript(cmd, transcript.Turns())
			return nil
		},
	}

	cmd.Flags().IntVar(&contextTurns, "context", 0, "Show up to N archived turns before the new exchange")
	return cmd
}

func printTranscript(cmd *cobra.Command, turns []conversation.Turn) {
	out := cmd.OutOrStdout()
	for _, turn := range turns {
		label := "You"
		if turn.Speaker == conversation.SpeakerAssistant {
			label = "Assistant"
		}
		fmt.Fprintf(out, "%s: %s\n", label, turn.Text)
	}
}
