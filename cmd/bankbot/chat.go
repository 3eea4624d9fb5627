package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	contractx "bankbot/bot/contract"
	"bankbot/server"
)

var chatDemo bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant from the terminal",
	Long: `An interactive session against the dialogue engine. Each run gets a
fresh session id; "cancel", "stop" and "exit" abort the running flow
inside the conversation, /quit or Ctrl-D leaves the session.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		rt, err := buildRuntime(ctx, chatDemo)
		if err != nil {
			return err
		}
		defer rt.Close()

		sessionID := uuid.NewString()
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "Hello! I'm your virtual banking assistant. How can I help you today?")
		fmt.Fprintln(out, `(type /quit or press Ctrl-D to leave)`)
		if chatDemo {
			fmt.Fprintln(out, "Demo accounts: Alice 12345, Bob 67890, Charlie 44556.")
		}

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Fprint(out, "you> ")
			if !scanner.Scan() {
				fmt.Fprintln(out)
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "/quit" {
				break
			}

			reply, err := rt.engine.HandleMessage(ctx, sessionID, line)
			if err != nil {
				rt.log.Error().Err(err).Msg("turn failed")
				fmt.Fprintln(out, "bot> ⚠️ System error occurred. Please try again.")
				continue
			}

			switch reply.Kind {
			case contractx.ReplyDefer:
				fmt.Fprintln(out, "bot>", server.AnswerDeferred(ctx, rt.responder, line))
			case contractx.ReplyError:
				fmt.Fprintln(out, "bot> ⚠️", reply.Text)
			default:
				fmt.Fprintln(out, "bot>", reply.Text)
			}
		}
		return scanner.Err()
	},
}

func init() {
	chatCmd.Flags().BoolVar(&chatDemo, "demo", false, "use in-memory stores seeded with demo accounts")
	rootCmd.AddCommand(chatCmd)
}
