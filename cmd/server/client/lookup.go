package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/KirkDiggler/xwing-api/internal/errors"
	"github.com/KirkDiggler/xwing-api/internal/handlers/xwing/v1alpha1"
)

var (
	jsonOutput bool
	channel    bool
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [query...]",
	Short: "Look up cards on the server",
	Long: `Send a lookup to the server and print the reply.

By default the arguments are the query itself, as in a direct message.
With --channel they are treated as a channel message and only text inside
[[...]] is looked up.`,
	Example: `  xwing-api client lookup fcs
  xwing-api client lookup ":title: <= 6"
  xwing-api client lookup --channel "anyone run [[krennic]]?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	lookupCmd.Flags().BoolVar(&channel, "channel", false, "Only look up text inside [[...]]")
}

func runLookup(cmd *cobra.Command, args []string) error {
	client, cleanup, err := createLookupClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	if !channel {
		ctx = metadata.AppendToOutgoingContext(ctx, v1alpha1.MetadataDirect, "true")
	}

	resp, err := client.LookupCards(ctx, wrapperspb.String(strings.Join(args, " ")))
	if err != nil {
		return lookupError(err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		marshaler := protojson.MarshalOptions{Indent: "  "}
		jsonBytes, err := marshaler.Marshal(resp)
		if err != nil {
			return fmt.Errorf("failed to marshal response to JSON: %w", err)
		}
		fmt.Fprintln(out, string(jsonBytes))
		return nil
	}

	reply := v1alpha1.ReplyFromStruct(resp)
	if len(reply.Lines) == 0 {
		fmt.Fprintln(out, "No cards found.")
		return nil
	}
	for _, line := range reply.Lines {
		fmt.Fprintln(out, line)
	}
	return nil
}

// lookupError converts a server status back into an error carrying its code
// and metadata.
func lookupError(err error) error {
	err = errors.FromGRPCError(err)
	switch {
	case errors.IsResourceExhausted(err):
		return errors.Wrap(err, "server is rate limiting lookups, try again shortly")
	case errors.IsUnavailable(err):
		return errors.Wrap(err, "server is still loading card data")
	}
	return errors.Wrap(err, "failed to look up cards")
}
