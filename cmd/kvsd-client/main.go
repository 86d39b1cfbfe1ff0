// Command kvsd-client sends a single Get, Set, or Rm request to a
// running kvsd server and prints the result.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arvindmehta/kvsd/internal/kvsclient"
	"github.com/arvindmehta/kvsd/internal/wire"
	"github.com/arvindmehta/kvsd/pkg/kvsoptions"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var addr string

	root := &cobra.Command{
		Use:           "kvsd-client",
		Short:         "Talk to a kvsd server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&addr, "addr", kvsoptions.DefaultAddr, "server address")

	root.AddCommand(
		newGetCmd(&addr),
		newSetCmd(&addr),
		newRmCmd(&addr),
	)
	return root
}

func newGetCmd(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Retrieve the value bound to a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := kvsclient.New(*addr).Get(args[0])
			if err != nil {
				return err
			}
			return printResponse(resp)
		},
	}
}

func newSetCmd(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a value under a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := kvsclient.New(*addr).Set(args[0], args[1])
			if err != nil {
				return err
			}
			return printResponse(resp)
		},
	}
}

func newRmCmd(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <key>",
		Short: "Delete the binding for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := kvsclient.New(*addr).Rm(args[0])
			if err != nil {
				return err
			}
			return printResponse(resp)
		},
	}
}

// printResponse writes a server response to stdout on Success or to
// stderr on Failure, returning a non-nil error on Failure so Execute
// exits the process non-zero. A Get of a missing key arrives as a
// Success carrying "Key not found" and is printed to stdout, matching
// the wire protocol's compatibility mapping rather than being
// re-interpreted here.
func printResponse(resp wire.Response) error {
	switch resp.Status {
	case wire.StatusSuccess:
		fmt.Println(string(resp.Message))
		return nil
	case wire.StatusFailure:
		fmt.Fprintln(os.Stderr, string(resp.Message))
		return fmt.Errorf("%s", resp.Message)
	default:
		return fmt.Errorf("unrecognized response status %v", resp.Status)
	}
}
