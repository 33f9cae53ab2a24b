package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dialogs/dialog-io-service/client"
	"github.com/spf13/cobra"
)

func newPingCommand() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "ping <message>",
		Short: "Send the message to the service and print the reply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {

				reply, err := c.Ping(ctx, args[0])
				if err != nil {
					return err
				}

				_, err = fmt.Fprintln(cmd.OutOrStdout(), reply)
				return err
			})
		},
	}

	addClientFlags(cmd)
	return cmd
}

func newReadCommand() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "read <path>",
		Short: "Print the content of the file on the service host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {

				content, err := c.ReadFile(ctx, args[0])
				if err != nil {
					return err
				}

				_, err = fmt.Fprint(cmd.OutOrStdout(), content)
				return err
			})
		},
	}

	addClientFlags(cmd)
	return cmd
}

func newWriteCommand() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "write <path> <content>",
		Short: "Write the content to the file on the service host",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {

				ok, err := c.WriteFile(ctx, args[0], args[1])
				if err != nil {
					return err
				}

				_, err = fmt.Fprintln(cmd.OutOrStdout(), ok)
				return err
			})
		},
	}

	addClientFlags(cmd)
	return cmd
}

func addClientFlags(cmd *cobra.Command) {
	cmd.Flags().String(FlagAddr, "", "service address (default node.host:port from the config)")
	cmd.Flags().Duration(FlagTimeout, 10*time.Second, "call timeout")
}

func withClient(cmd *cobra.Command, fn func(ctx context.Context, c *client.Client) error) error {

	flags := cmd.Flags()

	addr, err := flags.GetString(FlagAddr)
	if err != nil {
		return err
	}

	if addr == "" {
		cfg, err := loadConfig(flags)
		if err != nil {
			return err
		}
		addr = defaultAddr(cfg)
	}

	timeout, err := flags.GetDuration(FlagTimeout)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	c, err := client.Dial(ctx, addr)
	if err != nil {
		return err
	}
	defer c.Close()

	return fn(ctx, c)
}
