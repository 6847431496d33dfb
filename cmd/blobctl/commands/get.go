package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Get returns the get command, which writes an object's body to stdout.
func Get(a *app) *cobra.Command {
	var bucket, key string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Print an object's body",
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, found, err := a.client.RetrieveFile(a.ctx(cmd), bucket, key)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("object %q not found in bucket %q", key, nameOr(bucket, a.cfg.Bucket))
			}
			_, err = cmd.OutOrStdout().Write(file.Body)
			return err
		},
	}

	cmd.Flags().StringVarP(&bucket, "bucket", "b", "", "Bucket name (defaults to the configured bucket)")
	cmd.Flags().StringVarP(&key, "key", "k", "", "Object key (required)")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}
