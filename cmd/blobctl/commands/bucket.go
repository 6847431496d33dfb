package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// BucketCmd returns the bucket command, which reports whether a bucket exists.
func BucketCmd(a *app) *cobra.Command {
	var bucket string

	cmd := &cobra.Command{
		Use:   "bucket",
		Short: "Look up a bucket",
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, found, err := a.client.RetrieveBucket(a.ctx(cmd), bucket)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("bucket %q not found", nameOr(bucket, a.cfg.Bucket))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", b.Name, b.Region, b.URL)
			return nil
		},
	}

	cmd.Flags().StringVarP(&bucket, "bucket", "b", "", "Bucket name (defaults to the configured bucket)")

	return cmd
}

func nameOr(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}
