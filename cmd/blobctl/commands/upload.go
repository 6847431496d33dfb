package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/koustreak/blobappend/internal/objectstore"
)

// Upload returns the upload command.
//
// Contents come from --data, --file, or stdin, in that order of preference.
// Without --overwrite the contents are appended to the existing object.
func Upload(a *app) *cobra.Command {
	var (
		bucket      string
		key         string
		data        string
		file        string
		overwrite   bool
		contentType string
	)

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Append to or overwrite an object",
		Long: `Upload writes contents to an object, creating it if needed.

By default the contents are appended to the object's current body.
Pass --overwrite to replace the body instead. The bucket must already
exist; it is never created.

Without --data or --file the contents are read from stdin until EOF, so
an interactive terminal waits for Ctrl-D.

Example:
  blobctl upload -b bucket1 -k greeting.txt --data hello --overwrite
  echo " world" | blobctl upload -b bucket1 -k greeting.txt`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			contents, err := readContents(cmd, data, file)
			if err != nil {
				return err
			}

			opts := []objectstore.UploadOption{objectstore.WithAppend(!overwrite)}
			if contentType != "" {
				opts = append(opts, objectstore.WithContentType(contentType))
			}

			ctx := a.ctx(cmd)
			stored, err := a.client.Upload(ctx, contents, bucket, key, opts...)
			if err != nil {
				a.log.ErrorWith("upload failed", err, map[string]any{"bucket": bucket, "key": key})
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d bytes\tetag %s\n", stored.URL, stored.Size, stored.ETag)
			return nil
		},
	}

	cmd.Flags().StringVarP(&bucket, "bucket", "b", "", "Bucket name (defaults to the configured bucket)")
	cmd.Flags().StringVarP(&key, "key", "k", "", "Object key (required)")
	cmd.Flags().StringVarP(&data, "data", "d", "", "Literal contents to upload")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read contents from this file (default: stdin)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace the object body instead of appending")
	cmd.Flags().StringVar(&contentType, "content-type", "", "Content type to store")
	_ = cmd.MarkFlagRequired("key")
	cmd.MarkFlagsMutuallyExclusive("data", "file")

	return cmd
}

func readContents(cmd *cobra.Command, data, file string) ([]byte, error) {
	switch {
	case cmd.Flags().Changed("data"):
		return []byte(data), nil
	case file != "":
		return os.ReadFile(file)
	default:
		return io.ReadAll(cmd.InOrStdin())
	}
}
