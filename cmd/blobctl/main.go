// Package main is the entry point for the blobctl CLI.
//
// blobctl uploads, appends to, and retrieves files in an S3-compatible
// bucket. Credentials and the default bucket come from the environment
// (AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, S3_BUCKET) or a YAML file.
//
// Commands: upload, get, bucket.
//
//	blobctl --help
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/koustreak/blobappend/cmd/blobctl/commands"
)

func main() {
	if err := commands.Root().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
