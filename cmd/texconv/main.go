// Command texconv inspects and converts images the way the file browser's
// image viewer loads them.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "texconv",
		Short: "Inspect and convert images into GPU textures",
		Long: `texconv decodes BMP, GIF, JPEG and PNG images into the tiled RGBA8
texture layout used by the handheld's GPU.

Images must fit in 48 MiB and be smaller than 1024 pixels on each side.`,
		SilenceUsage: true,
	}
	root.AddCommand(infoCmd(), dumpCmd())
	return root
}
