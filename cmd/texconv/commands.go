package main

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/Helaas/nextui-files-pak/internal/filekind"
	"github.com/Helaas/nextui-files-pak/internal/texture"
)

var (
	boldStyle  = lipgloss.NewStyle().Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func newTable(cmd *cobra.Command, headers ...interface{}) table.Table {
	tbl := table.New(headers...)
	tbl.WithWriter(cmd.OutOrStdout())
	tbl.WithFirstColumnFormatter(func(format string, vals ...interface{}) string {
		return boldStyle.Render(fmt.Sprintf(format, vals...))
	})
	tbl.WithPadding(2)
	tbl.WithWidthFunc(lipgloss.Width)
	return tbl
}

func newLoader(cmd *cobra.Command) *texture.Loader {
	l := texture.NewLoader()
	if mb, _ := cmd.Flags().GetInt64("max-mb"); mb > 0 {
		l.MaxBytes = mb << 20
	}
	return l
}

func infoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <image>...",
		Short: "Show how images load as textures",
		Long: `Decode each image and print its size, the power-of-two texture it is
placed in and the UV rectangle of the visible area.

Images that fail to load are listed with the reason.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runInfo,
	}
	cmd.Flags().Int64("max-mb", 0, "override the 48 MiB file size limit")
	return cmd
}

func runInfo(cmd *cobra.Command, args []string) error {
	loader := newLoader(cmd)
	tbl := newTable(cmd, "FILE", "TYPE", "SIZE", "TEXTURE", "UV", "MEMORY")

	failed := 0
	for _, path := range args {
		name := filepath.Base(path)
		kind := texture.Classify(path).String()
		tex, err := loader.Load(path)
		if err != nil {
			failed++
			tbl.AddRow(name, kind, errorStyle.Render(err.Error()), "", "", "")
			continue
		}
		tbl.AddRow(name, kind,
			fmt.Sprintf("%dx%d", tex.Width, tex.Height),
			fmt.Sprintf("%dx%d", tex.PowWidth, tex.PowHeight),
			fmt.Sprintf("%.3f,%.3f %.3f,%.3f", tex.Sub.Left, tex.Sub.Top, tex.Sub.Right, tex.Sub.Bottom),
			filekind.SizeString(uint64(len(tex.Data))),
		)
	}
	tbl.Print()

	if failed > 0 {
		return fmt.Errorf("%d of %d images failed to load", failed, len(args))
	}
	return nil
}

func dumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <image>",
		Short: "Write the tiled texture buffer of an image",
		Long: `Decode an image and write its tiled ABGR texture buffer to a .bin file.

With --png the buffer is also untiled again and written as a PNG, which
should match the source image.`,
		Args: cobra.ExactArgs(1),
		RunE: runDump,
	}
	cmd.Flags().StringP("output", "o", "", "output file (default <image>.bin)")
	cmd.Flags().String("png", "", "also write the untiled texture as a PNG")
	cmd.Flags().Int64("max-mb", 0, "override the 48 MiB file size limit")
	return cmd
}

func runDump(cmd *cobra.Command, args []string) error {
	src := args[0]
	tex, err := newLoader(cmd).Load(src)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		out = strings.TrimSuffix(src, filepath.Ext(src)) + ".bin"
	}
	if err := os.WriteFile(out, tex.Data, 0o644); err != nil {
		return fmt.Errorf("writing texture: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %dx%d texture, %s\n",
		out, tex.PowWidth, tex.PowHeight, filekind.SizeString(uint64(len(tex.Data))))

	pngOut, _ := cmd.Flags().GetString("png")
	if pngOut == "" {
		return nil
	}
	f, err := os.Create(pngOut)
	if err != nil {
		return fmt.Errorf("creating png: %w", err)
	}
	if err := png.Encode(f, tex.Linear()); err != nil {
		f.Close()
		return fmt.Errorf("encoding png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing png: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %dx%d image\n", pngOut, tex.Width, tex.Height)
	return nil
}
