package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/shaiso/Conveyor/internal/bundle"
)

// NewBundleCmd создаёт группу команд для сборки deployment-пакета.
func NewBundleCmd(outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Build deployment bundles",
	}

	cmd.AddCommand(newBundleBuildCmd(outputFn))

	return cmd
}

func newBundleBuildCmd(outputFn func() *Output) *cobra.Command {
	var sourceDir string
	var outputDir string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Package the application into a Windows deployment archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			builder := bundle.NewBuilder(bundle.Config{
				SourceDir: sourceDir,
				OutputDir: outputDir,
				Logger:    slog.Default(),
			})

			artifact, err := builder.Build(time.Now())
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Bundle built: %s (%d files)", artifact.ArchivePath, artifact.FileCount))
			if out.jsonMode {
				out.JSON(artifact)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceDir, "source", ".", "Application source directory")
	cmd.Flags().StringVar(&outputDir, "output", "dist", "Directory for staging and the archive")

	return cmd
}
