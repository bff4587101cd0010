package upload

import (
	"fmt"

	"github.com/spf13/cobra"
	"whisper-web/internal/app/util/files"
	"whisper-web/internal/client"
)

var (
	serverURL string
	outputDir string
	progress  bool
)

// Cmd represents the upload command
var Cmd = &cobra.Command{
	Use:   "upload <file>...",
	Short: "Send local audio files to a running server and save the transcripts",
	Long: `Send each file to the /transcribe endpoint of a running whisper-web server
and write the returned transcription_<name>.txt into the output directory.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			if !files.HasAllowedExtension(path) {
				return fmt.Errorf("%s: unsupported format, expected one of %v", path, files.AllowedExtensions)
			}
		}

		uploader := client.NewUploader(serverURL, nil, client.ProgressConfig{
			Enabled: client.ShouldShowProgress(progress),
			Writer:  cmd.ErrOrStderr(),
		})

		for _, path := range args {
			written, err := uploader.Upload(cmd.Context(), path, outputDir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), written)
		}
		return nil
	},
}

func init() {
	Cmd.Flags().StringVarP(&serverURL, "server", "s", "http://localhost:8080", "base URL of the whisper-web server")
	Cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "directory for transcripts")
	Cmd.Flags().BoolVar(&progress, "progress", false, "force the progress bar even when stderr is not a terminal")
}
