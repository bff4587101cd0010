package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"whisper-web/cmd/whisper-web/cmd/config"
	"whisper-web/cmd/whisper-web/cmd/flags"
	"whisper-web/cmd/whisper-web/cmd/serve"
	"whisper-web/cmd/whisper-web/cmd/upload"
	"whisper-web/cmd/whisper-web/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "whisper-web",
	Short: "A small web front-end that turns audio uploads into downloadable transcripts",
	Long: `whisper-web serves an upload page and a /transcribe endpoint.
- Upload an mp3, mp4, wav or m4a file (up to 26 MB by default)
- The file is sent once to the configured speech-to-text backend (OpenAI or Gemini)
- The transcript comes back as transcription_<name>.txt and nothing is kept on disk.`,
	SilenceUsage:     true,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(upload.Cmd)
	rootCmd.AddCommand(config.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().StringVarP(&flags.ConfigFile, "config", "c", "", "config file (default is ./whisper-web.yaml)")
	rootCmd.PersistentFlags().StringVar(&flags.EnvFile, "env-file", "", "dotenv file to load (default is ./.env)")
	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "V", false, "verbose output")
}
