package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"audio2pdf/cmd/a2p/cmd/config"
	"audio2pdf/cmd/a2p/cmd/convert"
	"audio2pdf/cmd/a2p/cmd/serve"
	"audio2pdf/cmd/a2p/cmd/shared"
	"audio2pdf/cmd/a2p/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "a2p",
	Short: "Transcribe audio recordings into downloadable PDF documents",
	Long: `Transcribe audio recordings into downloadable PDF documents.
- Upload a wav or mp3 clip through the web page or the REST API (a2p serve)
- Or convert a local file directly (a2p convert -i clip.wav)
- The transcript is rendered into a PDF and offered as a base64 download link`,
	TraverseChildren: true,
	SilenceUsage:     true,
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
	rootCmd.AddCommand(config.Cmd)
	rootCmd.AddCommand(convert.Cmd)
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolVarP(&shared.Verbose, "verbose", "V", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&shared.ConfigPath, "config", "c", "",
		"config file (default is $A2P_CONFIG or ./a2p.yaml)")
}
