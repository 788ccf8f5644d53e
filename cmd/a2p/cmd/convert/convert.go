package convert

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"audio2pdf/cmd/a2p/cmd/shared"
	"audio2pdf/internal/app"
	"audio2pdf/internal/app/api"
	"audio2pdf/internal/app/audio"
	"audio2pdf/internal/app/download"
	"audio2pdf/internal/app/pipeline"
	"audio2pdf/internal/app/util/files"
)

var (
	inputFile    string
	outputFile   string
	language     string
	printLink    bool
	verify       bool
	showProgress bool
)

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "wav or mp3 file to transcribe")
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "", "copy the generated PDF to this path")
	Cmd.Flags().StringVarP(&language, "language", "l", "", "two-letter language hint, overrides the configured language")
	Cmd.Flags().BoolVar(&printLink, "link", false, "print the base64 download anchor")
	Cmd.Flags().BoolVar(&verify, "verify", false, "check that the download link decodes to the PDF on disk")
	Cmd.Flags().BoolVar(&showProgress, "progress", false, "show the progress bar even when not attached to a terminal")

	Cmd.MarkFlagRequired("input")
}

// Cmd represents the convert command
var Cmd = &cobra.Command{
	Use:   "convert",
	Short: "Transcribe a local audio file into a PDF",
	Long: `Transcribe a local audio file into a PDF

- Stage the file in the scratch directory
- Send it to the configured transcription provider
- Render the transcript into a PDF and encode it as a download link
- Remove the scratch copy`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := shared.Bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		p, err := app.InitializePipeline(cfg, logger, nil)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if language != "" {
			ctx = api.WithLanguage(ctx, strings.ToLower(language))
		}

		f, err := os.Open(inputFile)
		if err != nil {
			return err
		}
		defer f.Close()

		upload, err := audio.NewUpload(filepath.Base(inputFile), f)
		if err != nil {
			return err
		}

		pm := pipeline.NewProgressManager(pipeline.ProgressConfig{
			Enabled: pipeline.ShouldShowProgress(showProgress),
			Writer:  cmd.ErrOrStderr(),
		})
		bar := pm.CreateRunBar(upload.Filename)

		out, err := p.RunObserved(ctx, upload, bar.Observe)
		if err != nil {
			bar.Abort()
			pm.Wait()
			return err
		}
		pm.Wait()

		if !out.Transcript.OK() {
			logger.Warn("Transcription did not succeed, the PDF contains the error text",
				zap.String("outcome", string(out.Transcript.Kind)),
				zap.String("message", out.Transcript.Message))
		}

		pdfPath := out.PDFPath
		if outputFile != "" {
			if err := files.CopyFile(out.PDFPath, outputFile); err != nil {
				return err
			}
			pdfPath = outputFile
		}

		if verify {
			if err := verifyLink(out.DownloadLink, pdfPath); err != nil {
				return err
			}
		}

		return report(cmd.OutOrStdout(), out, pdfPath)
	},
}

func verifyLink(link, pdfPath string) error {
	payload, err := download.Decode(link)
	if err != nil {
		return err
	}

	onDisk, err := files.CalculateFileHash(pdfPath)
	if err != nil {
		return err
	}
	if decoded := files.HashBytes(payload); decoded != onDisk {
		return fmt.Errorf("download link does not match %s: sha256 %s != %s", pdfPath, decoded, onDisk)
	}
	return nil
}

func report(w io.Writer, out *pipeline.Output, pdfPath string) error {
	fmt.Fprintf(w, "Transcript (%s):\n%s\n\n", out.Transcript.Kind, out.Transcript.String())
	fmt.Fprintf(w, "PDF: %s (%d bytes, %d paragraphs)\n", pdfPath, out.PDFSize, out.Paragraphs)
	if verify {
		fmt.Fprintln(w, "Download link verified")
	}
	if printLink {
		fmt.Fprintf(w, "\n%s\n", out.DownloadLink)
	}
	return nil
}
