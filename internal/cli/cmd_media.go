package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"readinggame/internal/media"
)

func newMediaCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "media",
		Short: "Upload and delete game images",
		Example: "  gamectl media upload ./bola.png --folder words --compress\n" +
			"  gamectl media delete https://cdn.example.com/game-images/words/words-1717171717000.png",
	}
	cmd.AddCommand(
		newMediaUploadCommand(rt),
		newMediaDeleteCommand(rt),
		newMediaDataURLCommand(rt),
	)
	return cmd
}

func newMediaUploadCommand(rt *runtime) *cobra.Command {
	var (
		folder   string
		name     string
		compress bool
	)
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload an image and print its public URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := media.ReadFile(args[0])
			if err != nil {
				return err
			}
			if compress {
				if file, err = media.Compress(file, media.DefaultCompressOptions); err != nil {
					return err
				}
			}
			gateway, err := rt.mediaGateway(cmd.Context())
			if err != nil {
				return err
			}
			url, err := gateway.Upload(cmd.Context(), file, media.Folder(folder), name)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(rt.out, url)
			return err
		},
	}
	cmd.Flags().StringVar(&folder, "folder", string(media.FolderWords), "words or rewards")
	cmd.Flags().StringVar(&name, "name", "", "Object file name (default: <folder>-<unix millis>.<ext>)")
	cmd.Flags().BoolVar(&compress, "compress", false, "Shrink to 800x600 and re-encode as JPEG before upload")
	return cmd
}

func newMediaDeleteCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <url>",
		Short: "Delete an uploaded image by its public URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway, err := rt.mediaGateway(cmd.Context())
			if err != nil {
				return err
			}
			if !gateway.IsRemoteURL(args[0]) {
				rt.log.Warn("URL does not look like an uploaded image", "url", args[0])
			}
			if err := gateway.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, err = fmt.Fprintf(rt.out, "deleted %s\n", args[0])
			return err
		},
	}
}

func newMediaDataURLCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "data-url <file>",
		Short: "Print an image as a data URL for inline preview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := media.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := media.ValidateFile(file); err != nil {
				return err
			}
			_, err = fmt.Fprintln(rt.out, media.ToDataURL(file))
			return err
		},
	}
}
