package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/hejvi/hejvi/internal/app"
	"github.com/hejvi/hejvi/internal/feed"
	"github.com/hejvi/hejvi/internal/player"
	feedscreen "github.com/hejvi/hejvi/internal/screens/feed"
)

var playCmd = &cobra.Command{
	Use:   "play [collection]",
	Short: "Watch a collection, or a single element with --element",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		element, _ := cmd.Flags().GetString("element")
		start, _ := cmd.Flags().GetInt("start")

		req := feed.LoadRequest{ElementHash: element}
		if len(args) == 1 {
			req.CollectionHash = args[0]
		}
		if req.CollectionHash == "" && req.ElementHash == "" {
			return errors.New("give a collection hash or --element")
		}

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		// Audible playback waits for the first key or click.
		autoplay := &player.Autoplay{RequireGesture: true}

		client := rt.client()
		sess, err := rt.session(cmd.Context(), client, autoplay)
		if err != nil {
			return err
		}
		rt.logger.Info("play", "collection", req.CollectionHash, "element", req.ElementHash, "start", start)

		return app.Run(feedscreen.New(feedscreen.Options{
			Session:  sess,
			Loader:   feed.Loader{Client: client, Normalizer: sess.Normalizer},
			Request:  req,
			Start:    start,
			Autoplay: autoplay,
		}))
	},
}

func init() {
	playCmd.Flags().StringP("element", "e", "", "Play a single element by hash")
	playCmd.Flags().IntP("start", "s", -1, "Start at this item index (default: resume where you left off)")
}
