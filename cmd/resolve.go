package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hejvi/hejvi/internal/feed"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <element-hash>",
	Short: "Show which response video a challenge answer leads to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failure, _ := cmd.Flags().GetBool("failure")

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		client := rt.client()
		sess, err := rt.session(cmd.Context(), client, nil)
		if err != nil {
			return err
		}

		pl, err := feed.Loader{Client: client, Normalizer: sess.Normalizer}.Element(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		item := pl.At(0)
		if !item.IsChallenge() {
			return fmt.Errorf("element %s is not a challenge", args[0])
		}

		branch := feed.BranchSuccess
		if failure {
			branch = feed.BranchFailure
		}
		fmt.Printf("Question:  %s\n", item.Question)
		fmt.Printf("Branch:    %s\n", branch)
		fmt.Printf("Target:    %s\n", item.Target(branch))

		res, err := sess.Resolver().Resolve(cmd.Context(), pl, *item, branch)
		var nf *feed.NotFoundError
		switch {
		case errors.As(err, &nf):
			fmt.Printf("Tried:     %s\n", strings.Join(nf.Attempts, ", "))
			fmt.Println("Result:    not found")
			return nil
		case err != nil:
			return err
		}

		fmt.Printf("Tried:     %s\n", strings.Join(res.Attempts, ", "))
		fmt.Printf("Via:       %s\n", res.Via)
		fmt.Printf("URL:       %s\n", res.URL)
		if res.Thumbnail != "" {
			fmt.Printf("Thumbnail: %s\n", res.Thumbnail)
		}
		return nil
	},
}

func init() {
	resolveCmd.Flags().Bool("failure", false, "Resolve the wrong-answer branch instead of the right-answer one")
}
