package cmd

import (
	"github.com/AnyUserName/kawaiibooth/internal/profile"
	"github.com/spf13/cobra"
)

var animateRecord bool

var animateCmd = &cobra.Command{
	Use:   "animate <session.json|dir>...",
	Short: "Export only the looping animation",
	Long: `Renders the intro card, a hold and crossfade per shot and the outro
card at the profile's size, quantizes each frame and writes a looping GIF.
Fails for a session where no shot can be decoded.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnimate,
}

func init() {
	animateCmd.Flags().StringP("out", "o", "./booth_out", "output directory")
	animateCmd.Flags().StringP("animation", "a", "loop", "animation profile: "+joinNames(profile.AnimationNames()))
	animateCmd.Flags().BoolVar(&animateRecord, "record", false, "append export records to each session file")
	rootCmd.AddCommand(animateCmd)
}

func runAnimate(_ *cobra.Command, args []string) error {
	p := profile.GetAnimation(cfg.Export.AnimationProfile)
	return runBatch(args, nil, &p, animateRecord)
}
