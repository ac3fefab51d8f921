package main

import (
	"fmt"
	"image/color"

	"github.com/spf13/cobra"
	tactical "github.com/swdee/go-tactical"
	"github.com/swdee/go-tactical/render"
	"github.com/swdee/go-tactical/team"
	"gocv.io/x/gocv"
)

var (
	radarFrame int
	radarOut   string
	radarImage string
)

var radarCmd = &cobra.Command{
	Use:   "radar <frames.jsonl>",
	Short: "Render the radar view of one frame",
	Long: `Process the input file up to the chosen frame and render its radar.  When
an image of the video frame is given the radar is composited onto it using
the configured placement and alpha.`,
	Args: cobra.ExactArgs(1),
	RunE: runRadar,
}

func init() {
	radarCmd.Flags().IntVarP(&radarFrame, "frame", "f", -1, "frame number to render, the last frame when negative")
	radarCmd.Flags().StringVarP(&radarOut, "out", "o", "radar.png", "output image path")
	radarCmd.Flags().StringVar(&radarImage, "image", "", "video frame image to composite the radar onto")
}

// newRadar returns a radar renderer using the configured scale
func newRadar() *render.Radar {

	params := render.RadarDefaultParams()
	params.Scale = cfg.GetRadarScale()
	params.Padding = cfg.GetRadarPadding()

	return render.NewRadar(params)
}

// radarInput converts an analysed frame into radar layers
func radarInput(a *tactical.Analyzer, res tactical.FrameResult) render.RadarInput {

	colors := team.PerTeam[color.RGBA]{Team1: render.Team1Color, Team2: render.Team2Color}
	in := render.RadarInput{Frame: res.Frame}

	for _, t := range team.All {
		tres := res.Teams.Get(t)
		layer := render.TeamLayer{
			Name:      t.String(),
			Color:     colors.Get(t),
			Positions:  tres.Positions,
			Formation:  tres.Formation.Label,
			Confidence: tres.Formation.Confidence,
			Metrics:    tres.Metrics,
			Trails:     a.Trails(t),
		}

		in.Teams = append(in.Teams, layer)
	}

	return in
}

// overlayParams returns the configured compositing settings
func overlayParams() (render.OverlayParams, error) {

	params := render.OverlayDefaultParams()

	placement, err := render.ParsePlacement(cfg.GetRadarPlacement())

	if err != nil {
		return params, err
	}

	params.Placement = placement
	params.WidthFraction = cfg.GetRadarWidthFraction()
	params.Alpha = cfg.GetRadarAlpha()
	params.Margin = cfg.GetRadarMargin()

	return params, nil
}

func runRadar(cmd *cobra.Command, args []string) error {

	frames, err := tactical.LoadFrames(args[0])

	if err != nil {
		return fmt.Errorf("load frames: %w", err)
	}

	if len(frames) == 0 {
		return fmt.Errorf("no frames in %s", args[0])
	}

	if radarFrame < 0 {
		radarFrame = frames[len(frames)-1].Frame
	}

	a, err := tactical.NewAnalyzer(tactical.AnalyzerParamsFromConfig(cfg))

	if err != nil {
		return err
	}

	var (
		found bool
		last  tactical.FrameResult
	)

	// trails need the frames leading up to the one rendered
	for _, in := range frames {
		if in.Frame > radarFrame {
			break
		}

		last, err = a.ProcessFrame(in)

		if err != nil {
			return err
		}

		found = in.Frame == radarFrame
	}

	if !found {
		return fmt.Errorf("frame %d not found in %s", radarFrame, args[0])
	}

	img := newRadar().Draw(radarInput(a, last))
	defer img.Close()

	out := img

	if radarImage != "" {
		frame := gocv.IMRead(radarImage, gocv.IMReadColor)
		defer frame.Close()

		if frame.Empty() {
			return fmt.Errorf("error reading image from: %s", radarImage)
		}

		params, err := overlayParams()

		if err != nil {
			return err
		}

		if !render.Overlay(&frame, img, params) {
			fmt.Fprintln(cmd.ErrOrStderr(), "radar does not fit the frame at the configured placement, skipped compositing")
		}

		out = frame
	}

	if ok := gocv.IMWrite(radarOut, out); !ok {
		return fmt.Errorf("failed to save the image %s", radarOut)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "radar for frame %d written to %s\n", radarFrame, radarOut)

	return nil
}
