package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/spf13/cobra"

	"github.com/phanxgames/sway"
)

const (
	screenW = 640
	screenH = 480

	barX      = 160
	barW      = screenW - barX - 16
	barH      = 16
	rowHeight = 28
	firstRow  = 40

	// pointerTarget is the target id pointer events are attached to.
	pointerTarget = 1
	pointerEvent  = "onPointerMove"
)

var barColors = []color.RGBA{
	{102, 204, 255, 255},
	{255, 153, 51, 255},
	{153, 255, 102, 255},
	{230, 230, 77, 255},
	{255, 102, 178, 255},
}

// viewer renders a script's values as bars. Pointer moves feed an Event
// writing the cursor node; a click restarts the animation.
type viewer struct {
	s      *session
	handle sway.Handle
	values sway.Values
	names  []string
	full   float64

	cursor  sway.ValueXY
	event   *sway.Event
	handler sway.EventHandler

	status string
	white  *ebiten.Image
}

// viewCmd represents the view command
var viewCmd = &cobra.Command{
	Use:   "view <script>",
	Short: "Play an animation script in a window",
	Long:  `Opens a window drawing each named value as a bar. Click to restart the animation.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		script, err := loadScript(args[0])
		if err != nil {
			return err
		}
		if forceRemote, _ := cmd.Flags().GetBool("remote"); forceRemote {
			script.Remote = true
		}
		full, _ := cmd.Flags().GetFloat64("max")

		v, err := newViewer(newSession(cfg, logger, script.Remote, nil), script, full)
		if err != nil {
			return err
		}
		v.start()

		title := "Sway"
		if script.Name != "" {
			title += " - " + script.Name
		}
		ebiten.SetWindowTitle(title)
		ebiten.SetWindowSize(screenW, screenH)
		ebiten.SetTPS(script.FPS)
		return ebiten.RunGame(v)
	},
}

func newViewer(s *session, script *sway.Script, full float64) (*viewer, error) {
	h, values, err := script.Build(s.graph)
	if err != nil {
		return nil, err
	}
	if full <= 0 {
		full = 1
	}
	v := &viewer{
		s:      s,
		handle: h,
		values: values,
		names:  values.Names(),
		full:   full,
		cursor: s.graph.ValueXY(sway.Vec2{}),
	}

	mapping := []any{sway.Mapping{sway.EventPayloadKey: v.cursor}}
	v.event, err = s.graph.Event(mapping, sway.EventConfig{UseRemoteDriver: s.exec != nil})
	if err != nil {
		return nil, err
	}
	if err := v.event.Attach(pointerTarget, pointerEvent); err != nil {
		return nil, err
	}
	v.handler = v.event.Handler()
	return v, nil
}

func (v *viewer) start() {
	v.status = "running"
	v.handle.Start(func(r sway.Result) {
		if r.Finished {
			v.status = "finished"
		} else {
			v.status = "stopped"
		}
	})
}

// pointerMoved routes a cursor position through the event, remotely when
// the event is attached to the executor.
func (v *viewer) pointerMoved(x, y int) error {
	payload := map[string]any{"x": x, "y": y}
	if v.s.exec != nil {
		v.s.exec.DispatchEvent(pointerTarget, pointerEvent, payload)
	}
	return v.handler(map[string]any{sway.EventPayloadKey: payload})
}

// cursorPos reads the cursor node from whichever side writes it.
func (v *viewer) cursorPos() sway.Vec2 {
	if v.s.exec == nil {
		return v.cursor.Value()
	}
	x, _ := v.s.exec.Value(v.cursor.X.Tag())
	y, _ := v.s.exec.Value(v.cursor.Y.Tag())
	return sway.Vec2{X: x, Y: y}
}

func (v *viewer) Update() error {
	dt := float32(1.0 / float64(ebiten.TPS()))

	if err := v.pointerMoved(ebiten.CursorPosition()); err != nil {
		return err
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		v.handle.Stop()
		v.handle.Reset()
		v.start()
	}

	v.s.tick(dt)
	v.s.clock.Update(dt)
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	if v.white == nil {
		v.white = ebiten.NewImage(1, 1)
		v.white.Fill(color.White)
	}
	screen.Fill(color.RGBA{26, 26, 38, 255})

	for i, name := range v.names {
		y := firstRow + i*rowHeight
		val := v.values[name].Value()
		frac := val / v.full
		if frac < 0 {
			frac = 0
		}
		if frac > 1 {
			frac = 1
		}
		v.fillRect(screen, barX, float64(y), barW, barH, color.RGBA{60, 60, 80, 255})
		v.fillRect(screen, barX, float64(y), frac*barW, barH, barColors[i%len(barColors)])
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%-12s %8.2f", name, val), 8, y)
	}

	c := v.cursorPos()
	v.fillRect(screen, c.X-3, c.Y-3, 6, 6, color.RGBA{255, 255, 255, 200})

	mode := "local"
	if v.s.exec != nil {
		mode = fmt.Sprintf("remote (%d nodes)", v.s.exec.Len())
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s  %s  click to restart  FPS: %.0f",
		v.status, mode, ebiten.ActualFPS()), 8, 8)
}

// fillRect draws a solid rectangle by scaling a white pixel.
func (v *viewer) fillRect(dst *ebiten.Image, x, y, w, h float64, c color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	dst.DrawImage(v.white, op)
}

func (v *viewer) Layout(_, _ int) (int, int) {
	return screenW, screenH
}

func init() {
	rootCmd.AddCommand(viewCmd)

	viewCmd.Flags().Bool("remote", false, "Run every timing step on the in-process remote executor")
	viewCmd.Flags().Float64("max", 100, "Value drawn as a full bar")
}
