package draw

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/arcade-asteroids/internal/loop"
	"github.com/tomz197/arcade-asteroids/internal/object"
)

func TestHex(t *testing.T) {
	tests := []struct {
		in   string
		want RGB
	}{
		{"#ff0000", RGB{R: 255}},
		{"#00ffff", RGB{G: 255, B: 255}},
		{"#0f0", RGB{G: 255}},
		{"not a colour", White},
	}
	for _, tt := range tests {
		if got := Hex(tt.in); got != tt.want {
			t.Errorf("Hex(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
	if got := Hex("#00ffff").Hex(); got != "#00ffff" {
		t.Errorf("Hex round trip = %s", got)
	}
}

func TestBlend(t *testing.T) {
	if got := Black.Blend(White, 0); got != Black {
		t.Errorf("t=0 gave %+v", got)
	}
	if got := Black.Blend(White, 1); got != White {
		t.Errorf("t=1 gave %+v", got)
	}
	if got := Black.Blend(White, 0.5); got != (RGB{R: 128, G: 128, B: 128}) {
		t.Errorf("t=0.5 gave %+v", got)
	}
}

func TestCanvasScalesLogicalCoordinates(t *testing.T) {
	c := NewCanvas(80, 24, 800, 480)
	red := RGB{R: 255}
	c.Fill(Black)
	c.Circle(400, 240, 20, Style{Fill: red, Filled: true})

	if got := c.Pixel(40, 24); got != red {
		t.Errorf("centre pixel = %+v, want red", got)
	}
	if got := c.Pixel(0, 0); got != Black {
		t.Errorf("corner pixel = %+v, want background", got)
	}
	if col, row := c.LogicalToCell(400, 240); col != 40 || row != 12 {
		t.Errorf("LogicalToCell = (%d, %d), want (40, 12)", col, row)
	}
}

func TestCanvasCentresWidePlayArea(t *testing.T) {
	// 40x20 cells = 40x40 pixels; a 200x100 area scales by 0.2 and is centred vertically.
	c := NewCanvas(40, 20, 200, 100)
	if col, row := c.LogicalToCell(0, 0); col != 0 || row != 5 {
		t.Errorf("origin cell = (%d, %d), want (0, 5)", col, row)
	}
}

func TestCanvasPolygonStrokeAndFill(t *testing.T) {
	c := NewCanvas(20, 10, 20, 20)
	c.Fill(Black)
	stroke, fill := RGB{R: 255}, RGB{B: 255}
	square := []Point{{X: 2, Y: 2}, {X: 12, Y: 2}, {X: 12, Y: 12}, {X: 2, Y: 12}}
	c.Polygon(square, Style{Stroke: stroke, Fill: fill, Stroked: true, Filled: true})

	if got := c.Pixel(2, 2); got != stroke {
		t.Errorf("edge pixel = %+v, want stroke", got)
	}
	if got := c.Pixel(7, 7); got != fill {
		t.Errorf("inner pixel = %+v, want fill", got)
	}
	if got := c.Pixel(15, 15); got != Black {
		t.Errorf("outside pixel = %+v, want background", got)
	}
}

func TestCanvasGlowUsesBlendedHalo(t *testing.T) {
	c := NewCanvas(20, 10, 20, 20)
	c.Fill(Black)
	c.Circle(10.5, 10.5, 0.5, Style{Fill: White, Filled: true, Glow: true})

	if got := c.Pixel(10, 10); got != White {
		t.Errorf("centre = %+v, want white", got)
	}
	want := Black.Blend(White, 0.35)
	if got := c.Pixel(11, 10); got != want {
		t.Errorf("halo = %+v, want %+v", got, want)
	}
}

func TestCanvasRenderDiffs(t *testing.T) {
	c := NewCanvas(10, 5, 10, 10)
	c.Fill(Black)

	var buf bytes.Buffer
	if err := c.Render(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "\033[1;1H") || !strings.HasSuffix(buf.String(), "\033[0m") {
		t.Errorf("first render = %q", buf.String())
	}

	buf.Reset()
	if err := c.Render(&buf); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("unchanged frame wrote %q", buf.String())
	}

	c.Circle(2.5, 0.5, 0.4, Style{Fill: RGB{R: 255}, Filled: true})
	buf.Reset()
	if err := c.Render(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "\033[1;3H") || !strings.Contains(out, "38;2;255;0;0m") || !strings.Contains(out, string(BlockUpperHalf)) {
		t.Errorf("diff render = %q", out)
	}

	c.ForceRedraw()
	buf.Reset()
	if err := c.Render(&buf); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(buf.String(), string(BlockEmpty)) + strings.Count(buf.String(), string(BlockUpperHalf)); got != 50 {
		t.Errorf("forced redraw wrote %d cells, want 50", got)
	}
}

func TestCanvasTextOverlay(t *testing.T) {
	c := NewCanvas(10, 3, 10, 6)
	bg := RGB{B: 40}
	c.Fill(bg)
	c.Text(8, 1, "abc", White)

	cl := c.cellAt(8, 1)
	if cl.ch != 'a' || cl.fg != White || cl.bg != bg {
		t.Errorf("text cell = %+v", cl)
	}
	if cl := c.cellAt(9, 1); cl.ch != 'b' {
		t.Errorf("second char = %q", cl.ch)
	}

	c.Fill(bg)
	if cl := c.cellAt(8, 1); cl.ch != BlockEmpty {
		t.Errorf("Fill kept text %q", cl.ch)
	}
}

func TestCanvasRenderScreen(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	defer screen.Fini()
	screen.SetSize(10, 5)

	c := NewCanvas(10, 5, 10, 10)
	c.Fill(Black)
	c.Circle(2.5, 0.5, 0.4, Style{Fill: White, Filled: true})
	c.Text(0, 4, "hi", White)
	c.RenderScreen(screen)

	if ch, _, _, _ := screen.GetContent(2, 0); ch != BlockUpperHalf {
		t.Errorf("pixel cell = %q, want upper half block", ch)
	}
	if ch, _, _, _ := screen.GetContent(1, 4); ch != 'i' {
		t.Errorf("text cell = %q, want 'i'", ch)
	}
}

type countingWriter struct {
	writes []int
	data   bytes.Buffer
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes = append(w.writes, len(p))
	return w.data.Write(p)
}

func TestChunkWriterFlushesInChunks(t *testing.T) {
	dst := &countingWriter{}
	cw := NewChunkWriter(dst)
	payload := strings.Repeat("x", 3000)
	if _, err := cw.WriteString(payload); err != nil {
		t.Fatal(err)
	}
	if cw.Pending() != 3000 || len(dst.writes) != 0 {
		t.Fatalf("pending = %d, writes = %v", cw.Pending(), dst.writes)
	}
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}

	want := []int{maxChunkSize, maxChunkSize, 3000 - 2*maxChunkSize}
	if len(dst.writes) != len(want) {
		t.Fatalf("writes = %v, want %v", dst.writes, want)
	}
	for i := range want {
		if dst.writes[i] != want[i] {
			t.Fatalf("writes = %v, want %v", dst.writes, want)
		}
	}
	if dst.data.String() != payload || cw.Pending() != 0 {
		t.Error("payload mismatch after flush")
	}
}

func TestScreenSequences(t *testing.T) {
	var buf bytes.Buffer
	if err := EnterScreen(&buf); err != nil {
		t.Fatal(err)
	}
	if err := LeaveScreen(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, seqEnterAltScrn) || !strings.HasSuffix(out, seqExitAltScrn) {
		t.Errorf("sequences = %q", out)
	}
}

type surfaceCall struct {
	op     string
	x, y   float64
	points int
	style  Style
}

type recordingSurface struct {
	bg    RGB
	calls []surfaceCall
}

func (s *recordingSurface) Fill(bg RGB) {
	s.bg = bg
	s.calls = append(s.calls, surfaceCall{op: "fill"})
}

func (s *recordingSurface) Circle(x, y, r float64, st Style) {
	s.calls = append(s.calls, surfaceCall{op: "circle", x: x, y: y, style: st})
}

func (s *recordingSurface) Polygon(points []Point, st Style) {
	s.calls = append(s.calls, surfaceCall{op: "polygon", points: len(points), style: st})
}

func (s *recordingSurface) ops() string {
	ops := make([]string, len(s.calls))
	for i, c := range s.calls {
		ops[i] = c.op
	}
	return strings.Join(ops, ",")
}

func testFrame() loop.Frame {
	theme := object.ThemeForLevel(1)
	player := object.NewPlayer(100, 100, theme.Accent)
	player.Invincible = false
	player.InvincibilityFrames = 0
	return loop.Frame{
		Tick:   2,
		Phase:  loop.PhaseRunning,
		Bounds: object.Bounds{Width: 200, Height: 200},
		Theme:  theme,
		Player: player,
		Stars:  []object.Star{{X: 1, Y: 1, Radius: 1, Alpha: 0.5}},
		Particles: []*object.Particle{
			{X: 5, Y: 5, Radius: 1, Color: object.AsteroidExplosionColor, Alpha: 1},
		},
		Projectiles: []*object.Projectile{object.NewProjectile(50, 50, 0)},
		Asteroids: []*object.Asteroid{
			{X: 150, Y: 150, Radius: 20, Color: theme.UI, Shape: []Point{{X: 20}, {Y: 20}, {X: -20}, {Y: -20}}},
		},
	}
}

func TestRenderFrameDrawOrder(t *testing.T) {
	s := &recordingSurface{}
	RenderFrame(s, testFrame())

	if got, want := s.ops(), "fill,circle,circle,circle,polygon,polygon"; got != want {
		t.Fatalf("ops = %s, want %s", got, want)
	}
	if s.bg != Hex(object.ThemeForLevel(1).BG) {
		t.Errorf("background = %+v", s.bg)
	}
	star := s.calls[1]
	if want := s.bg.Blend(White, 0.5); star.style.Fill != want {
		t.Errorf("star colour = %+v, want %+v", star.style.Fill, want)
	}
	if p := s.calls[3]; !p.style.Glow || p.style.Fill != Hex(object.ProjectileColor) {
		t.Errorf("projectile style = %+v", p.style)
	}
	if a := s.calls[4]; a.points != 4 || !a.style.Stroked || a.style.Filled {
		t.Errorf("asteroid call = %+v", a)
	}
	if hull := s.calls[5]; hull.points != 3 || hull.style.Stroke != Hex(object.ThemeForLevel(1).Accent) {
		t.Errorf("hull call = %+v", hull)
	}
}

func TestRenderFrameThrustFlame(t *testing.T) {
	f := testFrame()
	f.Player.Thrusting = true
	s := &recordingSurface{}
	RenderFrame(s, f)

	if got, want := s.ops(), "fill,circle,circle,circle,polygon,polygon,polygon"; got != want {
		t.Fatalf("ops = %s, want %s", got, want)
	}
	if flame := s.calls[5]; !flame.style.Filled || flame.style.Fill != Hex(FlameColor) {
		t.Errorf("flame style = %+v", flame.style)
	}
}

func TestRenderFrameBlinkHidesPlayer(t *testing.T) {
	f := testFrame()
	f.Player.Invincible = true
	f.Player.InvincibilityFrames = 5 // floor(5/10) is even: hidden
	s := &recordingSurface{}
	RenderFrame(s, f)

	if got, want := s.ops(), "fill,circle,circle,circle,polygon"; got != want {
		t.Errorf("ops = %s, want %s", got, want)
	}
}

func TestRenderFrameBorderAndMenu(t *testing.T) {
	f := testFrame()
	f.Player = nil
	f.Phase = loop.PhaseMenu
	s := &recordingSurface{}
	r := FrameRenderer{Border: true}
	r.Draw(s, f)

	if got, want := s.ops(), "fill,polygon,circle,circle,circle,polygon"; got != want {
		t.Errorf("ops = %s, want %s", got, want)
	}
}

func TestAppendFlame(t *testing.T) {
	p := object.NewPlayer(100, 100, "#fff")
	pts := appendFlame(nil, p, 2)
	if len(pts) != 3 {
		t.Fatalf("points = %d", len(pts))
	}
	tip := pts[2]
	if tip.X != 100 || tip.Y != 100+p.Radius+flameOffset+flameLength+2 {
		t.Errorf("tip = %+v", tip)
	}
}
