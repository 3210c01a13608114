package object

// Theme is the colour scheme of a level: background, ui (asteroids and text)
// and accent (the player ship).
type Theme struct {
	BG     string
	UI     string
	Accent string
}

// LevelThemes holds one theme per level; levels past the end reuse them
// cyclically.
var LevelThemes = [...]Theme{
	{BG: "#0b0410", UI: "#ff0055", Accent: "#00f3ff"},
	{BG: "#020b14", UI: "#00ffcc", Accent: "#ff00ff"},
	{BG: "#14020b", UI: "#faff00", Accent: "#ff0055"},
	{BG: "#141402", UI: "#00ffff", Accent: "#ffea00"},
	{BG: "#021414", UI: "#ff00ff", Accent: "#00ffcc"},
	{BG: "#140214", UI: "#00ff55", Accent: "#ff00ff"},
	{BG: "#1c0404", UI: "#ff00aa", Accent: "#ff3300"},
	{BG: "#04041c", UI: "#00aaff", Accent: "#3300ff"},
	{BG: "#1c1004", UI: "#00ffcc", Accent: "#ff8800"},
	{BG: "#10041c", UI: "#ffeb3b", Accent: "#aa00ff"},
}

// ThemeForLevel returns the theme of a 1-based level. Levels below 1 use the
// first theme.
func ThemeForLevel(level int) Theme {
	if level < 1 {
		level = 1
	}
	return LevelThemes[(level-1)%len(LevelThemes)]
}
