package template

var (
	defaultStyle = Style{CornerRadius: 0, Padding: 20, ShadowBlur: 15, ShadowOffset: 5}
	defaultInset = Inset{Right: 40, Bottom: 30}
)

// Builtin returns the catalog of layouts shipped with the booth.
func Builtin() *Catalog {
	return NewCatalog(builtin...)
}

var builtin = []Template{
	{
		ID: Strip, Name: "Classic", Width: 600, Height: 1800,
		Background: "#fff0f5",
		Slots: []Slot{
			{X: 50, Y: 50, W: 500, H: 500},
			{X: 50, Y: 580, W: 500, H: 500},
			{X: 50, Y: 1110, W: 500, H: 500},
		},
		Style:     defaultStyle,
		DateColor: "#ff69b4",
		DateInset: defaultInset,
		Branding:  "KawaiiBooth AI",
	},
	{
		ID: Y2K, Name: "Y2K Wave", Width: 800, Height: 2000,
		Background: "#fdf6e3",
		Slots: []Slot{
			{X: 100, Y: 120, W: 600, H: 450},
			{X: 100, Y: 620, W: 600, H: 450},
			{X: 100, Y: 1120, W: 600, H: 450},
		},
		Style:     Style{Padding: 15, ShadowBlur: 15, ShadowOffset: 5},
		DateColor: "#ffffff",
		DateInset: defaultInset,
		Decor: []Seed{
			{Glyph: "🧸", X: 150, Y: 1750, Scale: 2.5, Rotation: -15},
			{Glyph: "✨", X: 700, Y: 100, Scale: 2, Rotation: 0},
			{Glyph: "⛓️", X: 100, Y: 100, Scale: 2, Rotation: 45},
		},
	},
	{
		ID: Grid, Name: "2x2 Grid", Width: 1200, Height: 1600,
		Background: "#ffffff",
		Slots: []Slot{
			{X: 50, Y: 50, W: 525, H: 700},
			{X: 625, Y: 50, W: 525, H: 700},
			{X: 50, Y: 800, W: 525, H: 700},
			{X: 625, Y: 800, W: 525, H: 700},
		},
		Style:     defaultStyle,
		DateColor: "#ff69b4",
		DateInset: defaultInset,
	},
	{
		ID: Film, Name: "Cinema", Width: 600, Height: 1800,
		Background: "#000000",
		Slots: []Slot{
			{X: 80, Y: 50, W: 440, H: 330},
			{X: 80, Y: 430, W: 440, H: 330},
			{X: 80, Y: 810, W: 440, H: 330},
			{X: 80, Y: 1190, W: 440, H: 330},
		},
		Style:     defaultStyle,
		DateColor: "#ffffff",
		DateInset: Inset{Right: 60, Bottom: 40},
	},
	{
		ID: Modern, Name: "Modern", Width: 1200, Height: 1200,
		Background: "#1a1a1a",
		Slots: []Slot{
			{X: 50, Y: 50, W: 700, H: 1100},
			{X: 800, Y: 50, W: 350, H: 525},
			{X: 800, Y: 625, W: 350, H: 525},
		},
		Style:     Style{CornerRadius: 12, Padding: 20, ShadowBlur: 15, ShadowOffset: 5},
		DateColor: "#ffffff",
		DateInset: defaultInset,
	},
	{
		ID: Retro, Name: "Polaroid", Width: 1200, Height: 1200,
		Background: "#fdf6e3",
		Slots: []Slot{
			{X: 60, Y: 60, W: 510, H: 510, Rotation: -2},
			{X: 630, Y: 60, W: 510, H: 510, Rotation: 2},
			{X: 60, Y: 630, W: 510, H: 510, Rotation: 1},
			{X: 630, Y: 630, W: 510, H: 510, Rotation: -1},
		},
		Style:     Style{Padding: 20, ShadowBlur: 15, ShadowOffset: 5, BottomInset: 80},
		DateColor: "#ff69b4",
		DateInset: defaultInset,
	},
	{
		ID: Wide, Name: "Wide", Width: 1800, Height: 600,
		Background: "#e0f7fa",
		Slots: []Slot{
			{X: 50, Y: 50, W: 500, H: 500},
			{X: 600, Y: 50, W: 500, H: 500},
			{X: 1150, Y: 50, W: 500, H: 500},
		},
		Style:     defaultStyle,
		DateColor: "#ff69b4",
		DateInset: defaultInset,
	},
	{
		ID: Cyber, Name: "Neon", Width: 1200, Height: 1600,
		Background: "#0d0221",
		Slots: []Slot{
			{X: 70, Y: 70, W: 505, H: 680},
			{X: 625, Y: 70, W: 505, H: 680},
			{X: 70, Y: 810, W: 505, H: 680},
			{X: 625, Y: 810, W: 505, H: 680},
		},
		Style:     Style{CornerRadius: 18, Padding: 12, ShadowBlur: 24, ShadowOffset: 0},
		DateColor: "#ffffff",
		DateInset: defaultInset,
	},
}
