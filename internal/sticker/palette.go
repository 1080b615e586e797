package sticker

// Category is a named group of glyph stickers in the picker.
type Category struct {
	Name   string
	Glyphs []string
}

// Palette is the built-in sticker picker.
var Palette = []Category{
	{Name: "Kawaii", Glyphs: []string{"🎀", "💖", "🧸", "🌸", "🩰", "🦢", "🍰", "🍓", "🍒", "💌", "🍡", "🍭", "🐰", "🐾", "🥛", "🧁", "🍬", "🍼", "🦄", "🌈"}},
	{Name: "Y2K", Glyphs: []string{"⛓️", "🧷", "💿", "🦋", "🔥", "👽", "💀", "🩹", "🎸", "🔌", "🧿", "🧬", "🦠", "🖤", "👾", "🕷️", "🕸️", "🎧", "📼", "📱"}},
	{Name: "Sparkle", Glyphs: []string{"✨", "🌟", "💫", "⚡", "🌙", "☁️", "🫧", "💎", "✴️", "❇️", "⭐", "🌌", "🎆", "🎐", "❄️", "☄️", "☀️"}},
	{Name: "Vibe", Glyphs: []string{"😎", "🌈", "🍦", "🍕", "🐶", "🐱", "🦄", "💊", "☮️", "☯️", "🍄", "🌵", "🌺", "🍹", "🏖️", "🛹", "🚲", "📷", "💣", "🧨"}},
	{Name: "Animals", Glyphs: []string{"🐱", "🐶", "🐰", "🦊", "🐻", "🐼", "🐨", "🐯", "🦁", "🐮", "🐷", "🐸", "🐵", "🐔", "🐧", "🦆", "🦅", "🦉", "🐝", "🦋"}},
	{Name: "Food", Glyphs: []string{"🍎", "🍌", "🍉", "🍇", "🍓", "🍑", "🍒", "🍍", "🥝", "🍅", "🥑", "🍔", "🍟", "🍕", "🌭", "🥪", "🌮", "🌯", "🍜", "🍣"}},
	{Name: "Love", Glyphs: []string{"❤️", "🧡", "💛", "💚", "💙", "💜", "🖤", "🤍", "🤎", "💔", "❣️", "💕", "💞", "💓", "💗", "💖", "💘", "💝", "💟", "💌"}},
	{Name: "Decor", Glyphs: []string{"〰️", "➰", "➿", "✔️", "❌", "⭕", "⬛", "⬜", "🔶", "🔷", "🔺", "🔻", "♥️", "♣️", "♦️", "▪️", "▫️", "🟡", "🟣", "🟢"}},
}

// Quick is the short list bound to the number keys in the preview.
var Quick = []string{"🎀", "💖", "🧸", "✨", "🌸", "⭐", "🦋", "🍓", "💿"}

// FindCategory returns the named category.
func FindCategory(name string) (Category, bool) {
	for _, c := range Palette {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}
