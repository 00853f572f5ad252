package word

import "math/rand"

// DefaultCategoriesArabic is the stock category list offered to new rooms.
var DefaultCategoriesArabic = []string{
	"ولد",
	"بنت",
	"حيوان",
	"جماد",
	"اكلة",
	"نبات",
	"بلد",
}

// DefaultLettersArabic is the stock letter pool offered to new rooms.
var DefaultLettersArabic = []string{
	"أ", "ب", "ت", "ث", "ج", "ح", "خ", "د", "ذ", "ر",
	"ز", "س", "ش", "ص", "ض", "ط", "ظ", "ع", "غ", "ف",
	"ق", "ك", "ل", "م", "ن", "هـ", "و", "ى",
}

// drawLetter picks a uniformly random letter that has not been used this
// game. Returns false when the pool is exhausted.
func (g *Game) drawLetter() (string, bool) {
	used := make(map[string]bool, len(g.DoneLetters))
	for _, l := range g.DoneLetters {
		used[l] = true
	}
	unused := make([]string, 0, len(g.Options.Letters))
	for _, l := range g.Options.Letters {
		if !used[l] {
			unused = append(unused, l)
		}
	}
	if len(unused) == 0 {
		return "", false
	}
	return unused[rand.Intn(len(unused))], true
}
