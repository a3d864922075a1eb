package trivia

import "strings"

type Category struct {
	ID   int
	Name string
}

const DefaultCategory = 9

var Categories = []Category{
	{9, "General Knowledge"},
	{11, "Movies"},
	{12, "Music"},
	{15, "Video Games"},
	{17, "Science & Nature"},
	{21, "Sports"},
	{22, "Geography"},
}

func CategoryName(id int) string {
	for _, c := range Categories {
		if c.ID == id {
			return c.Name
		}
	}
	return "Unknown category"
}

// KnownCategory неизвестный id превращается в DefaultCategory.
func KnownCategory(id int) int {
	for _, c := range Categories {
		if c.ID == id {
			return id
		}
	}
	return DefaultCategory
}

type Difficulty struct {
	Label string
	Value string
}

const DefaultDifficulty = "easy"

var Difficulties = []Difficulty{
	{"Easy", "easy"},
	{"Medium", "medium"},
	{"Hard", "hard"},
	{"Leo Messi", "hard"},
}

// ParseDifficulty принимает подпись или значение API без учёта регистра.
func ParseDifficulty(s string) string {
	s = strings.TrimSpace(s)
	for _, d := range Difficulties {
		if strings.EqualFold(d.Label, s) || strings.EqualFold(d.Value, s) {
			return d.Value
		}
	}
	return DefaultDifficulty
}
