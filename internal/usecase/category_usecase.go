package usecase

type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

var categories = []Category{
	{ID: "home", Name: "Home & Moving", Emoji: "🏠"},
	{ID: "beauty", Name: "Beauty & Wellness", Emoji: "💆"},
	{ID: "tech", Name: "Tech & Digital", Emoji: "💻"},
	{ID: "creative", Name: "Creative & Design", Emoji: "🎨"},
	{ID: "tutoring", Name: "Tutoring & Learning", Emoji: "📚"},
	{ID: "fitness", Name: "Fitness & Sports", Emoji: "💪"},
	{ID: "food", Name: "Food & Cooking", Emoji: "🍳"},
	{ID: "transport", Name: "Transportation", Emoji: "🚗"},
	{ID: "events", Name: "Events & Entertainment", Emoji: "🎉"},
	{ID: "other", Name: "Other", Emoji: "✨"},
}

// Categories returns the static category catalog.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}
