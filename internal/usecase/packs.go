package usecase

import (
	"strings"

	"github.com/samber/lo"

	"github.com/eslsoft/vocquiz/internal/entity"
)

// WordPack is a predefined set of words that can be added in one go.
type WordPack struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Words       []entity.WordDraft
}

func packWord(english, turkish, category, emoji, example string) entity.WordDraft {
	return entity.WordDraft{English: english, Turkish: turkish, Category: category, Emoji: emoji, Example: example}
}

var wordPacks = []WordPack{
	{
		ID:          "verbs-50",
		Name:        "Top Verbs",
		Description: "Most common English verbs for beginners.",
		Icon:        "🏃",
		Words: []entity.WordDraft{
			packWord("be", "olmak", "Verbs", "✨", "I want to be happy."),
			packWord("have", "sahip olmak", "Verbs", "🤲", "I have a car."),
			packWord("do", "yapmak", "Verbs", "🔨", "Just do it."),
			packWord("say", "söylemek", "Verbs", "🗣️", "Say hello to him."),
			packWord("go", "gitmek", "Verbs", "🚶", "Let's go home."),
			packWord("get", "almak, edinmek", "Verbs", "🎁", "I get a gift."),
			packWord("make", "yapmak, üretmek", "Verbs", "🍳", "I make breakfast."),
			packWord("know", "bilmek", "Verbs", "🧠", "I know the answer."),
			packWord("think", "düşünmek", "Verbs", "💭", "I think it is good."),
			packWord("take", "almak, götürmek", "Verbs", "🤚", "Take this book."),
			packWord("see", "görmek", "Verbs", "👀", "I see a bird."),
			packWord("come", "gelmek", "Verbs", "👋", "Come here."),
			packWord("want", "istemek", "Verbs", "🙏", "I want water."),
			packWord("look", "bakmak", "Verbs", "🔭", "Look at the sky."),
			packWord("use", "kullanmak", "Verbs", "🔧", "Use a hammer."),
			packWord("find", "bulmak", "Verbs", "🔍", "I can't find my keys."),
			packWord("give", "vermek", "Verbs", "🎁", "Give me a hand."),
			packWord("tell", "anlatmak", "Verbs", "📢", "Tell me a story."),
			packWord("work", "çalışmak", "Verbs", "💼", "I work hard."),
			packWord("call", "aramak, çağırmak", "Verbs", "📞", "Call me later."),
		},
	},
	{
		ID:          "travel-essentials",
		Name:        "Travel Essentials",
		Description: "Must-know words for your next trip.",
		Icon:        "✈️",
		Words: []entity.WordDraft{
			packWord("passport", "pasaport", "Travel", "🛂", "Where is my passport?"),
			packWord("ticket", "bilet", "Travel", "🎫", "One ticket please."),
			packWord("hotel", "otel", "Travel", "🏨", "Is the hotel far?"),
			packWord("airport", "havalimanı", "Travel", "🛫", "To the airport."),
			packWord("station", "istasyon", "Travel", "🚉", "Train station."),
			packWord("bus", "otobüs", "Travel", "🚌", "The bus is late."),
			packWord("train", "tren", "Travel", "🚆", "I like trains."),
			packWord("flight", "uçuş", "Travel", "✈️", "My flight is at 5."),
			packWord("luggage", "bagaj", "Travel", "🧳", "Lost luggage."),
			packWord("map", "harita", "Travel", "🗺️", "Look at the map."),
			packWord("money", "para", "Travel", "💵", "I need money."),
			packWord("price", "fiyat", "Travel", "🏷️", "What is the price?"),
			packWord("expensive", "pahalı", "Travel", "💎", "Too expensive!"),
			packWord("cheap", "ucuz", "Travel", "🏷️", "Very cheap."),
			packWord("help", "yardım", "Travel", "🆘", "Help me please."),
		},
	},
	{
		ID:          "daily-routine",
		Name:        "Daily Routine",
		Description: "Words to describe your day.",
		Icon:        "📅",
		Words: []entity.WordDraft{
			packWord("wake up", "uyanmak", "Daily Life", "⏰", "I wake up at 7."),
			packWord("breakfast", "kahvaltı", "Daily Life", "🥞", "Eat breakfast."),
			packWord("shower", "duş", "Daily Life", "🚿", "Take a shower."),
			packWord("work", "iş", "Daily Life", "💼", "Go to work."),
			packWord("school", "okul", "Daily Life", "🏫", "Go to school."),
			packWord("lunch", "öğle yemeği", "Daily Life", "🍔", "Time for lunch."),
			packWord("dinner", "akşam yemeği", "Daily Life", "🍽️", "Cook dinner."),
			packWord("sleep", "uyumak", "Daily Life", "😴", "Go to sleep."),
			packWord("tired", "yorgun", "Daily Life", "😫", "I am tired."),
			packWord("busy", "meşgul", "Daily Life", "📅", "I am very busy."),
		},
	},
}

// WordPacks returns the predefined packs.
func WordPacks() []WordPack {
	return lo.Map(wordPacks, func(p WordPack, _ int) WordPack {
		p.Words = append([]entity.WordDraft(nil), p.Words...)
		return p
	})
}

// FindPack looks a pack up by id, ignoring case.
func FindPack(id string) (WordPack, bool) {
	return lo.Find(WordPacks(), func(p WordPack) bool {
		return strings.EqualFold(p.ID, strings.TrimSpace(id))
	})
}
