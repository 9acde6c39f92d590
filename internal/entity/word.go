package entity

import (
	"strings"
	"time"
)

// DefaultGroup is the category and folder assigned to words that do not name one.
const DefaultGroup = "General"

// Word is a vocabulary card together with its mastery state.
type Word struct {
	ID           string
	English      string
	Turkish      string
	Category     string
	Folder       string
	PartOfSpeech string
	Example      string
	Emoji        string
	Level        int
	NextReview   *time.Time
	LastReviewed *time.Time
	CreatedAt    time.Time
}

// WordDraft carries the caller-supplied fields of a word that has not been stored yet.
// It doubles as the partial record accepted by bulk import, where ID, Level and the
// timestamps may be present.
type WordDraft struct {
	ID           string
	English      string
	Turkish      string
	Category     string
	Folder       string
	PartOfSpeech string
	Example      string
	Emoji        string
	Level        int
	NextReview   *time.Time
	LastReviewed *time.Time
	CreatedAt    *time.Time
}

// WordPatch lists the fields of an update; nil fields are left untouched.
type WordPatch struct {
	English      *string
	Turkish      *string
	Category     *string
	Folder       *string
	PartOfSpeech *string
	Example      *string
	Emoji        *string
	Level        *int
	NextReview   *time.Time
	LastReviewed *time.Time
}

// Valid reports whether the draft carries both sides of the card.
func (d WordDraft) Valid() bool {
	return strings.TrimSpace(d.English) != "" && strings.TrimSpace(d.Turkish) != ""
}

// Build materialises the draft into a Word, filling defaults for a brand-new card.
func (d WordDraft) Build(id string, now time.Time) Word {
	if d.ID != "" {
		id = d.ID
	}
	w := Word{
		ID:           id,
		English:      strings.TrimSpace(d.English),
		Turkish:      strings.TrimSpace(d.Turkish),
		Category:     strings.TrimSpace(d.Category),
		Folder:       strings.TrimSpace(d.Folder),
		PartOfSpeech: strings.TrimSpace(d.PartOfSpeech),
		Example:      strings.TrimSpace(d.Example),
		Emoji:        strings.TrimSpace(d.Emoji),
		Level:        d.Level,
		NextReview:   d.NextReview,
		LastReviewed: d.LastReviewed,
	}
	if d.CreatedAt != nil {
		w.CreatedAt = *d.CreatedAt
	}
	w.Normalize(now)
	return w
}

// Normalize ensures defaults & constraints before persistence.
func (w *Word) Normalize(now time.Time) {
	if w.Category == "" {
		w.Category = DefaultGroup
	}
	if w.Folder == "" {
		w.Folder = DefaultGroup
	}
	w.Level = ClampLevel(w.Level)
	if w.NextReview == nil {
		next := now
		w.NextReview = &next
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
}

// IsDue reports whether the word should be prioritised at now. A word that was never
// scheduled is always due.
func (w Word) IsDue(now time.Time) bool {
	return w.NextReview == nil || !w.NextReview.After(now)
}

// EffectiveLevel returns the stored level, treating an unset level as the lowest one.
func (w Word) EffectiveLevel() int {
	if w.Level < MinLevel {
		return MinLevel
	}
	return w.Level
}

// Apply copies every non-nil patch field onto w.
func (p WordPatch) Apply(w *Word) {
	if p.English != nil {
		w.English = strings.TrimSpace(*p.English)
	}
	if p.Turkish != nil {
		w.Turkish = strings.TrimSpace(*p.Turkish)
	}
	if p.Category != nil {
		w.Category = strings.TrimSpace(*p.Category)
	}
	if p.Folder != nil {
		w.Folder = strings.TrimSpace(*p.Folder)
	}
	if p.PartOfSpeech != nil {
		w.PartOfSpeech = *p.PartOfSpeech
	}
	if p.Example != nil {
		w.Example = *p.Example
	}
	if p.Emoji != nil {
		w.Emoji = *p.Emoji
	}
	if p.Level != nil {
		w.Level = *p.Level
	}
	if p.NextReview != nil {
		next := *p.NextReview
		w.NextReview = &next
	}
	if p.LastReviewed != nil {
		last := *p.LastReviewed
		w.LastReviewed = &last
	}
}

// TouchesMastery reports whether the patch changes scheduling state.
func (p WordPatch) TouchesMastery() bool {
	return p.Level != nil || p.NextReview != nil || p.LastReviewed != nil
}

// TouchesCard reports whether the patch changes either side of the card.
func (p WordPatch) TouchesCard() bool {
	return p.English != nil || p.Turkish != nil
}

// Clone returns a deep copy so cached words are never shared with callers.
func (w Word) Clone() Word {
	c := w
	if w.NextReview != nil {
		next := *w.NextReview
		c.NextReview = &next
	}
	if w.LastReviewed != nil {
		last := *w.LastReviewed
		c.LastReviewed = &last
	}
	return c
}

// MatchesGroup reports whether the word belongs to category and folder; AllGroups matches anything.
func (w Word) MatchesGroup(category, folder string) bool {
	if category != "" && category != AllGroups && w.Category != category {
		return false
	}
	if folder != "" && folder != AllGroups {
		f := w.Folder
		if f == "" {
			f = DefaultGroup
		}
		if f != folder {
			return false
		}
	}
	return true
}
