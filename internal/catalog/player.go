package catalog

import (
	"sort"
	"strconv"

	"github.com/animedom/animedom/internal/models"
)

// Player tracks which episode of an anime is playing.
type Player struct {
	Episodes []*models.Episode
	Current  *models.Episode
}

// NewPlayer orders the episodes by number and starts on the first one.
// Current is nil when there are no episodes.
func NewPlayer(episodes []*models.Episode) *Player {
	sorted := make([]*models.Episode, len(episodes))
	copy(sorted, episodes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EpisodeNumber < sorted[j].EpisodeNumber
	})

	p := &Player{Episodes: sorted}
	if len(sorted) > 0 {
		p.Current = sorted[0]
	}
	return p
}

// Select switches to the first episode with the given number.
// It reports false and keeps the current episode when there is none.
func (p *Player) Select(number int) bool {
	for _, ep := range p.Episodes {
		if ep.EpisodeNumber == number {
			p.Current = ep
			return true
		}
	}
	return false
}

// IsCurrent reports whether ep is the playing episode.
func (p *Player) IsCurrent(ep *models.Episode) bool {
	return p.Current != nil && ep != nil && p.Current.ID == ep.ID
}

// Heading is the caption under the video, e.g. "Серия 3: Title".
func (p *Player) Heading() string {
	if p.Current == nil {
		return ""
	}
	return EpisodeHeading(p.Current)
}

// EpisodeHeading formats "Серия N" with the episode title when it has one.
func EpisodeHeading(ep *models.Episode) string {
	heading := "Серия " + strconv.Itoa(ep.EpisodeNumber)
	if ep.Title != nil && *ep.Title != "" {
		heading += ": " + *ep.Title
	}
	return heading
}
