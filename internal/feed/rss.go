package feed

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/eduncan911/podcast"

	"podbooker/internal/models"
)

func getBaseURL(r *http.Request) string {
	if baseURL := os.Getenv("BASE_URL"); baseURL != "" {
		return baseURL
	}

	scheme := r.URL.Scheme
	if scheme == "" {
		scheme = "https"
		if r.Header.Get("X-Forwarded-Proto") != "" {
			scheme = r.Header.Get("X-Forwarded-Proto")
		}
	}

	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

// GenerateRSS renders a host's upcoming recordings as an RSS feed.
func GenerateRSS(host *models.Host, episodes []models.EpisodeSummary, r *http.Request) (string, error) {
	baseURL := getBaseURL(r)

	name := host.DisplayName
	if name == "" {
		name = "Your host"
	}

	p := podcast.New(
		fmt.Sprintf("%s's Recording Schedule", name),
		fmt.Sprintf("%s/feed/%s", baseURL, host.FeedUUID),
		"Upcoming podcast recording sessions and guest confirmations.",
		&time.Time{}, &time.Time{},
	)

	for i := range episodes {
		episode := &episodes[i]
		item := podcast.Item{
			Title: episode.Title,
			Description: fmt.Sprintf("%s (%d of %d guests confirmed)",
				episode.Description, episode.ConfirmedCount, episode.GuestCount),
			Link:    fmt.Sprintf("%s/episodes#%s", baseURL, episode.ID),
			PubDate: &episode.CreatedAt,
		}
		if _, err := p.AddItem(item); err != nil {
			return "", err
		}
	}

	return p.String(), nil
}
