package service

import (
	"context"
	"fmt"

	"github.com/gorilla/feeds"
	"github.com/reshetovitsme/posbon/internal/modules/audit/domain"
	auditRepo "github.com/reshetovitsme/posbon/internal/modules/audit/repository"
	"github.com/samber/oops"
)

const feedSize = 50

// FeedService renders a group's moderation log as an RSS feed
type FeedService struct {
	repo auditRepo.Repository
}

func NewFeedService(repo auditRepo.Repository) *FeedService {
	return &FeedService{repo: repo}
}

// GenerateFeed returns the latest moderation events of the group
func (s *FeedService) GenerateFeed(ctx context.Context, groupID int64, baseURL string) (*feeds.Feed, error) {
	events, err := s.repo.RecentEvents(ctx, groupID, feedSize)
	if err != nil {
		return nil, oops.With("group_id", groupID, "context", "failed to get moderation events").Wrap(err)
	}

	feed := &feeds.Feed{
		Title:       fmt.Sprintf("Moderation log of group %d", groupID),
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/rss/%d", baseURL, groupID)},
		Description: fmt.Sprintf("Actions taken by the moderation bot in group %d", groupID),
	}
	if len(events) > 0 {
		feed.Updated = events[0].Timestamp
		feed.Created = events[len(events)-1].Timestamp
	}

	feed.Items = make([]*feeds.Item, 0, len(events))
	for _, ev := range events {
		feed.Items = append(feed.Items, eventToFeedItem(ev, baseURL))
	}
	return feed, nil
}

// Stats exposes the audit summary for the owner /stats command
func (s *FeedService) Stats(ctx context.Context) (domain.Stats, error) {
	return s.repo.Stats(ctx)
}

func eventToFeedItem(ev *domain.ModerationEvent, baseURL string) *feeds.Item {
	title := fmt.Sprintf("%s user %d", ev.Action, ev.UserID)
	description := title
	if ev.Reason != "" {
		title += " (" + ev.Reason + ")"
		description = fmt.Sprintf("Action %s applied to user %d, reason: %s", ev.Action, ev.UserID, ev.Reason)
	}

	return &feeds.Item{
		Title:       title,
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/rss/%d#%d", baseURL, ev.GroupID, ev.ID)},
		Description: description,
		Created:     ev.Timestamp,
		Id:          fmt.Sprintf("%d-%d", ev.GroupID, ev.ID),
	}
}
