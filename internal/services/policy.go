package services

import (
	"fmt"
	"strings"

	"github.com/renato0307/prcache/internal/diff"
	"github.com/renato0307/prcache/internal/domain"
)

// NotificationPolicy decides which deltas of one sync become notifications.
// Returned notifications carry no ID or CreatedAt; the sync service fills them.
type NotificationPolicy interface {
	Notifications(account string, pr domain.CachedPullRequest, prDelta diff.PRDelta, comments diff.CommentDelta) []domain.Notification
}

// NotificationPolicyFunc adapts a function to NotificationPolicy
type NotificationPolicyFunc func(account string, pr domain.CachedPullRequest, prDelta diff.PRDelta, comments diff.CommentDelta) []domain.Notification

func (f NotificationPolicyFunc) Notifications(account string, pr domain.CachedPullRequest, prDelta diff.PRDelta, comments diff.CommentDelta) []domain.Notification {
	return f(account, pr, prDelta, comments)
}

// DefaultPolicy notifies about comments written by others and about pull requests
// that get merged or closed. The first sync of a pull request is silent.
type DefaultPolicy struct{}

func (DefaultPolicy) Notifications(account string, pr domain.CachedPullRequest, prDelta diff.PRDelta, comments diff.CommentDelta) []domain.Notification {
	if prDelta.Kind == domain.ChangeAdded || prDelta.Kind == domain.ChangeRemoved {
		return nil
	}

	var out []domain.Notification

	if from, to, ok := prDelta.StatusTransition(); ok && to.Terminal() && !from.Terminal() {
		out = append(out, domain.Notification{
			Account: account,
			Kind:    domain.NotificationStatusChange,
			Ref: domain.EntityRef{
				Account:       account,
				ID:            pr.ID,
				Kind:          domain.EntityPullRequest,
				PullRequestID: pr.ID,
			},
			Summary: fmt.Sprintf("%s was %s: %s", pr.ID, to, pr.Title),
		})
	}

	mention := "@" + strings.ToLower(account)
	for _, c := range comments.Added {
		if strings.EqualFold(c.Author, account) {
			continue
		}

		n := domain.Notification{
			Account: account,
			Kind:    domain.NotificationNewComment,
			Ref: domain.EntityRef{
				Account:       account,
				ID:            c.ID,
				Kind:          domain.EntityComment,
				PullRequestID: pr.ID,
			},
			Summary: fmt.Sprintf("%s commented on %s", c.Author, pr.ID),
		}
		if strings.Contains(strings.ToLower(c.Body), mention) {
			n.Kind = domain.NotificationMention
			n.Summary = fmt.Sprintf("%s mentioned you on %s", c.Author, pr.ID)
		}
		out = append(out, n)
	}

	return out
}
