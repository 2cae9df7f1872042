// Package diff computes structural deltas between a cached snapshot and a freshly
// fetched one. Every function here is pure: no I/O and no mutation of its inputs.
package diff

import (
	"fmt"
	"sort"
	"strings"

	"github.com/renato0307/prcache/internal/domain"
)

// Field names a tracked pull request attribute
type Field string

const (
	FieldDescription Field = "description"
	FieldRevision    Field = "revision"
	FieldStatus      Field = "status"
	FieldTargetRef   Field = "target_ref"
	FieldTitle       Field = "title"
)

// FieldChange is one differing field between two snapshots
type FieldChange struct {
	Field Field  `json:"field"`
	New   string `json:"new"`
	Old   string `json:"old"`
}

// PRDelta is the difference between two snapshots of one pull request.
// An empty Kind means nothing changed.
type PRDelta struct {
	Account       string            `json:"account"`
	Changes       []FieldChange     `json:"changes,omitempty"`
	Kind          domain.ChangeKind `json:"kind,omitempty"`
	PullRequestID string            `json:"pull_request_id"`
}

// IsEmpty reports a no-op sync
func (d PRDelta) IsEmpty() bool {
	return d.Kind == ""
}

// Has reports whether field changed
func (d PRDelta) Has(field Field) bool {
	_, ok := d.Get(field)
	return ok
}

// Get returns the change recorded for field
func (d PRDelta) Get(field Field) (FieldChange, bool) {
	for _, c := range d.Changes {
		if c.Field == field {
			return c, true
		}
	}
	return FieldChange{}, false
}

// StatusTransition returns the old and new status when the status changed
func (d PRDelta) StatusTransition() (from, to domain.PRStatus, ok bool) {
	c, ok := d.Get(FieldStatus)
	if !ok {
		return "", "", false
	}
	return domain.PRStatus(c.Old), domain.PRStatus(c.New), true
}

// Change converts the delta into an event, false when there is nothing to report
func (d PRDelta) Change() (domain.RepoChange, bool) {
	if d.IsEmpty() {
		return domain.RepoChange{}, false
	}

	change := domain.RepoChange{
		Kind: d.Kind,
		Ref: domain.EntityRef{
			Account:       d.Account,
			ID:            d.PullRequestID,
			Kind:          domain.EntityPullRequest,
			PullRequestID: d.PullRequestID,
		},
	}

	switch d.Kind {
	case domain.ChangeAdded:
		change.Summary = fmt.Sprintf("%s added", d.PullRequestID)
	case domain.ChangeRemoved:
		change.Summary = fmt.Sprintf("%s removed", d.PullRequestID)
	default:
		parts := make([]string, 0, len(d.Changes))
		for _, c := range d.Changes {
			change.Fields = append(change.Fields, string(c.Field))
			if c.Field == FieldStatus {
				parts = append(parts, fmt.Sprintf("status %s→%s", c.Old, c.New))
			} else {
				parts = append(parts, string(c.Field))
			}
		}
		change.Summary = fmt.Sprintf("%s changed: %s", d.PullRequestID, strings.Join(parts, ", "))
	}

	return change, true
}

// DiffPR compares the tracked fields of two snapshots. A nil old snapshot means the
// pull request is new; a nil new one means it disappeared remotely.
func DiffPR(old, fresh *domain.CachedPullRequest) PRDelta {
	switch {
	case old == nil && fresh == nil:
		return PRDelta{}
	case old == nil:
		return PRDelta{Account: fresh.Account, Kind: domain.ChangeAdded, PullRequestID: fresh.ID}
	case fresh == nil:
		return PRDelta{Account: old.Account, Kind: domain.ChangeRemoved, PullRequestID: old.ID}
	}

	delta := PRDelta{Account: fresh.Account, PullRequestID: fresh.ID}
	compare := func(field Field, a, b string) {
		if a != b {
			delta.Changes = append(delta.Changes, FieldChange{Field: field, New: b, Old: a})
		}
	}

	// Fixed order keeps output deterministic
	compare(FieldStatus, string(old.Status), string(fresh.Status))
	compare(FieldTitle, old.Title, fresh.Title)
	compare(FieldDescription, old.Description, fresh.Description)
	compare(FieldRevision, old.Revision, fresh.Revision)
	compare(FieldTargetRef, old.TargetRef, fresh.TargetRef)

	if len(delta.Changes) > 0 {
		delta.Kind = domain.ChangeModified
	}
	return delta
}

// CommentChange pairs both versions of a modified comment
type CommentChange struct {
	New domain.Comment `json:"new"`
	Old domain.Comment `json:"old"`
}

// CommentDelta classifies comments by identity. Each slice is sorted by id.
type CommentDelta struct {
	Added    []domain.Comment `json:"added"`
	Modified []CommentChange  `json:"modified"`
	Removed  []domain.Comment `json:"removed"`
}

// IsEmpty reports whether both sets hold the same comments with the same hashes
func (d CommentDelta) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Modified) == 0 && len(d.Removed) == 0
}

// Changes converts the delta into events: added, then modified, then removed
func (d CommentDelta) Changes() []domain.RepoChange {
	changes := make([]domain.RepoChange, 0, len(d.Added)+len(d.Modified)+len(d.Removed))
	for _, c := range d.Added {
		changes = append(changes, commentChange(c, domain.ChangeAdded, fmt.Sprintf("%s commented on %s", c.Author, c.PullRequestID)))
	}
	for _, m := range d.Modified {
		changes = append(changes, commentChange(m.New, domain.ChangeModified, fmt.Sprintf("%s edited a comment on %s", m.New.Author, m.New.PullRequestID)))
	}
	for _, c := range d.Removed {
		changes = append(changes, commentChange(c, domain.ChangeRemoved, fmt.Sprintf("comment %s removed from %s", c.ID, c.PullRequestID)))
	}
	return changes
}

func commentChange(c domain.Comment, kind domain.ChangeKind, summary string) domain.RepoChange {
	return domain.RepoChange{
		Kind: kind,
		Ref: domain.EntityRef{
			Account:       c.Account,
			ID:            c.ID,
			Kind:          domain.EntityComment,
			PullRequestID: c.PullRequestID,
		},
		Summary: summary,
	}
}

// DiffComments matches comments by id and compares content hashes. Order within
// either set does not matter; with duplicate ids the last one wins.
func DiffComments(oldSet, newSet []domain.Comment) CommentDelta {
	oldByID := indexComments(oldSet)
	newByID := indexComments(newSet)

	delta := CommentDelta{
		Added:    []domain.Comment{},
		Modified: []CommentChange{},
		Removed:  []domain.Comment{},
	}

	for id, n := range newByID {
		o, ok := oldByID[id]
		switch {
		case !ok:
			delta.Added = append(delta.Added, n)
		case o.Hash() != n.Hash():
			delta.Modified = append(delta.Modified, CommentChange{New: n, Old: o})
		}
	}
	for id, o := range oldByID {
		if _, ok := newByID[id]; !ok {
			delta.Removed = append(delta.Removed, o)
		}
	}

	sort.Slice(delta.Added, func(i, j int) bool { return delta.Added[i].ID < delta.Added[j].ID })
	sort.Slice(delta.Modified, func(i, j int) bool { return delta.Modified[i].New.ID < delta.Modified[j].New.ID })
	sort.Slice(delta.Removed, func(i, j int) bool { return delta.Removed[i].ID < delta.Removed[j].ID })

	return delta
}

func indexComments(set []domain.Comment) map[string]domain.Comment {
	byID := make(map[string]domain.Comment, len(set))
	for _, c := range set {
		byID[c.ID] = c
	}
	return byID
}
