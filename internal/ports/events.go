package ports

import "github.com/renato0307/prcache/internal/domain"

// ChangePublisher broadcasts committed changes
type ChangePublisher interface {
	Publish(change domain.RepoChange)
}
