package cmd

// PRsCmd browses cached pull requests
type PRsCmd struct {
	Del    PRsDelCmd    `cmd:"del" help:"Remove a pull request and its comments from the cache"`
	List   PRsListCmd   `cmd:"list" help:"List cached pull requests" default:"1"`
	Search PRsSearchCmd `cmd:"search" help:"Search cached pull requests"`
	View   PRsViewCmd   `cmd:"view" help:"View a cached pull request"`
}
