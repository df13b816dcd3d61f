package activity

// ActivityStore is an append-only journal of user actions.
type ActivityStore interface {
	// Log appends one entry. An empty username is recorded as "anonymous".
	Log(username, action, detail string) (*Entry, error)
	// List returns entries newest first, with the total count for paging.
	List(filter Filter) ([]Entry, int, error)
	// Stats summarizes how often each action occurred, busiest first.
	Stats() ([]ActionCount, error)
}
