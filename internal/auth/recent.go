package auth

// RecentGroupsLimit bounds the advisory recent-groups history.
const RecentGroupsLimit = 5

// RecentGroup is one entry of a user's recently visited groups.
type RecentGroup struct {
	GroupID string `json:"group_id"`
	Name    string `json:"name"`
}

// RecentGroups is a bounded most-recently-used list of visited groups. It is
// advisory only: clients send their current list alongside a visit, get the
// updated list back, and persist it themselves. It is never consulted for
// membership or phase decisions.
type RecentGroups []RecentGroup

// Visit returns a new list with the given group moved (or added) to the
// front, deduplicated by group ID and truncated to RecentGroupsLimit. The
// receiver is not modified; the list is passed by value end to end.
func (r RecentGroups) Visit(groupID, name string) RecentGroups {
	updated := make(RecentGroups, 0, len(r)+1)
	updated = append(updated, RecentGroup{GroupID: groupID, Name: name})
	for _, g := range r {
		if g.GroupID == groupID {
			continue
		}
		updated = append(updated, g)
	}
	if len(updated) > RecentGroupsLimit {
		updated = updated[:RecentGroupsLimit]
	}
	return updated
}
