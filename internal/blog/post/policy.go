// Copyright (c) 2026 Writory. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

// # Ownership Policy

// Action enumerates the mutating operations gated by ownership.
type Action string

const (
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// Allowed reports whether userID may perform action on the given post.
//
// Reads are public, so only mutations pass through here. The rule is
// deliberately simple: the author, and nobody else. There is no moderator
// override; administration happens out-of-band.
func Allowed(userID string, target *Post, action Action) bool {
	if userID == "" || target == nil {
		return false
	}

	switch action {
	case ActionEdit, ActionDelete:
		return target.AuthorID == userID
	default:
		return false
	}
}
