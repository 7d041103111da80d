// CineMatch - Hybrid Movie Recommendation Demo
// Copyright 2026 M. Vickers (mvickers)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvickers/cinematch

// Package store holds the in-memory movie and rating tables.
//
// The store is built once at startup from the dataset provider and is
// immutable afterwards, so all lookups are safe for concurrent use
// without locking.
package store

import "errors"

// ErrNotFound indicates an item ID is absent from the store.
var ErrNotFound = errors.New("item not found")

// Item is a recommendable movie. Immutable after load.
type Item struct {
	// ID is the MovieLens movie ID (unique, stable).
	ID int `json:"movie_id"`

	// Title is the movie title, usually suffixed with a release year.
	Title string `json:"title"`

	// Genres is the list of genre tags.
	Genres []string `json:"genres"`

	// TextBlob is the derived text used for vectorization:
	// title and genre tags joined by spaces.
	TextBlob string `json:"-"`
}

// Interaction is a recorded (user, movie, rating) observation.
type Interaction struct {
	UserID    int     `json:"user_id"`
	ItemID    int     `json:"movie_id"`
	Rating    float64 `json:"rating"`
	Timestamp int64   `json:"timestamp"`
}

// Store exposes read-only lookups over items and interactions.
type Store struct {
	items     []Item
	itemIndex map[int]int // item ID -> position in items

	interactionsByUser map[int][]Interaction
	interactionCount   int
}

// New builds a store from the provider's item and interaction tables.
//
// Items keep their input order as the canonical order. Duplicate item IDs
// keep the first occurrence. Duplicate (user, item) rating pairs resolve
// last-wins: the dataset promises uniqueness, but re-exports sometimes
// append corrections at the end of the file.
func New(items []Item, interactions []Interaction) *Store {
	s := &Store{
		itemIndex:          make(map[int]int, len(items)),
		interactionsByUser: make(map[int][]Interaction),
	}

	s.items = make([]Item, 0, len(items))
	for _, item := range items {
		if _, ok := s.itemIndex[item.ID]; ok {
			continue
		}
		s.itemIndex[item.ID] = len(s.items)
		s.items = append(s.items, item)
	}

	// Group per user, resolving duplicate (user, item) pairs last-wins.
	seen := make(map[int]map[int]int) // user -> item -> position in user's slice
	for _, inter := range interactions {
		userSeen, ok := seen[inter.UserID]
		if !ok {
			userSeen = make(map[int]int)
			seen[inter.UserID] = userSeen
		}

		if pos, dup := userSeen[inter.ItemID]; dup {
			s.interactionsByUser[inter.UserID][pos] = inter
			continue
		}

		userSeen[inter.ItemID] = len(s.interactionsByUser[inter.UserID])
		s.interactionsByUser[inter.UserID] = append(s.interactionsByUser[inter.UserID], inter)
		s.interactionCount++
	}

	return s
}

// GetItem returns the item with the given ID, or ErrNotFound.
func (s *Store) GetItem(id int) (Item, error) {
	idx, ok := s.itemIndex[id]
	if !ok {
		return Item{}, ErrNotFound
	}
	return s.items[idx], nil
}

// ItemsByIDs returns the items for the given IDs, preserving the order of
// the request and skipping unknown IDs.
func (s *Store) ItemsByIDs(ids []int) []Item {
	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		if idx, ok := s.itemIndex[id]; ok {
			items = append(items, s.items[idx])
		}
	}
	return items
}

// InteractionsForUser returns the user's interactions. An unknown user
// yields an empty slice, not an error.
func (s *Store) InteractionsForUser(userID int) []Interaction {
	return s.interactionsByUser[userID]
}

// RatedItemIDs returns the set of item IDs the user has interacted with.
func (s *Store) RatedItemIDs(userID int) map[int]struct{} {
	interactions := s.interactionsByUser[userID]
	rated := make(map[int]struct{}, len(interactions))
	for _, inter := range interactions {
		rated[inter.ItemID] = struct{}{}
	}
	return rated
}

// AllItemIDs returns the set of all item IDs.
func (s *Store) AllItemIDs() map[int]struct{} {
	ids := make(map[int]struct{}, len(s.items))
	for _, item := range s.items {
		ids[item.ID] = struct{}{}
	}
	return ids
}

// Items returns all items in canonical order. Callers must not mutate
// the returned slice.
func (s *Store) Items() []Item {
	return s.items
}

// Index returns the canonical position of an item ID.
func (s *Store) Index(id int) (int, bool) {
	idx, ok := s.itemIndex[id]
	return idx, ok
}

// ItemCount returns the number of items.
func (s *Store) ItemCount() int {
	return len(s.items)
}

// InteractionCount returns the number of interactions after deduplication.
func (s *Store) InteractionCount() int {
	return s.interactionCount
}

// UserCount returns the number of distinct users with interactions.
func (s *Store) UserCount() int {
	return len(s.interactionsByUser)
}

// EachInteraction calls fn for every interaction in the store.
// Iteration order is per-user and not globally deterministic; callers
// aggregating across users must not depend on order.
func (s *Store) EachInteraction(fn func(Interaction)) {
	for _, interactions := range s.interactionsByUser {
		for _, inter := range interactions {
			fn(inter)
		}
	}
}
