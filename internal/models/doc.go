// Package models defines domain entities and persistence interfaces for the Heart offline player.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing remote playlist data
//   - [Playlist] : Basic playlist metadata from the remote service
//   - [PlaylistExport] : Playlist with complete ordered track listing
//   - [Track] : Song metadata with optional ISRC for attachment matching
//
// 2. Persistent Entities: Database-backed models
//   - [LocalFile] : A user-supplied audio blob attached to a track identity,
//     keyed uniquely by track ID with last-write-wins overwrite semantics
//
// Persistent entities implement the Model interface providing identity, timestamps,
// and validation.
package models
