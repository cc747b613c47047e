// Package timeline models one section's alternating sequence of text
// fragments and audio timestamps.
//
// Fragments live in an arena and are addressed by stable FragmentIDs. Page
// markers and TOC entries hold IDs rather than positions, so merging,
// splicing or inserting fragments never requires renumbering them: a
// removed fragment's ID is aliased to the fragment that absorbed it and
// Resolve follows the alias chain.
package timeline
