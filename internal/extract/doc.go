// Package extract turns input documents into tagged text fragments.
//
// HTML is walked for elements carrying the configured marker attribute;
// Markdown is rendered to HTML first. Marker and transcript JSON files are
// decoded here too, and BuildTimeline joins a document with its markers.
package extract
