// Command anemone assembles DAISY talking books from recordings, text and
// time markers.
//
// Usage:
//
//	anemone build [flags] file...
//	anemone doctor
//	anemone cache stats|clear
//	anemone config init|validate
package main
