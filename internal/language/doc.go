// Package language normalizes the publication language code.
//
// Codes are parsed with golang.org/x/text/language so BCP 47 tags and ISO
// 639 codes are both accepted; the canonical tag is written into package
// metadata and the two-letter base is passed to speech recognition.
package language
