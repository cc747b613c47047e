// Package daisy renders the files of a DAISY talking book.
//
// Two variants are produced. DAISY 2.02 uses an XHTML navigation control
// centre (ncc.html), a master SMIL file and XHTML content. DAISY 3 uses an
// NCX navigation file, an OPF package file and DTBook XML content. Both get
// one SMIL file per section pairing each text fragment with its audio clip,
// plus er_book_info.xml listing section durations for EasyReader.
//
// A Package is fed sections in order once their audio is final; Finish
// then renders the whole-book files.
package daisy
