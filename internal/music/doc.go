// Package music provides musical key arithmetic on the 12-tone
// chromatic scale.
//
// Keys are identified by name using any of the 17 common spellings
// (7 naturals, 5 sharps, 5 flats). Enharmonic spellings map to the
// same chromatic position, so "C#" and "Db" are interchangeable:
//
//	music.SemitoneDistance("Bb", "C")  // 2
//	music.SemitoneDistance("C", "Bb")  // -2
//	music.SemitoneDistance("C#", "A")  // music.SemitoneDistance("Db", "A")
//
// A trailing "m" (minor) is accepted on input labels and ignored by
// the arithmetic: the distance from Am to C is the distance from A to C.
package music
