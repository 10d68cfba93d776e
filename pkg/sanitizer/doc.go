// Package sanitizer cleans client-supplied file names before they are used
// to name stored files.
//
//	sanitizer.Filename(`C:\Users\me\My <Report>.pdf`) // "My _Report_.pdf"
//	sanitizer.Filename("../../etc/passwd")           // "passwd"
//	sanitizer.Filename("CON.txt")                    // "_CON.txt"
//
// The result is a single path component: directories are stripped (both
// slash styles), unsafe and control characters are replaced, Unicode is
// normalized to NFC and the length is capped at 255 bytes. An empty result
// means nothing usable was left; callers pick their own fallback.
package sanitizer
