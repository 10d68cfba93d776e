// Package randomname generates readable, collision-resistant names such as
// "brave-otter-3fa91c2e" for stored files.
//
// Names use only lowercase ASCII letters, digits and hyphens, so they are
// safe as file names and object keys everywhere.
package randomname
