// Package selector lets the user pick an input file, either through an
// interactive numbered console menu or from values given on the command line.
package selector
